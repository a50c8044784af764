// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kg112500/dynam-hikone/errs"
	"github.com/kg112500/dynam-hikone/server/api"
	"github.com/kg112500/dynam-hikone/server/app"
	"github.com/kg112500/dynam-hikone/server/netsvr"
	"github.com/kg112500/dynam-hikone/server/svrcfg"
)

// Run 是 server 套件的「組裝器（assembler）」與「啟動入口（runtime entry）」。
//
// 它負責：
//  1. 驗證輸入的 SvrCfg（包含必要依賴：logger 與 Analyzer）。
//  2. 建立 HTTP server（netsvr）。
//  3. 註冊路由與 middleware（api.RegisterRoutes）。
//  4. 啟動 app.Run() 並回傳停止原因。
//
// 注意：
//   - Run 不讀任何檔案、不碰任何環境變數；所有依賴都透過 SvrCfg 明確注入。
//     資料來源 URL、快取 TTL 這些屬於 hallcfg，應在呼叫端組好 Analyzer 再進來。
//   - 這裡提供預設啟動方式；若要自訂 server 的組裝/路由/生命週期，
//     可以自行持有 Analyzer、建自己的 server，再呼叫 api.RegisterRoutes()。
func Run(sCfg *svrcfg.SvrCfg) {
	if err := sCfg.Vaild(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return
	}
	// Server
	svr := netsvr.NewChiServerDefault()

	// 註冊 Api
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		sCfg.Log.Error("register routes:", slog.Any("err", err))
		return
	}

	// 運行
	app := app.NewWith(svr)
	sCfg.Log.Info("[hikone] listening on http://localhost" + svr.Address())
	if err := app.Run(); err != nil {
		sCfg.Log.Error("app stopped:", slog.Any("err", err))
	}
}

// RunWithSvr 與 Run() 相同，差別在於允許呼叫端注入自訂的 NetSvr
// （例如自己包裝的 chi/gin/echo adapter、自訂 listener、或接到既有框架的生命週期）。
//
// 適用情境：
//   - 希望把分析 API 掛載到現有服務中（作為子路由/子模組）。
//   - 需要更細的 server 參數控制（Address、TLS、timeout、graceful shutdown 策略等）。
//
// 行為與合約（contract）：
//   - 會先做 SvrCfg 的基本驗證（包含 logger）。驗證失敗時把錯誤輸出到 stderr，
//     以避免上層「組裝失敗但無 log 可看」。
//   - svr 參數必須非 nil；若是 ChiAdapter 會要求 Ready() 為 true（避免注入不完整的 server）。
//   - 這一層只負責「註冊 routes + 啟動 app.Run()」，不接管呼叫端整個系統的組裝方式。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	if err := sCfg.Vaild(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if svr == nil {
		sCfg.Log.Error(errs.NewFatal("svr is required").Error())
		return
	} else {
		if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
			sCfg.Log.Error(errs.NewFatal("default server is not ready").Error())
			return
		}
	}

	// 註冊 Api
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		sCfg.Log.Error("register routes:", slog.Any("err", err))
		return
	}

	// 運行
	app := app.NewWith(svr)
	sCfg.Log.Info("[hikone] listening")
	if err := app.Run(); err != nil {
		sCfg.Log.Error("app stopped:", slog.Any("err", err))
	}
}
