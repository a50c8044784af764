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

package api

import (
	"log/slog"

	"github.com/kg112500/dynam-hikone/server/api/dev"
	"github.com/kg112500/dynam-hikone/server/api/index"
	v1 "github.com/kg112500/dynam-hikone/server/api/v1"
	"github.com/kg112500/dynam-hikone/server/netsvr"
	"github.com/kg112500/dynam-hikone/server/netsvr/middleware"
	"github.com/kg112500/dynam-hikone/server/svrcfg"
)

// RegisterRoutes 註冊。v1 handler 組裝失敗（如 Analyzer 缺）時回錯誤，
// 不會留下一個只有主頁、沒有 v1 路由的 server。
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	registerIndex(svr)                // 2. 註冊主頁
	if sCfg.Mode == svrcfg.ModeDev {
		dev.Register(svr, sCfg) // 3. 開發者工具頁（dev mode 限定）
	}
	return registerV1API(svr, sCfg) // 4. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.Compression)
}

// 註冊主頁
func registerIndex(svr netsvr.NetSvr) {
	svr.Get("/", index.IndexHandlerFn)
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	hh, err := v1.NewHallHandler(sCfg.Analyzer)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/summary", hh.Summary)
		vOne.Get("/daily", hh.Daily)
		vOne.Get("/ranking", hh.Ranking)
		vOne.Get("/ranking.csv", hh.RankingCSV)
		vOne.Get("/rebound", hh.Rebound)
		vOne.Get("/floormap", hh.FloorMap)
		vOne.Get("/floormap.html", hh.FloorMapHTML)
		vOne.Get("/machines", hh.Machines)
		vOne.Get("/report", hh.Report)

		vOne.Post("/reload", hh.Reload(sCfg.Log))
	})
	return nil
}
