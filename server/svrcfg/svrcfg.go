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

package svrcfg

import (
	"log/slog"

	hikone "github.com/kg112500/dynam-hikone"
	"github.com/kg112500/dynam-hikone/errs"
	"github.com/kg112500/dynam-hikone/server/logger"
)

// SvrMode 決定掛載的路由範圍。
type SvrMode uint8

const (
	// ModeDev 額外掛 /dev 路由（快取狀態、設定 dump）。
	ModeDev SvrMode = iota
	// ModeProd 只掛正式 API。
	ModeProd
)

type SvrCfg struct {
	Log      *slog.Logger
	Analyzer *hikone.Analyzer
	Mode     SvrMode
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	if sc.Analyzer == nil {
		return errs.NewFatal("analyzer is required")
	}
	return nil
}
