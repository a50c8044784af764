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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	hikone "github.com/kg112500/dynam-hikone"
	"github.com/kg112500/dynam-hikone/hallcfg"
	"github.com/kg112500/dynam-hikone/server"
	"github.com/kg112500/dynam-hikone/server/logger"
	"github.com/kg112500/dynam-hikone/server/netsvr"
	"github.com/kg112500/dynam-hikone/server/svrcfg"
)

// 店舗分析 API server 的啟動入口。
// 設定檔（hall.yaml）描述資料來源與分析參數；
// 來源 URL 屬於 secrets，不進 YAML，由 .env / 環境變數覆寫。
func main() {
	sCfg, addr, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if addr != "" {
		server.RunWithSvr(sCfg, netsvr.NewChiServer(addr))
		return
	}
	server.Run(sCfg)
}

type config struct {
	ConfigPath string
	Addr       string
	LogMode    string
	Mode       string
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, string, error) {
	// .env.local 優先於 .env，兩者都可缺
	_ = godotenv.Load(".env.local", ".env")

	cfg := new(config)
	flag.StringVar(&cfg.ConfigPath, "config", envOr("HIKONE_CONFIG", "hall.yaml"), "hall config file (YAML)")
	flag.StringVar(&cfg.Addr, "addr", envOr("HIKONE_ADDR", ""), "listen address, e.g. :8501 (empty = default)")
	flag.StringVar(&cfg.LogMode, "log-mode", "ModeDev", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.StringVar(&cfg.Mode, "mode", envOr("HIKONE_MODE", "dev"), "server mode: dev|prod (dev mounts /dev routes)")

	flag.Parse()

	log, _ := logger.NewAsync(4096, cfg.norm())

	raw, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		return nil, "", err
	}
	hall, err := hallcfg.FromYAML(raw)
	if err != nil {
		return nil, "", err
	}
	// 來源 URL 的環境變數覆寫。只覆寫、不補缺：data 來源本身必須在 YAML 有 url 或 path。
	if v := os.Getenv("HIKONE_DATA_URL"); v != "" {
		hall.Data.URL = v
	}
	if v := os.Getenv("HIKONE_MAPPING_URL"); v != "" {
		hall.Mapping.URL = v
	}
	if v := os.Getenv("HIKONE_COORDS_URL"); v != "" {
		hall.Coords.URL = v
	}

	ana, err := hikone.New(hall)
	if err != nil {
		return nil, "", err
	}
	sCfg := &svrcfg.SvrCfg{
		Log:      log,
		Analyzer: ana,
		Mode:     cfg.normMode(),
	}
	return sCfg, cfg.Addr, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (cfg *config) norm() logger.LogMode {
	switch cfg.LogMode {
	case "ModeDev":
		return logger.ModeDev
	case "ModeProd":
		return logger.ModeProd
	case "ModeSilence":
		return logger.ModeSilence
	default:
		return logger.ModeDev
	}
}

func (cfg *config) normMode() svrcfg.SvrMode {
	if cfg.Mode == "prod" {
		return svrcfg.ModeProd
	}
	return svrcfg.ModeDev
}
