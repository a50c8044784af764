package hallcfg

import (
	"fmt"
	"time"

	"github.com/kg112500/dynam-hikone/errs"
)

// DefaultCoinsPerGame 是機械割公式的投入枚數常數（1G 的投入，3枚掛け）。
// 機械割 = (G數×CoinsPerGame + 総差枚) / (G數×CoinsPerGame) × 100。
// 來源是業界慣例而非資料本身，所以做成設定值，預設 3。
const DefaultCoinsPerGame = 3

const (
	DefaultDataTTL  = 10 * time.Minute
	DefaultCoordTTL = time.Hour
)

// HallConfig 包含跑一個店舗分析服務所需的所有高階設定。
type HallConfig struct {
	HallName       string            `yaml:"hall_name"        json:"hall_name"`
	Data           SourceSetting     `yaml:"data"             json:"data"`
	Mapping        SourceSetting     `yaml:"mapping"          json:"mapping"`
	Coords         SourceSetting     `yaml:"coords"           json:"coords"`
	CoinsPerGame   int               `yaml:"coins_per_game"   json:"coins_per_game"`
	DataTTL        Duration          `yaml:"data_ttl"         json:"data_ttl"`
	CoordTTL       Duration          `yaml:"coord_ttl"        json:"coord_ttl"`
	ModelOverrides map[string]string `yaml:"model_overrides"   json:"model_overrides"`
	RankMinSamples int               `yaml:"rank_min_samples"  json:"rank_min_samples"`
	RankLimit      int               `yaml:"rank_limit"        json:"rank_limit"`
	FallbackPerRow int               `yaml:"fallback_per_row"  json:"fallback_per_row"`
}

// SourceSetting 描述一個表格來源。三擇一：
// 遠端 CSV（url）、本地 CSV（path）、或 XLSX 工作表（workbook + sheet）。
// url 與 path 可同時給，path 作為 url 失敗時的 fallback。
type SourceSetting struct {
	URL      string `yaml:"url"       json:"url"`
	Path     string `yaml:"path"      json:"path"`
	Workbook string `yaml:"workbook"  json:"workbook"`
	Sheet    string `yaml:"sheet"     json:"sheet"`
}

// Empty 回報這個來源是否完全未設定（合法，該功能走 unavailable 路徑）。
func (s SourceSetting) Empty() bool {
	return s.URL == "" && s.Path == "" && s.Workbook == ""
}

// init 填入預設值後執行基本檢查。
func (hc *HallConfig) init() error {
	if hc.CoinsPerGame == 0 {
		hc.CoinsPerGame = DefaultCoinsPerGame
	}
	if hc.DataTTL == 0 {
		hc.DataTTL = Duration(DefaultDataTTL)
	}
	if hc.CoordTTL == 0 {
		hc.CoordTTL = Duration(DefaultCoordTTL)
	}
	if hc.RankMinSamples == 0 {
		hc.RankMinSamples = 3
	}
	if hc.RankLimit == 0 {
		hc.RankLimit = 20
	}
	if hc.FallbackPerRow == 0 {
		hc.FallbackPerRow = 10
	}
	return hc.valid()
}

// valid 執行最基本的設定檔檢查，如需更多驗證可在此擴充。
func (hc *HallConfig) valid() error {

	// 資料來源是必要的，機種轉換表與座標表可缺
	if hc.Data.Empty() {
		return errs.NewFatal(fmt.Sprintf("hall: %s err:no data source", hc.HallName))
	}
	if err := hc.Data.valid("data"); err != nil {
		return err
	}
	if err := hc.Mapping.valid("mapping"); err != nil {
		return err
	}
	if err := hc.Coords.valid("coords"); err != nil {
		return err
	}

	if hc.CoinsPerGame < 1 {
		return errs.Fatalf("invalid coins_per_game: %d", hc.CoinsPerGame)
	}
	if hc.DataTTL < 0 || hc.CoordTTL < 0 {
		return errs.NewFatal("negative cache ttl")
	}
	if hc.RankMinSamples < 1 || hc.RankLimit < 1 {
		return errs.NewFatal("rank_min_samples and rank_limit must be >= 1")
	}
	if hc.FallbackPerRow < 1 {
		return errs.Fatalf("invalid fallback_per_row: %d", hc.FallbackPerRow)
	}
	return nil
}

func (s SourceSetting) valid(name string) error {
	// workbook 與 sheet 必須成對出現
	if (s.Workbook == "") != (s.Sheet == "") {
		return errs.Fatalf("source %s: workbook and sheet must be set together", name)
	}
	return nil
}
