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

// Package hikone 提供店舗分析の「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// Analyzer 把下列地基組裝在一起，HTTP server 與 CLI 共用同一個入口：
//  1. HallConfig：來源位置、機械割常數、快取 TTL 等高階設定。
//  2. Loader：資料表 / 機種変換表的載入管線（別名解析、轉型、派生屬性）。
//  3. Cache：資料集與座標表各一份 TTL 快取，時間到或明示 Invalidate 才重載。
//
// 設計重點：
//   - 每次查詢都是「快取資料 → 稼働列除外 → 使用者篩選 → 彙總」的同步全量重算，
//     沒有背景 worker，也沒有增量更新。
//   - 稼働列除外（G数 > 0）是全域政策，統一在 Analyzer 套，view 不得各自為政。
//   - 篩選後零筆、座標表不在、座標對不上，是三種彼此可區分的 Warn 狀態，
//     與「載入失敗（Fatal）」分開呈現。
package hikone

import (
	"context"
	"time"

	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/errs"
	"github.com/kg112500/dynam-hikone/floormap"
	"github.com/kg112500/dynam-hikone/hallcfg"
	"github.com/kg112500/dynam-hikone/metrics"
)

// Analyzer 是組裝完成的分析入口。建好後唯讀，可被多個請求併用。
type Analyzer struct {
	cfg *hallcfg.HallConfig
	opt metrics.Options

	data   *Cache[*dataset.Dataset]
	coords *Cache[*floormap.CoordTable]
}

// New 依設定建立 Analyzer，來源由 HallConfig 組出。
func New(cfg *hallcfg.HallConfig) (*Analyzer, error) {
	if cfg == nil {
		return nil, errs.NewFatal("hall config required")
	}
	return NewWithSources(cfg,
		dataset.NewSource(cfg.Data),
		dataset.NewSource(cfg.Mapping),
		dataset.NewSource(cfg.Coords),
	)
}

// NewWithSources 與 New 相同，但由呼叫端直接注入表格來源。
// 測試與內嵌資料（fs.FS）走這裡。data 必填；mapping / coords 可為 nil。
func NewWithSources(cfg *hallcfg.HallConfig, data, mapping, coords dataset.Source) (*Analyzer, error) {
	if cfg == nil {
		return nil, errs.NewFatal("hall config required")
	}
	if data == nil {
		return nil, errs.NewFatal("data source required")
	}

	loader := &dataset.Loader{
		Data:      data,
		Mapping:   mapping,
		Overrides: cfg.ModelOverrides,
	}
	a := &Analyzer{
		cfg: cfg,
		opt: metrics.Options{CoinsPerGame: cfg.CoinsPerGame},
		data: NewCache(cfg.DataTTL.Std(), func(ctx context.Context) (*dataset.Dataset, error) {
			return loader.Load(ctx)
		}),
		coords: NewCache(cfg.CoordTTL.Std(), func(ctx context.Context) (*floormap.CoordTable, error) {
			return floormap.LoadCoords(ctx, coords)
		}),
	}
	return a, nil
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Dataset 回傳快取中的資料集，過期時重載。
func (a *Analyzer) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	return a.data.Get(ctx)
}

// Invalidate 同時作廢資料集與座標表快取（「データを最新に更新」按鈕）。
func (a *Analyzer) Invalidate() {
	a.data.Invalidate()
	a.coords.Invalidate()
}

// Records 回傳「稼働列除外 → 使用者篩選」後的列。
// 一筆不剩回 dataset.ErrNoData（帶上篩選條件摘要）。
func (a *Analyzer) Records(ctx context.Context, f dataset.Filter) ([]dataset.Record, error) {
	ds, err := a.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	recs := f.Apply(dataset.Active(ds.Records))
	if len(recs) == 0 {
		return nil, noData(f)
	}
	return recs, nil
}

// noData 包裝 dataset.ErrNoData，errors.Is 可照合、Extra 帶條件摘要。
func noData(f dataset.Filter) *errs.E {
	return errs.Wrap(dataset.ErrNoData, "no matching data").WithExtra(f.Label())
}

// Summary 依指定分組軸出彙總表。
func (a *Analyzer) Summary(ctx context.Context, f dataset.Filter, dims []metrics.Dim) (*metrics.Table, error) {
	recs, err := a.Records(ctx, f)
	if err != nil {
		return nil, err
	}
	return metrics.Crosstab(recs, dims, a.opt)
}

// Daily 出日付別推移（チャート用）。
func (a *Analyzer) Daily(ctx context.Context, f dataset.Filter) (*metrics.Table, error) {
	return a.Summary(ctx, f, []metrics.Dim{metrics.DimDate})
}

// Ranking 出鉄板台ランキング。minSamples / limit 給 0 用設定檔預設值。
func (a *Analyzer) Ranking(ctx context.Context, f dataset.Filter, minSamples, limit int) ([]metrics.RankRow, error) {
	ds, err := a.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	recs := f.Apply(dataset.Active(ds.Records))
	if len(recs) == 0 {
		return nil, noData(f)
	}
	if minSamples < 1 {
		minSamples = a.cfg.RankMinSamples
	}
	if limit < 1 {
		limit = a.cfg.RankLimit
	}
	// Installed 判定要用「全量」的最終観測機種，不能用篩選後的
	return metrics.Ranking(recs, ds.Latest, minSamples, limit, a.opt), nil
}

// Rebound 跑翌日リバウンド分析。
func (a *Analyzer) Rebound(ctx context.Context, f dataset.Filter, q metrics.ReboundQuery) (*metrics.ReboundReport, error) {
	recs, err := a.Records(ctx, f)
	if err != nil {
		return nil, err
	}
	return metrics.Rebound(recs, q, a.opt)
}

// FloorMap 出店舗マップ。synthetic 為 true 時不讀座標表，
// 改用台番順的概略配置（產出的 Grid 會帶 Synthetic 標記）。
func (a *Analyzer) FloorMap(ctx context.Context, f dataset.Filter, metric floormap.Metric, synthetic bool) (*floormap.Grid, error) {
	recs, err := a.Records(ctx, f)
	if err != nil {
		return nil, err
	}
	stats := a.cabinetStats(recs)

	var ct *floormap.CoordTable
	if synthetic {
		nos := make([]int, 0, len(stats))
		for no := range stats {
			nos = append(nos, no)
		}
		ct = floormap.Synthetic(nos, a.cfg.FallbackPerRow)
	} else {
		ct, err = a.coords.Get(ctx)
		if err != nil {
			return nil, err
		}
	}
	return floormap.Build(ct, stats, metric)
}

// Machines 回傳全台的最終観測機種一覧（台番昇順）。
func (a *Analyzer) Machines(ctx context.Context) ([]dataset.Machine, error) {
	ds, err := a.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Machines(), nil
}

// Config 回傳組裝時的設定（唯讀）。
func (a *Analyzer) Config() *hallcfg.HallConfig { return a.cfg }

// CacheInfo 回傳兩份快取的現況，dev panel 用。
func (a *Analyzer) CacheInfo() map[string]CacheInfo {
	return map[string]CacheInfo{
		"data":   a.data.Info(),
		"coords": a.coords.Info(),
	}
}

// ============================================================
// ** 內部方法 **
// ============================================================

// cabinetStats 做台番別彙總並配上「篩選期間內最後観測到的機種」。
func (a *Analyzer) cabinetStats(recs []dataset.Record) map[int]floormap.Stat {
	agg := metrics.Aggregate(recs, func(r dataset.Record) int { return r.CabinetNo }, a.opt)

	model := make(map[int]string, len(agg))
	when := make(map[int]time.Time, len(agg))
	for _, r := range recs {
		if t, ok := when[r.CabinetNo]; ok && r.Date.Before(t) {
			continue
		}
		when[r.CabinetNo] = r.Date
		model[r.CabinetNo] = r.Model
	}

	stats := make(map[int]floormap.Stat, len(agg))
	for no, row := range agg {
		stats[no] = floormap.Stat{
			Model:   model[no],
			AvgDiff: row.AvgDiff,
			WinRate: row.WinRate,
			Payout:  row.Payout,
		}
	}
	return stats
}
