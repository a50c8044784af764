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

package hikone

import (
	"context"

	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/metrics"
)

// Report 打包一次査詢的全部標準分析結果，
// API 的完整輸出與 CLI 報表共用同一份結構。
type Report struct {
	Hall     string      `json:"Hall"`
	Filter   string      `json:"Filter"`
	From     string      `json:"From"`
	To       string      `json:"To"`
	Samples  int         `json:"Samples"`
	Cabinets int         `json:"Cabinets"`
	Models   int         `json:"Models"`
	Overall  metrics.Row `json:"Overall"`

	ByModel  *metrics.Table `json:"ByModel"`
	Daily    *metrics.Table `json:"Daily"`
	DayDigit *metrics.Table `json:"DayDigit"`

	Ranking []metrics.RankRow      `json:"Ranking"`
	Rebound *metrics.ReboundReport `json:"Rebound,omitzero"`
}

// Report 跑標準分析一輪：概況、機種別、日別、日末尾別、
// 鉄板台ランキング、翌日リバウンド。
//
// 任一段落失敗，整份回錯誤；不出缺段的半成品報告。
func (a *Analyzer) Report(ctx context.Context, f dataset.Filter, q metrics.ReboundQuery) (*Report, error) {
	ds, err := a.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	recs := f.Apply(dataset.Active(ds.Records))
	if len(recs) == 0 {
		return nil, noData(f)
	}

	from, to := dataset.Span(recs)
	r := &Report{
		Hall:    a.cfg.HallName,
		Filter:  f.Label(),
		From:    from.Format("2006-01-02"),
		To:      to.Format("2006-01-02"),
		Samples: len(recs),
		Overall: overallRow(recs, a.opt),
	}

	cabinets := make(map[int]bool)
	models := make(map[string]bool)
	for _, rec := range recs {
		cabinets[rec.CabinetNo] = true
		models[rec.Model] = true
	}
	r.Cabinets = len(cabinets)
	r.Models = len(models)

	if r.ByModel, err = metrics.Crosstab(recs, []metrics.Dim{metrics.DimModel}, a.opt); err != nil {
		return nil, err
	}
	if err = r.ByModel.SortBy("avg_diff", true); err != nil {
		return nil, err
	}
	if r.Daily, err = metrics.Crosstab(recs, []metrics.Dim{metrics.DimDate}, a.opt); err != nil {
		return nil, err
	}
	if r.DayDigit, err = metrics.Crosstab(recs, []metrics.Dim{metrics.DimDayDigit}, a.opt); err != nil {
		return nil, err
	}

	r.Ranking = metrics.Ranking(recs, ds.Latest, a.cfg.RankMinSamples, a.cfg.RankLimit, a.opt)

	if r.Rebound, err = metrics.Rebound(recs, q, a.opt); err != nil {
		return nil, err
	}

	return r, nil
}

// overallRow 把全部列收成單獨一行（分組鍵只有一個空 struct）。
func overallRow(recs []dataset.Record, opt metrics.Options) metrics.Row {
	all := metrics.Aggregate(recs, func(dataset.Record) struct{} { return struct{}{} }, opt)
	return all[struct{}{}]
}
