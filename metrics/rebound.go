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

package metrics

import (
	"sort"

	"github.com/kg112500/dynam-hikone/dataset"
)

// LagRecord 是掛上「同台前一筆」實績的 Record。
type LagRecord struct {
	dataset.Record
	PrevDiff  int
	PrevSpins int
}

// Lagged 計算 lag-by-one：依 (台番号, 日付) 排序後，
// 在同一台番內把前一筆的 総差枚 / G数 掛到下一筆上。
// 每台的第一筆沒有「前日」，直接剔除，不會補零混進門檻判定；
// shift 也絕不跨台番（換台即重新起算）。輸入不變動。
func Lagged(recs []dataset.Record) []LagRecord {
	ordered := make([]dataset.Record, len(recs))
	copy(ordered, recs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CabinetNo != ordered[j].CabinetNo {
			return ordered[i].CabinetNo < ordered[j].CabinetNo
		}
		return ordered[i].Date.Before(ordered[j].Date)
	})

	out := make([]LagRecord, 0, len(ordered))
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if prev.CabinetNo != cur.CabinetNo {
			continue
		}
		out = append(out, LagRecord{
			Record:    cur,
			PrevDiff:  prev.Diff,
			PrevSpins: prev.Spins,
		})
	}
	return out
}

// ReboundQuery 描述「前日凹み台の翌日」的抽出條件。
type ReboundQuery struct {
	MaxPrevDiff  int   // 前日総差枚 ≤ 此值（通常給負數，選前日凹んだ台）
	MinPrevSpins int   // 前日G数 ≥ 此值（回されていない台は対象外）
	Dims         []Dim // 翌日実績的分組軸，空則只出 Overall
}

// ReboundReport 是翌日リバウンド分析的輸出。
type ReboundReport struct {
	MaxPrevDiff  int    `json:"MaxPrevDiff"`
	MinPrevSpins int    `json:"MinPrevSpins"`
	Overall      Row    `json:"Overall"`
	Table        *Table `json:"Table,omitempty"`
}

// Rebound 抽出前日凹み台，把「翌日」的実績丟回同一個彙總器。
// 命中零筆不是錯誤，Overall.Samples 為 0 的空報告照樣回去，
// 要不要當「無資料」狀態呈現由呼叫端決定。
func Rebound(recs []dataset.Record, q ReboundQuery, opt Options) (*ReboundReport, error) {
	var hit []dataset.Record
	for _, lr := range Lagged(recs) {
		if lr.PrevDiff <= q.MaxPrevDiff && lr.PrevSpins >= q.MinPrevSpins {
			hit = append(hit, lr.Record)
		}
	}

	rep := &ReboundReport{MaxPrevDiff: q.MaxPrevDiff, MinPrevSpins: q.MinPrevSpins}
	if len(hit) > 0 {
		all := Aggregate(hit, func(dataset.Record) struct{} { return struct{}{} }, opt)
		rep.Overall = all[struct{}{}]
	}
	if len(q.Dims) > 0 {
		t, err := Crosstab(hit, q.Dims, opt)
		if err != nil {
			return nil, err
		}
		rep.Table = t
	}
	return rep, nil
}
