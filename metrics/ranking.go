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
	"strconv"

	"github.com/kg112500/dynam-hikone/dataset"
)

// CabinetKey 以 (台番号, 機種) 當分組鍵。
// 同一台番換過機種時會拆成多列，各機種時期分開評價。
type CabinetKey struct {
	No    int
	Model string
}

// RankRow 是鉄板台ランキング的一列。
type RankRow struct {
	CabinetNo int    `json:"CabinetNo"`
	Model     string `json:"Model"`
	Installed bool   `json:"Installed"` // 機種仍與最終観測一致（現役）或已撤去
	Row
}

// Ranking 產出鉄板台ランキング：(台番号, 機種) 彙總後，
// 樣本數不足 minSamples 的組先剔除（一兩天的爆發不算鉄板），
// 依機械割降冪排序取前 limit 列。
// Installed 由 latest（台番 → 最終観測機種）照合而來；latest 為 nil 時全列視為現役。
func Ranking(recs []dataset.Record, latest map[int]string, minSamples, limit int, opt Options) []RankRow {
	agg := Aggregate(recs, func(r dataset.Record) CabinetKey {
		return CabinetKey{No: r.CabinetNo, Model: r.Model}
	}, opt)

	rows := make([]RankRow, 0, len(agg))
	for k, row := range agg {
		if row.Samples < minSamples {
			continue
		}
		installed := true
		if latest != nil {
			installed = latest[k.No] == k.Model
		}
		rows = append(rows, RankRow{
			CabinetNo: k.No,
			Model:     k.Model,
			Installed: installed,
			Row:       row,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Payout != b.Payout {
			return a.Payout > b.Payout
		}
		if a.AvgDiff != b.AvgDiff {
			return a.AvgDiff > b.AvgDiff
		}
		return a.CabinetNo < b.CabinetNo
	})

	if limit >= 1 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// RankingTable 把排名轉成 Table，沿用共通的 render / 匯出路徑。
func RankingTable(rows []RankRow) *Table {
	t := &Table{Cols: []string{"台番号", "機種", "状態"}}
	t.Rows = make([]TableRow, len(rows))
	for i, r := range rows {
		state := "現役"
		if !r.Installed {
			state = "撤去"
		}
		t.Rows[i] = TableRow{
			Keys: []string{strconv.Itoa(r.CabinetNo), r.Model, state},
			Row:  r.Row,
		}
	}
	return t
}
