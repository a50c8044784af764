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

package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	hikone "github.com/kg112500/dynam-hikone"
	"github.com/kg112500/dynam-hikone/metrics"
)

// WriteWorkbook 把一份 Report 寫成 xlsx（概況 + 各セクション一 sheet）。
func WriteWorkbook(w io.Writer, r *hikone.Report) error {
	f, err := buildWorkbook(r)
	if err != nil {
		return err
	}
	return f.Write(w)
}

// SaveWorkbook 與 WriteWorkbook 相同，但直接存檔。
func SaveWorkbook(path string, r *hikone.Report) error {
	f, err := buildWorkbook(r)
	if err != nil {
		return err
	}
	return f.SaveAs(path)
}

func buildWorkbook(r *hikone.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "概況")

	writeOverview(f, r)

	sections := []struct {
		sheet string
		table *metrics.Table
	}{
		{"機種別", r.ByModel},
		{"日別推移", r.Daily},
		{"日付末尾別", r.DayDigit},
		{"ランキング", rankingSheet(r.Ranking)},
	}
	if r.Rebound != nil && r.Rebound.Table != nil {
		sections = append(sections, struct {
			sheet string
			table *metrics.Table
		}{"翌日リバウンド", r.Rebound.Table})
	}
	for _, s := range sections {
		if s.table == nil {
			continue
		}
		if _, err := f.NewSheet(s.sheet); err != nil {
			return nil, err
		}
		if err := writeTableSheet(f, s.sheet, s.table); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// writeOverview 寫概況 sheet：查詢メタ情報縦並び ＋ 全体指標一列。
func writeOverview(f *excelize.File, r *hikone.Report) {
	meta := [][2]any{
		{"ホール", r.Hall},
		{"期間", r.From + "〜" + r.To},
		{"絞り込み", r.Filter},
		{"台数", r.Cabinets},
		{"機種数", r.Models},
		{"サンプル数", r.Samples},
	}
	for i, kv := range meta {
		f.SetCellValue("概況", fmt.Sprintf("A%d", i+1), kv[0])
		f.SetCellValue("概況", fmt.Sprintf("B%d", i+1), kv[1])
	}
	f.SetColWidth("概況", "A", "B", 22)

	head := len(meta) + 2
	for i, h := range csvMetricHeads {
		cell, _ := excelize.CoordinatesToCellName(i+1, head)
		f.SetCellValue("概況", cell, h)
	}
	for i, v := range metricValues(r.Overall) {
		cell, _ := excelize.CoordinatesToCellName(i+1, head+1)
		f.SetCellValue("概況", cell, v)
	}
}

// writeTableSheet 寫一張彙總表。數值欄給原生型別，Excel 側才能直接再集計。
func writeTableSheet(f *excelize.File, sheet string, t *metrics.Table) error {
	head := append(append([]string{}, t.Cols...), csvMetricHeads...)
	for i, h := range head {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
		if col, err := excelize.ColumnNumberToName(i + 1); err == nil {
			f.SetColWidth(sheet, col, col, 14)
		}
	}
	for ri, row := range t.Rows {
		cells := make([]any, 0, len(head))
		for _, k := range row.Keys {
			cells = append(cells, k)
		}
		cells = append(cells, metricValues(row.Row)...)
		for ci, v := range cells {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}
	return nil
}

// metricValues 與 csvMetricHeads 同序。
func metricValues(r metrics.Row) []any {
	return []any{
		r.Samples,
		r.Wins,
		r.WinRate,
		r.WinRateCI.Lo,
		r.WinRateCI.Hi,
		r.TotalDiff,
		r.TotalSpins,
		r.AvgDiff,
		r.AvgSpins,
		r.Payout,
	}
}

// rankingSheet 轉成含順位欄的 Table。
func rankingSheet(rows []metrics.RankRow) *metrics.Table {
	t := metrics.RankingTable(rows)
	t.Cols = append([]string{"順位"}, t.Cols...)
	for i := range t.Rows {
		t.Rows[i].Keys = append([]string{fmt.Sprint(i + 1)}, t.Rows[i].Keys...)
	}
	return t
}
