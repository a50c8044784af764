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

// Package export 把分析結果輸出成檔案格式（CSV / xlsx）。
//
// 這層只做「表 → 檔案」的機械轉換，不重算任何指標；
// 欄位名稱與 metrics 的 Text render 保持一致，營業側在 Excel 看到的
// 表頭跟終端看到的是同一套。
//
// CSV 一律帶 UTF-8 BOM。對象是日本語 Windows 上的 Excel，
// 無 BOM 時機種名會變亂碼。
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/kg112500/dynam-hikone/metrics"
)

const utf8BOM = "\uFEFF"

// CSV 的指標表頭。勝率 CI 拆成上下限兩欄，回灌 Excel 時才能當數值用。
var csvMetricHeads = []string{
	"サンプル数", "勝数", "勝率%", "勝率CI下限", "勝率CI上限", "総差枚", "総G数", "平均差枚", "平均G数", "機械割%",
}

func metricCells(r metrics.Row) []string {
	return []string{
		strconv.Itoa(r.Samples),
		strconv.Itoa(r.Wins),
		strconv.FormatFloat(r.WinRate, 'f', 1, 64),
		strconv.FormatFloat(r.WinRateCI.Lo, 'f', 1, 64),
		strconv.FormatFloat(r.WinRateCI.Hi, 'f', 1, 64),
		strconv.Itoa(r.TotalDiff),
		strconv.Itoa(r.TotalSpins),
		strconv.Itoa(r.AvgDiff),
		strconv.Itoa(r.AvgSpins),
		strconv.FormatFloat(r.Payout, 'f', 1, 64),
	}
}

// WriteRankingCSV 輸出鉄板台ランキング。順位欄依輸入順序編 1 起。
func WriteRankingCSV(w io.Writer, rows []metrics.RankRow) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)

	head := append([]string{"順位", "台番号", "機種", "状態"}, csvMetricHeads...)
	if err := cw.Write(head); err != nil {
		return err
	}
	for i, r := range rows {
		state := "現役"
		if !r.Installed {
			state = "撤去"
		}
		cells := append([]string{
			strconv.Itoa(i + 1),
			strconv.Itoa(r.CabinetNo),
			r.Model,
			state,
		}, metricCells(r.Row)...)
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTableCSV 輸出任意彙總表（機種別、日別など）。
func WriteTableCSV(w io.Writer, t *metrics.Table) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)

	head := append(append([]string{}, t.Cols...), csvMetricHeads...)
	if err := cw.Write(head); err != nil {
		return err
	}
	for _, r := range t.Rows {
		cells := append(append([]string{}, r.Keys...), metricCells(r.Row)...)
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
