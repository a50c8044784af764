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
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/errs"
)

// 複合鍵的連接符。U+001F 不會出現在機種名或日期字串裡。
const keySep = "\x1f"

// TableRow 是 Crosstab 的一列：分組鍵值（依 Dims 順序）加彙總結果。
type TableRow struct {
	Keys []string `json:"Keys"`
	Row
}

// Table 是多軸彙總的輸出，API / CLI / 匯出共用的傳輸形狀。
type Table struct {
	Cols []string   `json:"Cols"` // 分組軸的表頭顯示名
	Rows []TableRow `json:"Rows"`
	dims []Dim
}

// Crosstab 依一個以上的分組軸彙總。
// 輸出列固定依鍵值升冪（數字欄比數值、其他比字串），結果可重現。
// 篩選後空輸入回空表，是否當「無資料」狀態由呼叫端決定。
func Crosstab(recs []dataset.Record, dims []Dim, opt Options) (*Table, error) {
	if len(dims) == 0 {
		return nil, errs.NewWarn("no group dimension given")
	}

	rows := Aggregate(recs, func(r dataset.Record) string {
		vals := make([]string, len(dims))
		for i, d := range dims {
			vals[i] = d.format(r)
		}
		return strings.Join(vals, keySep)
	}, opt)

	t := &Table{dims: dims, Cols: make([]string, len(dims))}
	for i, d := range dims {
		t.Cols[i] = d.Label()
	}
	t.Rows = make([]TableRow, 0, len(rows))
	for k, row := range rows {
		t.Rows = append(t.Rows, TableRow{Keys: strings.Split(k, keySep), Row: row})
	}
	sort.Slice(t.Rows, func(i, j int) bool {
		return lessKeys(t.Rows[i].Keys, t.Rows[j].Keys)
	})
	return t, nil
}

// Samples 回傳全表樣本數合計（= 進入彙總的列數）。
func (t *Table) Samples() int {
	n := 0
	for _, r := range t.Rows {
		n += r.Row.Samples
	}
	return n
}

// SortBy 依指標欄重排（stable）。
// 可用欄名：samples / wins / win_rate / total_diff / total_spins /
// avg_diff / avg_spins / payout。
func (t *Table) SortBy(col string, desc bool) error {
	key, err := metricOf(col)
	if err != nil {
		return err
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := key(t.Rows[i].Row), key(t.Rows[j].Row)
		if desc {
			return a > b
		}
		return a < b
	})
	return nil
}

// Top 截到前 n 列。n < 1 或超過列數時不動。
func (t *Table) Top(n int) {
	if n >= 1 && n < len(t.Rows) {
		t.Rows = t.Rows[:n]
	}
}

func (t *Table) WriteWith(w io.Writer, rep TableRender) error {
	return rep.Write(w, t)
}

func metricOf(col string) (func(Row) float64, error) {
	switch col {
	case "samples":
		return func(r Row) float64 { return float64(r.Samples) }, nil
	case "wins":
		return func(r Row) float64 { return float64(r.Wins) }, nil
	case "win_rate":
		return func(r Row) float64 { return r.WinRate }, nil
	case "total_diff":
		return func(r Row) float64 { return float64(r.TotalDiff) }, nil
	case "total_spins":
		return func(r Row) float64 { return float64(r.TotalSpins) }, nil
	case "avg_diff":
		return func(r Row) float64 { return float64(r.AvgDiff) }, nil
	case "avg_spins":
		return func(r Row) float64 { return float64(r.AvgSpins) }, nil
	case "payout":
		return func(r Row) float64 { return r.Payout }, nil
	default:
		return nil, errs.Warnf("unknown sort column %q", col)
	}
}

// lessKeys 逐欄比較：兩邊都是十進位整數時比數值（"2" < "10"），否則比字串。
func lessKeys(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			continue
		}
		ai, aerr := strconv.Atoi(a[i])
		bi, berr := strconv.Atoi(b[i])
		if aerr == nil && berr == nil {
			return ai < bi
		}
		return a[i] < b[i]
	}
	return len(a) < len(b)
}
