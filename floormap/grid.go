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

package floormap

import "fmt"

// Legend 是配色說明。與閾值色帶一樣是店頭約定，文字照抄掲示物。
const Legend = "🟥 赤: プラス差枚 / 🟦 青: マイナス差枚 / ⬜ 白: 稼働なし or プラマイゼロ"

// Stat 是畫圖需要的每台彙總切片，由呼叫端從彙總列映射過來。
type Stat struct {
	Model   string
	AvgDiff int
	WinRate float64
	Payout  float64
}

// CellKind 區分走道 / 配置済但無実績 / 有実績三種格子。
// 「無実績」與「走道」顏色可能相同，但語意不同，消費端要能分辨。
type CellKind uint8

const (
	CellAisle  CellKind = iota // 該座標沒有機台（通路）
	CellNoData                 // 有機台、目前篩選下無実績
	CellMetric                 // 有機台有実績
)

func (k CellKind) String() string {
	switch k {
	case CellNoData:
		return "nodata"
	case CellMetric:
		return "metric"
	default:
		return "aisle"
	}
}

func (k CellKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText 讓序列化過的 Grid 可以原樣解回來（API client / 測試）。
func (k *CellKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "aisle":
		*k = CellAisle
	case "nodata":
		*k = CellNoData
	case "metric":
		*k = CellMetric
	default:
		return fmt.Errorf("unknown cell kind %q", string(text))
	}
	return nil
}

// Cell 是格子圖的一格。Label 以 "\n" 分行，HTML 端換成 <br>。
type Cell struct {
	Kind       CellKind `json:"Kind"`
	X          int      `json:"X"`
	Y          int      `json:"Y"`
	CabinetNo  int      `json:"CabinetNo,omitempty"`
	Model      string   `json:"Model,omitempty"`
	Color      string   `json:"Color,omitempty"`
	Label      string   `json:"Label,omitempty"`
	Tooltip    string   `json:"Tooltip,omitempty"`
	AlignRight bool     `json:"AlignRight,omitempty"`
}

// Grid 是整張店舗マップ。Cells[y-1][x-1] 對應座標 (x, y)。
type Grid struct {
	MaxX      int      `json:"MaxX"`
	MaxY      int      `json:"MaxY"`
	Metric    string   `json:"Metric"`
	Synthetic bool     `json:"Synthetic"` // 概略配置（非実座標）
	Legend    string   `json:"Legend"`
	Cells     [][]Cell `json:"Cells"`
}

// Build 把每台彙總對上座標表，鋪出 1..maxX × 1..maxY 的格子。
//
//   - 座標表沒有的位置 → 走道格。
//   - 配置済但這次篩選無実績的台 → 無実績格（白、不是走道）。
//   - 其他依指標塗色。奇數列文字靠右、偶數列靠左（面向通路側），
//     純粹是排版上對島配置的模仿。
//
// stats 非空但與座標表毫無交集時回 ErrNoOverlap。
func Build(ct *CoordTable, stats map[int]Stat, metric Metric) (*Grid, error) {
	if ct == nil || ct.Len() == 0 {
		return nil, ErrUnavailable
	}

	overlap := 0
	for no := range ct.byNo {
		if _, ok := stats[no]; ok {
			overlap++
		}
	}
	if overlap == 0 && len(stats) > 0 {
		return nil, ErrNoOverlap
	}

	maxX, maxY := ct.Size()
	g := &Grid{
		MaxX:      maxX,
		MaxY:      maxY,
		Metric:    metric.Name(),
		Synthetic: ct.Synthetic(),
		Legend:    Legend,
		Cells:     make([][]Cell, maxY),
	}
	for y := 1; y <= maxY; y++ {
		row := make([]Cell, maxX)
		for x := 1; x <= maxX; x++ {
			row[x-1] = Cell{Kind: CellAisle, X: x, Y: y}
		}
		g.Cells[y-1] = row
	}

	for no, c := range ct.byNo {
		cell := &g.Cells[c.Y-1][c.X-1]
		cell.CabinetNo = no
		cell.AlignRight = c.X%2 == 1

		s, ok := stats[no]
		if !ok {
			cell.Kind = CellNoData
			cell.Color = colorNoData
			cell.Label = fmt.Sprintf("%d\n-", no)
			cell.Tooltip = fmt.Sprintf("No.%d 稼働なし", no)
			continue
		}
		cell.Kind = CellMetric
		cell.Model = s.Model
		cell.Color = metric.color(metric.value(s))
		cell.Label = fmt.Sprintf("%d\n%s", no, shortName(s.Model, 5))
		cell.Tooltip = fmt.Sprintf("No.%d %s\n差枚:%d 勝率:%.1f%%", no, s.Model, s.AvgDiff, s.WinRate)
	}
	return g, nil
}

// shortName 取機種名前 n 文字（rune 数え），格子塞不下完整名稱。
func shortName(name string, n int) string {
	runes := []rune(name)
	if len(runes) <= n {
		return name
	}
	return string(runes[:n])
}
