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

// Package floormap 把每台的彙總指標對上店内座標，畫成島配置的格子圖。
package floormap

import (
	"context"
	"sort"
	"strings"

	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/errs"
)

var (
	// ErrUnavailable : 座標表沒有設定或是空的。不可以默默捏造座標，
	// 要畫概略圖請呼叫端明確改用 Synthetic。
	ErrUnavailable = errs.NewWarn("coordinate table unavailable")

	// ErrNoOverlap : 座標表與彙總結果完全對不上（多半是拿錯店的座標）。
	ErrNoOverlap = errs.NewWarn("no cabinets overlap the coordinate table")
)

// Coord 是一台機台的店内位置。X 為列（島内順）、Y 為行。
type Coord struct {
	CabinetNo int
	X, Y      int
}

// CoordTable 是查好重複、算好範圍的座標表。
type CoordTable struct {
	byNo      map[int]Coord
	maxX      int
	maxY      int
	synthetic bool
}

// NewCoordTable 驗證座標列表後建表。
// 一台最多一個座標，重複即 Fatal；X / Y 必須從 1 起算。
func NewCoordTable(coords []Coord) (*CoordTable, error) {
	ct := &CoordTable{byNo: make(map[int]Coord, len(coords))}
	for _, c := range coords {
		if c.X < 1 || c.Y < 1 {
			return nil, errs.Fatalf("cabinet %d has invalid coordinate (%d,%d)", c.CabinetNo, c.X, c.Y)
		}
		if _, dup := ct.byNo[c.CabinetNo]; dup {
			return nil, errs.Fatalf("cabinet %d appears twice in coordinate table", c.CabinetNo)
		}
		ct.byNo[c.CabinetNo] = c
		if c.X > ct.maxX {
			ct.maxX = c.X
		}
		if c.Y > ct.maxY {
			ct.maxY = c.Y
		}
	}
	return ct, nil
}

// LoadCoords 從表格來源讀座標表。
// src 為 nil（未設定）回 ErrUnavailable；表頭需含 台番号 / X / Y。
func LoadCoords(ctx context.Context, src dataset.Source) (*CoordTable, error) {
	if src == nil {
		return nil, ErrUnavailable
	}
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "load coordinate table")
	}
	if len(rows) < 2 {
		return nil, ErrUnavailable
	}

	noCol, xCol, yCol := resolveCoordHeader(rows[0])
	if noCol < 0 || xCol < 0 || yCol < 0 {
		return nil, errs.Fatalf("coordinate table %s: header must contain 台番号 / X / Y", src.Name())
	}

	coords := make([]Coord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		no := dataset.ParseAmount(at(row, noCol))
		if no == 0 {
			continue
		}
		coords = append(coords, Coord{
			CabinetNo: no,
			X:         dataset.ParseAmount(at(row, xCol)),
			Y:         dataset.ParseAmount(at(row, yCol)),
		})
	}
	return NewCoordTable(coords)
}

// Synthetic 在沒有座標表時產生「由左到右、每列 perRow 台」的概略配置。
// 與真座標模式嚴格區分：產出的 Grid 會帶 Synthetic 標記。
func Synthetic(cabinets []int, perRow int) *CoordTable {
	if perRow < 1 {
		perRow = 10
	}
	nos := make([]int, len(cabinets))
	copy(nos, cabinets)
	sort.Ints(nos)

	ct := &CoordTable{byNo: make(map[int]Coord, len(nos)), synthetic: true}
	for i, no := range nos {
		c := Coord{CabinetNo: no, X: i%perRow + 1, Y: i/perRow + 1}
		ct.byNo[no] = c
		if c.X > ct.maxX {
			ct.maxX = c.X
		}
		if c.Y > ct.maxY {
			ct.maxY = c.Y
		}
	}
	return ct
}

func (ct *CoordTable) Len() int { return len(ct.byNo) }

func (ct *CoordTable) Synthetic() bool { return ct.synthetic }

// Size 回傳格子範圍 (maxX, maxY)。
func (ct *CoordTable) Size() (int, int) { return ct.maxX, ct.maxY }

func resolveCoordHeader(header []string) (noCol, xCol, yCol int) {
	noCol, xCol, yCol = -1, -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		switch {
		case noCol < 0 && (strings.Contains(h, "台番") || strings.EqualFold(h, "No") || strings.EqualFold(h, "No.")):
			noCol = i
		case xCol < 0 && strings.EqualFold(h, "X"):
			xCol = i
		case yCol < 0 && strings.EqualFold(h, "Y"):
			yCol = i
		}
	}
	return
}

func at(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
