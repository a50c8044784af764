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

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/errs"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// coordSource 把字串內容包成表格來源，模擬一張座標 CSV。
func coordSource(content string) dataset.Source {
	return &dataset.FSSource{
		FS:   fstest.MapFS{"coords.csv": &fstest.MapFile{Data: []byte(content)}},
		Path: "coords.csv",
	}
}

// -----------------------------------------------------------------------------
// Tests for the coordinate table
// -----------------------------------------------------------------------------

// TestNewCoordTable 驗證座標表的建表規則
// 檢查項目: 範圍計算、X/Y 從 1 起算、同一台重複即 Fatal
func TestNewCoordTable(t *testing.T) {
	ct, err := NewCoordTable([]Coord{
		{CabinetNo: 101, X: 1, Y: 1},
		{CabinetNo: 102, X: 2, Y: 1},
		{CabinetNo: 201, X: 1, Y: 3},
	})
	if err != nil {
		t.Fatalf("NewCoordTable got err %v", err)
	}
	if got := ct.Len(); got != 3 {
		t.Errorf("Len got %d want 3", got)
	}
	if x, y := ct.Size(); x != 2 || y != 3 {
		t.Errorf("Size got (%d,%d) want (2,3)", x, y)
	}
	if ct.Synthetic() {
		t.Error("real coordinates should not be marked synthetic")
	}

	if _, err := NewCoordTable([]Coord{{CabinetNo: 101, X: 0, Y: 1}}); errs.LevelOf(err) != errs.Fatal {
		t.Errorf("X=0 got %v want fatal", err)
	}
	if _, err := NewCoordTable([]Coord{{CabinetNo: 101, X: 1, Y: -2}}); errs.LevelOf(err) != errs.Fatal {
		t.Errorf("Y<1 got %v want fatal", err)
	}
	dup := []Coord{
		{CabinetNo: 101, X: 1, Y: 1},
		{CabinetNo: 101, X: 2, Y: 2},
	}
	if _, err := NewCoordTable(dup); errs.LevelOf(err) != errs.Fatal {
		t.Errorf("duplicate cabinet got %v want fatal", err)
	}
}

// TestLoadCoords 驗證從表格來源讀座標表
// 檢查項目: BOM 付き表頭、台番号=0 的列跳過、座標落地正確
func TestLoadCoords(t *testing.T) {
	src := coordSource("\uFEFF台番号,X,Y\n101,1,1\n102,2,1\n,,\n201,1,2\n")
	ct, err := LoadCoords(context.Background(), src)
	if err != nil {
		t.Fatalf("LoadCoords got err %v", err)
	}
	if got := ct.Len(); got != 3 {
		t.Fatalf("Len got %d want 3", got)
	}
	if c := ct.byNo[102]; c.X != 2 || c.Y != 1 {
		t.Errorf("cabinet 102 got (%d,%d) want (2,1)", c.X, c.Y)
	}
	if x, y := ct.Size(); x != 2 || y != 2 {
		t.Errorf("Size got (%d,%d) want (2,2)", x, y)
	}
}

// TestLoadCoordsUnavailable 驗證「沒有座標表」的兩種情形
// 檢查項目: src 未設定 / 只有表頭，都回 ErrUnavailable 而不是捏造
func TestLoadCoordsUnavailable(t *testing.T) {
	if _, err := LoadCoords(context.Background(), nil); !errors.Is(err, ErrUnavailable) {
		t.Errorf("nil source got %v want ErrUnavailable", err)
	}
	if _, err := LoadCoords(context.Background(), coordSource("台番号,X,Y\n")); !errors.Is(err, ErrUnavailable) {
		t.Errorf("header only got %v want ErrUnavailable", err)
	}
}

// TestLoadCoordsBadHeader 驗證表頭缺欄位的防呆
// 檢查項目: 缺 Y 欄即 Fatal，訊息點名必要欄位
func TestLoadCoordsBadHeader(t *testing.T) {
	_, err := LoadCoords(context.Background(), coordSource("台番号,X,列\n101,1,1\n"))
	if errs.LevelOf(err) != errs.Fatal {
		t.Fatalf("missing Y column got %v want fatal", err)
	}
	if !strings.Contains(err.Error(), "台番号 / X / Y") {
		t.Errorf("error should name the required columns, got %v", err)
	}
}

// TestSyntheticLayout 驗證概略配置的鋪法
// 檢查項目: 台番順に左から右、perRow 台で折り返し、synthetic 標記
func TestSyntheticLayout(t *testing.T) {
	ct := Synthetic([]int{205, 101, 309, 102}, 2)
	if !ct.Synthetic() {
		t.Error("Synthetic table should be flagged")
	}
	if got := ct.Len(); got != 4 {
		t.Fatalf("Len got %d want 4", got)
	}
	want := map[int]Coord{
		101: {CabinetNo: 101, X: 1, Y: 1},
		102: {CabinetNo: 102, X: 2, Y: 1},
		205: {CabinetNo: 205, X: 1, Y: 2},
		309: {CabinetNo: 309, X: 2, Y: 2},
	}
	for no, w := range want {
		if got := ct.byNo[no]; got != w {
			t.Errorf("cabinet %d got %+v want %+v", no, got, w)
		}
	}
	if x, y := ct.Size(); x != 2 || y != 2 {
		t.Errorf("Size got (%d,%d) want (2,2)", x, y)
	}

	// perRow 不正時退回預設 10：3 台排不滿一列。
	ct = Synthetic([]int{1, 2, 3}, 0)
	if x, y := ct.Size(); x != 3 || y != 1 {
		t.Errorf("default perRow Size got (%d,%d) want (3,1)", x, y)
	}
}

// -----------------------------------------------------------------------------
// Tests for grid building
// -----------------------------------------------------------------------------

// TestBuildGrid 驗證格子圖的鋪設
// 檢查項目: 走道/無実績/有実績三種格子、塗色、tooltip、奇数列右寄せ
func TestBuildGrid(t *testing.T) {
	ct, err := NewCoordTable([]Coord{
		{CabinetNo: 101, X: 1, Y: 1},
		{CabinetNo: 102, X: 2, Y: 1},
		{CabinetNo: 201, X: 1, Y: 2},
	})
	if err != nil {
		t.Fatalf("NewCoordTable got err %v", err)
	}
	stats := map[int]Stat{
		101: {Model: "マイジャグラーV", AvgDiff: 1200, WinRate: 55.0, Payout: 107.2},
		201: {Model: "ハナハナ", AvgDiff: -600, WinRate: 33.3, Payout: 96.0},
	}

	g, err := Build(ct, stats, MetricAvgDiff)
	if err != nil {
		t.Fatalf("Build got err %v", err)
	}
	if g.MaxX != 2 || g.MaxY != 2 {
		t.Fatalf("grid size got (%d,%d) want (2,2)", g.MaxX, g.MaxY)
	}
	if g.Metric != "avg_diff" {
		t.Errorf("Metric got %q want avg_diff", g.Metric)
	}
	if g.Synthetic {
		t.Error("real coordinates should not produce a synthetic grid")
	}

	c := g.Cells[0][0] // (1,1) = 101
	if c.Kind != CellMetric || c.CabinetNo != 101 {
		t.Fatalf("cell(1,1) got %+v want metric cell for 101", c)
	}
	if c.Color != "#ff9999" {
		t.Errorf("cell(1,1) color got %q want #ff9999", c.Color)
	}
	if c.Label != "101\nマイジャグ" {
		t.Errorf("cell(1,1) label got %q", c.Label)
	}
	if want := "No.101 マイジャグラーV\n差枚:1200 勝率:55.0%"; c.Tooltip != want {
		t.Errorf("cell(1,1) tooltip got %q want %q", c.Tooltip, want)
	}
	if !c.AlignRight {
		t.Error("odd column should align right")
	}

	c = g.Cells[0][1] // (2,1) = 102、配置済だが実績なし
	if c.Kind != CellNoData {
		t.Fatalf("cell(2,1) kind got %v want nodata", c.Kind)
	}
	if c.Color != colorNoData {
		t.Errorf("cell(2,1) color got %q want %q", c.Color, colorNoData)
	}
	if c.Label != "102\n-" {
		t.Errorf("cell(2,1) label got %q", c.Label)
	}
	if want := "No.102 稼働なし"; c.Tooltip != want {
		t.Errorf("cell(2,1) tooltip got %q want %q", c.Tooltip, want)
	}
	if c.AlignRight {
		t.Error("even column should align left")
	}

	if c = g.Cells[1][0]; c.Color != "#9999ff" { // -600 ≤ -500
		t.Errorf("cell(1,2) color got %q want #9999ff", c.Color)
	}

	c = g.Cells[1][1] // (2,2) 座標表にない = 通路
	if c.Kind != CellAisle || c.CabinetNo != 0 {
		t.Errorf("cell(2,2) got %+v want aisle", c)
	}
}

// TestBuildNoOverlap 驗證「拿錯座標表」的防呆
// 檢查項目: 彙總與座標完全不交集回 ErrNoOverlap、空彙總則全部無実績格
func TestBuildNoOverlap(t *testing.T) {
	ct, err := NewCoordTable([]Coord{{CabinetNo: 101, X: 1, Y: 1}})
	if err != nil {
		t.Fatalf("NewCoordTable got err %v", err)
	}
	if _, err := Build(ct, map[int]Stat{999: {Model: "X"}}, MetricAvgDiff); !errors.Is(err, ErrNoOverlap) {
		t.Errorf("disjoint stats got %v want ErrNoOverlap", err)
	}

	g, err := Build(ct, nil, MetricAvgDiff)
	if err != nil {
		t.Fatalf("empty stats got err %v", err)
	}
	if g.Cells[0][0].Kind != CellNoData {
		t.Errorf("empty stats cell kind got %v want nodata", g.Cells[0][0].Kind)
	}
}

// TestBuildUnavailable 驗證沒有座標表時不畫圖
// 檢查項目: nil / 空表都回 ErrUnavailable
func TestBuildUnavailable(t *testing.T) {
	if _, err := Build(nil, nil, MetricAvgDiff); !errors.Is(err, ErrUnavailable) {
		t.Errorf("nil table got %v want ErrUnavailable", err)
	}
	empty, err := NewCoordTable(nil)
	if err != nil {
		t.Fatalf("NewCoordTable(nil) got err %v", err)
	}
	if _, err := Build(empty, nil, MetricAvgDiff); !errors.Is(err, ErrUnavailable) {
		t.Errorf("empty table got %v want ErrUnavailable", err)
	}
}

// TestGridJSONRoundTrip 驗證 Grid の JSON 往復
// 檢查項目: 三種 CellKind のテキスト表現が decode でも戻る、未知トークンはエラー
func TestGridJSONRoundTrip(t *testing.T) {
	ct, err := NewCoordTable([]Coord{
		{CabinetNo: 101, X: 1, Y: 1},
		{CabinetNo: 102, X: 2, Y: 2},
	})
	if err != nil {
		t.Fatalf("NewCoordTable got err %v", err)
	}
	g, err := Build(ct, map[int]Stat{101: {Model: "ジャグラー", AvgDiff: 300, WinRate: 60, Payout: 103}}, MetricAvgDiff)
	if err != nil {
		t.Fatalf("Build got err %v", err)
	}

	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal got err %v", err)
	}
	var back Grid
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal got err %v", err)
	}
	if k := back.Cells[0][0].Kind; k != CellMetric {
		t.Errorf("cell(1,1) kind got %v want metric", k)
	}
	if k := back.Cells[1][1].Kind; k != CellNoData {
		t.Errorf("cell(2,2) kind got %v want nodata", k)
	}
	if k := back.Cells[0][1].Kind; k != CellAisle {
		t.Errorf("cell(2,1) kind got %v want aisle", k)
	}

	var k CellKind
	if err := k.UnmarshalText([]byte("banana")); err == nil {
		t.Error("unknown kind token should fail to decode")
	}
}

// -----------------------------------------------------------------------------
// Tests for metrics and colors
// -----------------------------------------------------------------------------

// TestParseMetric 驗證指標識別字的還原
// 檢查項目: 空字串は avg_diff、Name 往復、未知識別字は Warn
func TestParseMetric(t *testing.T) {
	cases := []struct {
		in   string
		want Metric
	}{
		{"", MetricAvgDiff},
		{"avg_diff", MetricAvgDiff},
		{"win_rate", MetricWinRate},
		{"payout", MetricPayout},
	}
	for _, c := range cases {
		got, err := ParseMetric(c.in)
		if err != nil || got != c.want {
			t.Errorf("ParseMetric(%q) got (%v, %v) want %v", c.in, got, err, c.want)
		}
		if c.in != "" && got.Name() != c.in {
			t.Errorf("Name round trip got %q want %q", got.Name(), c.in)
		}
	}
	if _, err := ParseMetric("banana"); errs.LevelOf(err) != errs.Warn {
		t.Errorf("unknown metric got %v want warn", err)
	}
}

// TestMetricColor 驗證固定閾値の色帯
// 檢查項目: 各指標の境界値がちょうど閾値側に落ちる
func TestMetricColor(t *testing.T) {
	cases := []struct {
		m    Metric
		v    float64
		want string
	}{
		{MetricAvgDiff, 1000, "#ff9999"},
		{MetricAvgDiff, 200, "#ffcccc"},
		{MetricAvgDiff, 199, colorNoData},
		{MetricAvgDiff, 0, colorNoData},
		{MetricAvgDiff, -1, "#ccccff"},
		{MetricAvgDiff, -500, "#9999ff"},
		{MetricWinRate, 50, "#ff9999"},
		{MetricWinRate, 40, "#ffcccc"},
		{MetricWinRate, 39.9, "#ccccff"},
		{MetricPayout, 105, "#ff9999"},
		{MetricPayout, 100, "#ffcccc"},
		{MetricPayout, 99.9, "#ccccff"},
	}
	for _, c := range cases {
		if got := c.m.color(c.v); got != c.want {
			t.Errorf("%s color(%v) got %q want %q", c.m.Name(), c.v, got, c.want)
		}
	}
}

// TestShortName 驗證機種名の切り詰め
// 檢查項目: rune 数えで切る（バイトではない）、短い名前はそのまま
func TestShortName(t *testing.T) {
	if got := shortName("マイジャグラーV", 5); got != "マイジャグ" {
		t.Errorf("got %q want マイジャグ", got)
	}
	if got := shortName("ハナハナ", 5); got != "ハナハナ" {
		t.Errorf("got %q want ハナハナ", got)
	}
}

// TestWriteHTML 驗證單體 HTML 出力
// 檢查項目: 走道は aisle セル、tooltip 埋め込み、概略配置の注記
func TestWriteHTML(t *testing.T) {
	ct := Synthetic([]int{101, 102}, 10)
	g, err := Build(ct, map[int]Stat{101: {Model: "ジャグラー", AvgDiff: 300, WinRate: 60, Payout: 103}}, MetricPayout)
	if err != nil {
		t.Fatalf("Build got err %v", err)
	}

	var b strings.Builder
	if err := g.WriteHTML(&b, "7月 機械割マップ"); err != nil {
		t.Fatalf("WriteHTML got err %v", err)
	}
	html := b.String()
	for _, want := range []string{
		"<title>7月 機械割マップ</title>",
		"台番順の概略配置で表示中",
		"No.101 ジャグラー",
		"101<br>ジャグラー",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}
