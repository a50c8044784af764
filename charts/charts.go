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

// Package charts 把彙總表畫成 PNG（日別推移ライン、日付末尾バー）。
//
// NOTE: gonum/plot 預設字型無 CJK glyph，圖內文字一律 ASCII。
// 日付・末尾数字當 X 軸標籤沒問題；機種名這類全形字串不要丟進來。
package charts

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/kg112500/dynam-hikone/metrics"
)

// ChartRow 是圖表的一個點：X 軸標籤與 Y 值。
type ChartRow struct {
	Label string
	Value float64
}

var (
	lineColor = color.RGBA{R: 56, G: 142, B: 60, A: 255}
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
)

// SaveTrendLine 畫折線圖（日別推移の平均差枚など）並存成 PNG。
// rows 依輸入順序畫，X 軸直接用 Label。
func SaveTrendLine(path, title, yLabel string, rows []ChartRow) error {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = yLabel

	points := make(plotter.XYs, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		points[i].X = float64(i)
		points[i].Y = r.Value
		labels[i] = r.Label
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = lineColor
	line.Width = vg.Points(2)

	p.Add(line)
	p.Add(plotter.NewGrid())

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight

	padYRange(p, rows)
	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

// SaveBars 畫長條圖（日付末尾別の平均差枚など）並存成 PNG。
// 各 bar 上方標數值。
func SaveBars(path, title, yLabel string, rows []ChartRow) error {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = yLabel

	values := make(plotter.Values, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		values[i] = r.Value
		labels[i] = r.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)

	padYRange(p, rows)

	span := p.Y.Max - p.Y.Min
	for i, v := range values {
		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: float64(i), Y: v + span*0.02}},
			Labels: []string{strconv.FormatFloat(v, 'f', 0, 64)},
		})
		if err != nil {
			return err
		}
		p.Add(label)
	}

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// padYRange 給 Y 軸上下各留 15% 空間。平均差枚常為負值，0 軸必須保持在圖內。
func padYRange(p *plot.Plot, rows []ChartRow) {
	if len(rows) == 0 {
		return
	}
	lo, hi := rows[0].Value, rows[0].Value
	for _, r := range rows[1:] {
		lo = math.Min(lo, r.Value)
		hi = math.Max(hi, r.Value)
	}
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(hi), 1)
	}
	p.Y.Min = math.Min(lo-span*0.15, 0)
	p.Y.Max = math.Max(hi+span*0.15, 0)
}

// TableRows 把單一分組軸的彙總表轉成圖表列：Keys[0] 當 Label，value 取 Y 值。
// 例：TableRows(daily, func(r metrics.Row) float64 { return float64(r.AvgDiff) })
func TableRows(t *metrics.Table, value func(metrics.Row) float64) []ChartRow {
	out := make([]ChartRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		label := ""
		if len(r.Keys) > 0 {
			label = r.Keys[0]
		}
		out = append(out, ChartRow{Label: label, Value: value(r.Row)})
	}
	return out
}
