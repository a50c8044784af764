package floormap

import (
	"html/template"
	"io"
	"strings"
)

// IsAisle / IsNoData : template 內的分岐用（html/template 的 eq
// 不吃自訂整數型別，走方法最單純）。
func (c Cell) IsAisle() bool { return c.Kind == CellAisle }

func (c Cell) IsNoData() bool { return c.Kind == CellNoData }

// LabelLines 把 Label 拆行給 template 逐行輸出（行間補 <br>）。
func (c Cell) LabelLines() []string { return strings.Split(c.Label, "\n") }

var pageTmpl = template.Must(template.New("floormap").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table.floormap { border-collapse: collapse; }
table.floormap td { border: 1px solid #ddd; width: 72px; height: 40px; font-size: 11px; padding: 2px; vertical-align: middle; }
td.cell-odd { text-align: right; }
td.cell-even { text-align: left; }
td.aisle { border: none; background: #fafafa; }
.legend { margin: 8px 0; font-size: 13px; }
.synthetic { color: #b00000; font-size: 12px; margin-bottom: 6px; }
</style>
</head>
<body>
<h2>{{.Title}}</h2>
<div class="legend">{{.Grid.Legend}}</div>
{{if .Grid.Synthetic}}<div class="synthetic">※ 座標表なし：台番順の概略配置で表示中</div>
{{end}}<table class="floormap">
{{range .Grid.Cells}}<tr>
{{range .}}{{if .IsAisle}}<td class="aisle"></td>
{{else}}<td class="{{if .AlignRight}}cell-odd{{else}}cell-even{{end}}" style="background:{{.Color}}" title="{{.Tooltip}}">{{range $i, $l := .LabelLines}}{{if $i}}<br>{{end}}{{$l}}{{end}}</td>
{{end}}{{end}}</tr>
{{end}}</table>
</body>
</html>
`))

type page struct {
	Title string
	Grid  *Grid
}

// WriteHTML 輸出單體 HTML 版的店舗マップ。
// 不依賴任何外部 UI，style 全部內嵌，存成檔案直接用瀏覽器開。
func (g *Grid) WriteHTML(w io.Writer, title string) error {
	return pageTmpl.Execute(w, page{Title: title, Grid: g})
}
