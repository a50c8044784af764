package metrics

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var lang language.Tag = language.English

// TableRender 定義 Table 的輸出行為。
type TableRender interface {
	Write(w io.Writer, t *Table) error
}

// Json渲染
type JsonTableRender struct{}

func (jr *JsonTableRender) Write(w io.Writer, t *Table) error {
	return json.NewEncoder(w).Encode(t)
}

// YAML渲染
type YAMLTableRender struct{}

func (yr *YAMLTableRender) Write(w io.Writer, t *Table) error {
	// 只有最內層的一維陣列（Keys 這類）壓成 flow style：[a, b]，
	// 外層維持預設展開，肉眼才讀得動。
	return forceReadableList(w, t)
}

// Text渲染：runewidth 對齊的終端表格。機種名這類全形字串也能對齊。
type TextTableRender struct {
	Title string
}

var metricHeads = []string{
	"サンプル数", "勝数", "勝率%", "勝率95%CI", "総差枚", "総G数", "平均差枚", "平均G数", "機械割%",
}

func (tr *TextTableRender) Write(w io.Writer, t *Table) error {
	p := message.NewPrinter(lang)

	head := make([]string, 0, len(t.Cols)+len(metricHeads))
	head = append(head, t.Cols...)
	head = append(head, metricHeads...)

	lines := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		cells := make([]string, 0, len(head))
		cells = append(cells, r.Keys...)
		cells = append(cells,
			p.Sprintf("%d", r.Samples),
			p.Sprintf("%d", r.Wins),
			p.Sprintf("%.1f", r.WinRate),
			p.Sprintf("[%.1f, %.1f]", r.WinRateCI.Lo, r.WinRateCI.Hi),
			p.Sprintf("%d", r.TotalDiff),
			p.Sprintf("%d", r.TotalSpins),
			p.Sprintf("%d", r.AvgDiff),
			p.Sprintf("%d", r.AvgSpins),
			p.Sprintf("%.1f", r.Payout),
		)
		lines = append(lines, cells)
	}

	_, err := io.WriteString(w, fmtGrid(tr.Title, head, lines))
	return err
}

// fmtGrid 組出帶框線的表格字串。欄寬以 runewidth 計，全形安全。
func fmtGrid(title string, head []string, rows [][]string) string {
	widths := make([]int, len(head))
	for i, h := range head {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, cells := range rows {
		for i, c := range cells {
			if i < len(widths) {
				if w := runewidth.StringWidth(c); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var divider strings.Builder
	divider.WriteByte('+')
	totalInner := len(widths) - 1
	for _, w := range widths {
		divider.WriteString(strings.Repeat("-", w+2))
		divider.WriteByte('+')
		totalInner += w + 2
	}
	divider.WriteByte('\n')

	line := func(cells []string) string {
		var b strings.Builder
		b.WriteByte('|')
		for i, w := range widths {
			c := ""
			if i < len(cells) {
				c = cells[i]
			}
			b.WriteString(" " + c + blank(w-runewidth.StringWidth(c)) + " |")
		}
		b.WriteByte('\n')
		return b.String()
	}

	var out strings.Builder
	if title != "" {
		titleW := runewidth.StringWidth(title)
		left := (totalInner - titleW) / 2
		right := totalInner - titleW - left
		out.WriteString("+" + strings.Repeat("-", totalInner) + "+\n")
		out.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	}
	out.WriteString(divider.String())
	out.WriteString(line(head))
	out.WriteString(divider.String())
	for _, cells := range rows {
		out.WriteString(line(cells))
	}
	out.WriteString(divider.String())
	return out.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

// styleReadableSequences 自頂向下掃描：內容全為 scalar 的 sequence
// 視為最內層一維，設成 flow style。Rows 這類 mapping 的 sequence 維持
// 預設 block，不然整列會被壓成一行。
func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		allScalar := true
		for _, c := range n.Content {
			if c != nil && c.Kind != yaml.ScalarNode {
				allScalar = false
				break
			}
		}
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		if allScalar {
			n.Style = yaml.FlowStyle
		}
	}
}
