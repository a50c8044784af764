package hikone

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kg112500/dynam-hikone/metrics"
)

// ReportRender 定義 Report 的輸出行為。
type ReportRender interface {
	Write(w io.Writer, r *Report) error
}

// Json渲染
type JsonReportRender struct{}

func (jr *JsonReportRender) Write(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Text渲染：把各段落逐一排成終端表格。
type TextReportRender struct{}

func (tr *TextReportRender) Write(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintf(w, "%s  [%s]  %s〜%s\n台数 %d / 機種数 %d / サンプル数 %d\n\n",
		r.Hall, r.Filter, r.From, r.To, r.Cabinets, r.Models, r.Samples); err != nil {
		return err
	}

	type section struct {
		title string
		table *metrics.Table
	}
	overall := &metrics.Table{
		Cols: []string{"区分"},
		Rows: []metrics.TableRow{{Keys: []string{"全体"}, Row: r.Overall}},
	}
	sections := []section{
		{"概況", overall},
		{"機種別", r.ByModel},
		{"日別推移", r.Daily},
		{"日付末尾別", r.DayDigit},
		{"鉄板台ランキング", metrics.RankingTable(r.Ranking)},
	}
	if r.Rebound != nil {
		reb := &metrics.Table{
			Cols: []string{"区分"},
			Rows: []metrics.TableRow{{
				Keys: []string{fmt.Sprintf("前日≤%d", r.Rebound.MaxPrevDiff)},
				Row:  r.Rebound.Overall,
			}},
		}
		sections = append(sections, section{"翌日リバウンド", reb})
		if r.Rebound.Table != nil {
			sections = append(sections, section{"翌日リバウンド内訳", r.Rebound.Table})
		}
	}

	for _, s := range sections {
		if s.table == nil {
			continue
		}
		render := &metrics.TextTableRender{Title: s.title}
		if err := render.Write(w, s.table); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
