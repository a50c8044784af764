package metrics

import (
	"strconv"

	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/errs"
)

// Dim 是 Crosstab 可用的分組軸。
type Dim uint8

const (
	DimCabinet Dim = iota
	DimModel
	DimDate
	DimMonth
	DimDay
	DimDayDigit
	DimZorome
	DimCabinetDigit
	DimCabinetZorome
)

// dimDef 一口氣放 API 用的識別字、表頭顯示名、與取值函數。
type dimDef struct {
	name   string // query string / CLI flag 用的識別字
	label  string // 表頭顯示名
	format func(r dataset.Record) string
}

var dimDefs = map[Dim]dimDef{
	DimCabinet: {"cabinet", "台番号", func(r dataset.Record) string { return strconv.Itoa(r.CabinetNo) }},
	DimModel:   {"model", "機種", func(r dataset.Record) string { return r.Model }},
	DimDate:    {"date", "日付", func(r dataset.Record) string { return r.Date.Format("2006-01-02") }},
	DimMonth:   {"month", "月", func(r dataset.Record) string { return strconv.Itoa(r.Month) }},
	DimDay:     {"day", "日", func(r dataset.Record) string { return strconv.Itoa(r.Day) }},
	DimDayDigit: {"day_digit", "日末尾", func(r dataset.Record) string {
		return strconv.Itoa(r.DayDigit)
	}},
	DimZorome: {"zorome", "ゾロ目", func(r dataset.Record) string {
		if r.Zorome {
			return "ゾロ目"
		}
		return "通常"
	}},
	DimCabinetDigit: {"cab_digit", "台末尾", func(r dataset.Record) string {
		return strconv.Itoa(r.CabinetDigit)
	}},
	DimCabinetZorome: {"cab_zorome", "台ゾロ目", func(r dataset.Record) string {
		return r.CabinetZorome
	}},
}

func (d Dim) Name() string { return dimDefs[d].name }

func (d Dim) Label() string { return dimDefs[d].label }

func (d Dim) format(r dataset.Record) string { return dimDefs[d].format(r) }

// ParseDim 從識別字還原 Dim，認不得的回 Warn（使用者打錯參數不是系統壞掉）。
func ParseDim(s string) (Dim, error) {
	for d, def := range dimDefs {
		if def.name == s {
			return d, nil
		}
	}
	return 0, errs.Warnf("unknown group dimension %q", s)
}
