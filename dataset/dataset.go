package dataset

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kg112500/dynam-hikone/errs"
)

// ErrNoData : 篩選後一列不剩。與「載入失敗」是不同的狀態，
// 呼叫端（API / CLI）要分開呈現。
var ErrNoData = errs.NewWarn("no records match the current filter")

// Dataset 是一次載入的完整結果。載入完成後視為唯讀，
// 重新載入永遠是整份重建，不做增量修補。
type Dataset struct {
	Records []Record
	Loaded  time.Time
	// Latest 是台番 → 最終観測機種（以全量資料的最新日期為準）。
	// 用來判定彙總列的機種是「現役」還是「已撤去」。
	Latest map[int]string
}

// Span 回傳資料的日期範圍（含端點）。空資料回零值。
func (ds *Dataset) Span() (from, to time.Time) { return Span(ds.Records) }

// Span 對任意列集合求日期範圍，篩選後的子集也可用。
func Span(recs []Record) (from, to time.Time) {
	for _, r := range recs {
		if from.IsZero() || r.Date.Before(from) {
			from = r.Date
		}
		if r.Date.After(to) {
			to = r.Date
		}
	}
	return from, to
}

// Active 回傳稼働列（G数 > 0）。
// G数 0 的列代表空台，放進勝率或機械割的分母會把閒置台污染成 0% 機台，
// 所以全部彙總一律先過這層。統一的除外政策，不允許個別 view 自選。
func Active(recs []Record) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r.Spins > 0 {
			out = append(out, r)
		}
	}
	return out
}

// latestModels 以日期掃出每台的最終機種。同日重複時後讀入的列優先。
func latestModels(recs []Record) map[int]string {
	latest := make(map[int]string)
	when := make(map[int]time.Time)
	for _, r := range recs {
		if t, ok := when[r.CabinetNo]; ok && r.Date.Before(t) {
			continue
		}
		when[r.CabinetNo] = r.Date
		latest[r.CabinetNo] = r.Model
	}
	return latest
}

// Machine 是設置台一覧的一列：台番と最終観測機種。
type Machine struct {
	CabinetNo int       `json:"CabinetNo"`
	Model     string    `json:"Model"`
	LastDate  time.Time `json:"LastDate"`
}

// Machines 回傳全台の最終観測機種一覧（台番昇順）。
// 「最終観測」以全量資料為準，不受篩選影響。
func (ds *Dataset) Machines() []Machine {
	when := make(map[int]time.Time, len(ds.Latest))
	for _, r := range ds.Records {
		if t, ok := when[r.CabinetNo]; ok && r.Date.Before(t) {
			continue
		}
		when[r.CabinetNo] = r.Date
	}

	out := make([]Machine, 0, len(ds.Latest))
	for no, model := range ds.Latest {
		out = append(out, Machine{CabinetNo: no, Model: model, LastDate: when[no]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CabinetNo < out[j].CabinetNo })
	return out
}

// ============================================================
// ** 篩選 **
// ============================================================

// Filter 是使用者側欄的查詢條件。零值代表全量。
//
// DayDigits 與 Zorome 是 OR 關係：選了末尾 [3 7] 又勾ゾロ目，
// 命中其一即保留（跟店頭「イベント日」的看法一致）。
type Filter struct {
	From, To  time.Time // 含端點；零值該側不設限
	DayDigits []int
	Zorome    bool
	Models    []string
}

func (f Filter) Empty() bool {
	return f.From.IsZero() && f.To.IsZero() &&
		len(f.DayDigits) == 0 && !f.Zorome && len(f.Models) == 0
}

// Apply 回傳命中條件的列。輸入不變動。
func (f Filter) Apply(recs []Record) []Record {
	digits := make(map[int]bool, len(f.DayDigits))
	for _, d := range f.DayDigits {
		digits[d] = true
	}
	models := make(map[string]bool, len(f.Models))
	for _, m := range f.Models {
		models[m] = true
	}

	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if !f.From.IsZero() && r.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && r.Date.After(f.To) {
			continue
		}
		if len(models) > 0 && !models[r.Model] {
			continue
		}
		if len(digits) > 0 || f.Zorome {
			if !digits[r.DayDigit] && !(f.Zorome && r.Zorome) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Label 組出人看的條件摘要，報表標題用。無條件時回「全期間」。
func (f Filter) Label() string {
	var parts []string
	switch {
	case !f.From.IsZero() && !f.To.IsZero():
		parts = append(parts, f.From.Format("2006-01-02")+"〜"+f.To.Format("2006-01-02"))
	case !f.From.IsZero():
		parts = append(parts, f.From.Format("2006-01-02")+"〜")
	case !f.To.IsZero():
		parts = append(parts, "〜"+f.To.Format("2006-01-02"))
	}
	if len(f.DayDigits) > 0 {
		parts = append(parts, fmt.Sprintf("末尾%v", f.DayDigits))
	}
	if f.Zorome {
		parts = append(parts, "ゾロ目")
	}
	if len(f.Models) > 0 {
		parts = append(parts, fmt.Sprintf("機種指定(%d)", len(f.Models)))
	}
	if len(parts) == 0 {
		return "全期間"
	}
	return strings.Join(parts, " & ")
}
