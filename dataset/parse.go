package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kg112500/dynam-hikone/errs"
)

// ParseAmount 把表格裡的數值字串轉成 int。
// 千分位逗號、前置 "+"、前後空白都會剝掉；"1234.0" 這類浮點輸出也接受。
// 解析失敗一律回 0。這是刻意的 lossy-but-deterministic 契約：
// 壞掉的儲存格不該讓整份資料載入失敗，但也絕不默默丟列。
func ParseAmount(s string) int {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(math.Round(f))
	}
	return 0
}

// 接受的日期格式。"2006/1/2" 系的 layout 同時吃補零與不補零的寫法。
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2006年1月2日",
	"20060102",
}

// ParseDate 解析資料來源的日期儲存格。
// 試算表匯出常帶時刻（"2025-07-07 0:00:00"），先切掉空白後段再比對格式。
// 與數值不同，日期壞掉是 Fatal：日次分析裡沒有「不知道是哪天」的列。
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.Fatalf("unparseable date cell %q", s)
}
