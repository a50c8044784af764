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

// Package v1 是店舗分析的正式 API。
//
// 共通查詢參數（全部 endpoint 一致）：
//   - from / to：日付範圍，含端點（2006-01-02，和資料表相同的寬鬆日付也收）
//   - digits：日付末尾（0..9，逗號分隔）
//   - zorome：ゾロ目日（bool）。digits 與 zorome 是 OR 關係
//   - model：機種名，可重複指定
//
// 錯誤分級走 httperr：條件問題 400、載入失敗 500。
package v1

import (
	"net/url"
	"strconv"
	"strings"

	hikone "github.com/kg112500/dynam-hikone"
	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/errs"
	"github.com/kg112500/dynam-hikone/metrics"
)

// HallHandler 持有組裝完成的 Analyzer，所有 v1 endpoint 掛在它上面。
type HallHandler struct {
	Analyzer *hikone.Analyzer
}

func NewHallHandler(a *hikone.Analyzer) (*HallHandler, error) {
	if a == nil {
		return nil, errs.NewFatal("analyzer is required")
	}
	return &HallHandler{Analyzer: a}, nil
}

// parseFilter 解析共通篩選參數。參數不合法回 Warn（→ 400）。
func parseFilter(q url.Values) (dataset.Filter, error) {
	var f dataset.Filter

	if s := q.Get("from"); s != "" {
		t, err := dataset.ParseDate(s)
		if err != nil {
			return f, errs.NewWarn("from must be a date like 2006-01-02")
		}
		f.From = t
	}
	if s := q.Get("to"); s != "" {
		t, err := dataset.ParseDate(s)
		if err != nil {
			return f, errs.NewWarn("to must be a date like 2006-01-02")
		}
		f.To = t
	}
	if s := q.Get("digits"); s != "" {
		for _, part := range strings.Split(s, ",") {
			d, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || d < 0 || d > 9 {
				return f, errs.NewWarn("digits must be integers between 0 and 9")
			}
			f.DayDigits = append(f.DayDigits, d)
		}
	}
	if s := q.Get("zorome"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return f, errs.NewWarn("zorome must be a bool")
		}
		f.Zorome = v
	}
	for _, m := range q["model"] {
		if m = strings.TrimSpace(m); m != "" {
			f.Models = append(f.Models, m)
		}
	}
	return f, nil
}

// parseDims 解析逗號分隔的分組軸。空字串回 nil，由呼叫端帶預設值。
func parseDims(s string) ([]metrics.Dim, error) {
	if s == "" {
		return nil, nil
	}
	var dims []metrics.Dim
	for _, part := range strings.Split(s, ",") {
		d, err := metrics.ParseDim(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}
	return dims, nil
}

// parseIntOr 解析整數參數，空字串回 def，壞值回 Warn。
func parseIntOr(q url.Values, key string, def int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Warnf("%s must be an integer", key)
	}
	return v, nil
}
