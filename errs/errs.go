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

package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，讓最上層（HTTP handler / CLI）知道嚴重程度。
//
//   - Fatal：資料來源壞掉、必要欄位缺失這類「本次互動無法繼續」的錯誤。
//   - Warn：可預期的狀態（篩選後無資料、座標表不存在），由呼叫端決定如何呈現。
//   - Log：僅記錄，不影響流程。
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

func (l ErrLevel) String() string {
	switch l {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	case Log:
		return "log"
	default:
		return ""
	}
}

// E 是全 repo 統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端追加的上下文（欄位名、URL 等）；
// Cause 串接下層錯誤；ErrLv 表示嚴重度。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

func (e *E) Error() string {
	s := fmt.Sprintf("errlv=%s %s", e.ErrLv, e.Message)
	if e.Extra != "" {
		s += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		s += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return s
}

// Unwrap 讓 errors.Is / errors.As 能向下展開到 Cause。
func (e *E) Unwrap() error { return e.Cause }

// WithExtra 回傳附加上下文後的同一個錯誤（就地修改，非複製）。
// 供建構式鏈式使用：errs.NewWarn("no matching data").WithExtra(filter.Label())。
func (e *E) WithExtra(extra string) *E {
	e.Extra = extra
	return e
}

func New(lv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: lv}
}

func NewFatal(msg string) *E { return New(Fatal, msg) }

func NewWarn(msg string) *E { return New(Warn, msg) }

func NewLog(msg string) *E { return New(Log, msg) }

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

func Logf(format string, a ...any) *E {
	return NewLog(fmt.Sprintf(format, a...))
}

// Wrap 以新訊息包裝底層錯誤。
//
// ErrLevel 規則：
//   - 若 cause 鏈上已有 *E，沿用其 ErrLv（不升也不降嚴重度）。
//   - 否則（標準庫或三方依賴錯誤）一律視為 Fatal。
//
// 已知可處理的情境請直接用 NewWarn / NewLog 自行定級，不要靠 Wrap 猜。
func Wrap(cause error, msg string) *E {
	r := New(LevelOf(cause), msg)
	r.Cause = cause
	return r
}

// Wrapf 同 Wrap，訊息走 fmt 樣板。
func Wrapf(cause error, format string, a ...any) *E {
	return Wrap(cause, fmt.Sprintf(format, a...))
}

// LevelOf 回傳錯誤鏈上最接近表層的 *E 的等級；鏈上沒有 *E 時視為 Fatal。
// nil 回傳 None。
func LevelOf(err error) ErrLevel {
	if err == nil {
		return None
	}
	var e *E
	if errors.As(err, &e) {
		return e.ErrLv
	}
	return Fatal
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
