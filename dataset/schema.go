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

package dataset

import (
	"strings"

	"github.com/kg112500/dynam-hikone/errs"
)

// 正規欄位名。店舗匯出的表頭歷來拼法不一，載入時全部解析回這五個名字。
const (
	ColCabinet = "台番号"
	ColModel   = "機種"
	ColDate    = "日付"
	ColDiff    = "総差枚"
	ColSpins   = "G数"
)

// columnSpec 定義一個正規欄位與其歷史別名。
// 別名採「包含」比對（表頭 "総差枚数(枚)" 也要能命中 "差枚"），
// 且依列出順序解析。順序即優先權，不做任何模糊打分。
type columnSpec struct {
	canonical string
	aliases   []string
	required  bool
}

// 解析順序固定：先長名後短名，避免 "No." 搶走 "台番" 該命中的欄。
var schemaSpecs = []columnSpec{
	{canonical: ColCabinet, aliases: []string{"台番", "No.", "No"}, required: true},
	{canonical: ColModel, aliases: []string{"機種名", "Machine"}, required: true},
	{canonical: ColDate, aliases: []string{"Date"}, required: true},
	{canonical: ColDiff, aliases: []string{"差枚数", "差枚", "Diff"}, required: true},
	{canonical: ColSpins, aliases: []string{"総回転数", "回転数", "Games"}, required: true},
}

// Schema 是表頭解析一次後的固定欄位對照。之後的每一列都按索引取值。
type Schema struct {
	idx map[string]int // canonical → column index
}

// ResolveSchema 把原始表頭解析成 Schema。
// 每個正規欄位：先找完全一致的表頭，否則依別名順序找第一個「包含」該別名
// 且尚未被占用的表頭。必要欄位缺一個就整批失敗，錯誤訊息列出所有缺欄。
func ResolveSchema(header []string) (*Schema, error) {
	cols := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\uFEFF") // Excel/Sheets 匯出常見的 BOM
		cols[i] = strings.TrimSpace(h)
	}

	idx := make(map[string]int, len(schemaSpecs))
	claimed := make(map[int]bool, len(schemaSpecs))
	var missing []string

	for _, spec := range schemaSpecs {
		at := resolveOne(cols, claimed, spec)
		if at < 0 {
			if spec.required {
				missing = append(missing, spec.canonical)
			}
			continue
		}
		idx[spec.canonical] = at
		claimed[at] = true
	}

	if len(missing) > 0 {
		return nil, errs.Fatalf("required columns not found: %s", strings.Join(missing, ", "))
	}
	return &Schema{idx: idx}, nil
}

func resolveOne(cols []string, claimed map[int]bool, spec columnSpec) int {
	for i, c := range cols {
		if !claimed[i] && c == spec.canonical {
			return i
		}
	}
	for _, alias := range spec.aliases {
		for i, c := range cols {
			if !claimed[i] && c != "" && strings.Contains(c, alias) {
				return i
			}
		}
	}
	return -1
}

// Col 回傳正規欄位的索引，未解析到回 -1。
func (s *Schema) Col(name string) int {
	if at, ok := s.idx[name]; ok {
		return at
	}
	return -1
}

// cell 安全取值：索引超出該列長度（CSV 短列）回空字串。
func cell(row []string, at int) string {
	if at < 0 || at >= len(row) {
		return ""
	}
	return row[at]
}
