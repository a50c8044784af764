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
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kg112500/dynam-hikone/errs"
)

// Loader 把資料來源組裝成 Dataset：解析表頭、轉型、機種名轉換、派生屬性。
// Data 必填；Mapping 與 Overrides 都可缺（機種名照原樣）。
type Loader struct {
	Data      Source
	Mapping   Source            // 機種変換表（旧名, 新名），無表頭
	Overrides map[string]string // 手動指定的轉換，蓋過 Mapping 的同名 key
}

// Load 跑完整個載入流程。
// 錯誤分級：來源抓不到 / 必要欄位缺失 / 日期儲存格壞掉 → Fatal（本次互動中止）；
// 機種変換表抓不到 → 記 warn 後照常繼續（那張表本來就是選配）。
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	started := time.Now()

	if l.Data == nil {
		return nil, errs.NewFatal("no data source configured")
	}
	raw, err := l.Data.Rows(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "load data table")
	}
	if len(raw) < 2 {
		return nil, errs.Fatalf("data table %s has no rows", l.Data.Name())
	}

	schema, err := ResolveSchema(raw[0])
	if err != nil {
		return nil, errs.Wrapf(err, "resolve header of %s", l.Data.Name())
	}

	recs, skipped, err := parseRows(raw[1:], schema)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errs.Fatalf("data table %s has no usable rows", l.Data.Name())
	}

	if remap := l.nameMap(ctx); len(remap) > 0 {
		for i := range recs {
			if nn, ok := remap[recs[i].Model]; ok {
				recs[i].Model = nn
			}
		}
	}

	ds := &Dataset{
		Records: recs,
		Loaded:  time.Now(),
		Latest:  latestModels(recs),
	}
	slog.Info("dataset loaded",
		"source", l.Data.Name(),
		"rows", len(recs),
		"skipped", skipped,
		"cabinets", len(ds.Latest),
		"elapsed", time.Since(started),
	)
	return ds, nil
}

// parseRows 逐列轉成 Record。
// 整列空白、或日期儲存格空白的列直接跳過（匯出常見的尾端空行）；
// 日期儲存格非空但解析不了則整批失敗，錯誤帶上 1-based 列號。
func parseRows(rows [][]string, schema *Schema) ([]Record, int, error) {
	recs := make([]Record, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		dateCell := strings.TrimSpace(cell(row, schema.Col(ColDate)))
		if blankRow(row) || dateCell == "" {
			skipped++
			continue
		}
		d, err := ParseDate(dateCell)
		if err != nil {
			return nil, 0, errs.Wrapf(err, "data row %d", i+2)
		}
		r := Record{
			CabinetNo: ParseAmount(cell(row, schema.Col(ColCabinet))),
			Model:     strings.TrimSpace(cell(row, schema.Col(ColModel))),
			Date:      d,
			Diff:      ParseAmount(cell(row, schema.Col(ColDiff))),
			Spins:     ParseAmount(cell(row, schema.Col(ColSpins))),
		}
		r.derive()
		recs = append(recs, r)
	}
	return recs, skipped, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// nameMap 合併機種変換表與手動覆寫（覆寫優先）。
func (l *Loader) nameMap(ctx context.Context) map[string]string {
	merged := map[string]string{}

	if l.Mapping != nil {
		rows, err := l.Mapping.Rows(ctx)
		if err != nil {
			slog.Warn("model name mapping unavailable, keeping raw names",
				"source", l.Mapping.Name(), "err", err)
		} else {
			for _, row := range rows {
				if len(row) < 2 {
					continue
				}
				old, nn := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
				if old == "" || nn == "" {
					continue
				}
				merged[old] = nn
			}
		}
	}

	for old, nn := range l.Overrides {
		if old == "" || nn == "" {
			continue
		}
		merged[old] = nn
	}
	return merged
}
