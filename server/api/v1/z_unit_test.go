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

package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	hikone "github.com/kg112500/dynam-hikone"
	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/errs"
	"github.com/kg112500/dynam-hikone/floormap"
	"github.com/kg112500/dynam-hikone/hallcfg"
	"github.com/kg112500/dynam-hikone/metrics"
)

const hallCSV = `台番号,機種,日付,総差枚,G数
101,マイジャグラーV,2025/7/6,+3000,6000
101,マイジャグラーV,2025/7/7,-1500,4000
102,ハナハナホウオウ,2025/7/7,2000,5000
`

func newHandler(t *testing.T) *HallHandler {
	t.Helper()
	cfg, err := hallcfg.FromYAML([]byte("hall_name: テスト店\ndata:\n  path: unused.csv\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	src := &dataset.FSSource{
		FS:   fstest.MapFS{"t.csv": &fstest.MapFile{Data: []byte(hallCSV)}},
		Path: "t.csv",
	}
	a, err := hikone.NewWithSources(cfg, src, nil, nil)
	if err != nil {
		t.Fatalf("analyzer: %v", err)
	}
	hh, err := NewHallHandler(a)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return hh
}

func TestParseFilter(t *testing.T) {
	q, _ := url.ParseQuery("from=2025-07-01&to=2025/7/31&digits=3,7&zorome=1&model=ジャグラー&model=ハナハナ")
	f, err := parseFilter(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.From.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) ||
		!f.To.Equal(time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected span: %+v", f)
	}
	if len(f.DayDigits) != 2 || f.DayDigits[0] != 3 || f.DayDigits[1] != 7 {
		t.Fatalf("unexpected digits: %v", f.DayDigits)
	}
	if !f.Zorome || len(f.Models) != 2 {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestParseFilterRejectsBadParams(t *testing.T) {
	for _, raw := range []string{
		"from=7月7日",
		"to=notadate",
		"digits=abc",
		"digits=12",
		"digits=-1",
		"zorome=maybe",
	} {
		q, _ := url.ParseQuery(raw)
		if _, err := parseFilter(q); errs.LevelOf(err) != errs.Warn {
			t.Errorf("%s: got %v want warn", raw, err)
		}
	}
}

func TestParseDims(t *testing.T) {
	dims, err := parseDims("")
	if err != nil || dims != nil {
		t.Fatalf("empty got (%v, %v) want nil", dims, err)
	}
	dims, err = parseDims("model, day_digit")
	if err != nil || len(dims) != 2 || dims[0] != metrics.DimModel || dims[1] != metrics.DimDayDigit {
		t.Fatalf("got (%v, %v)", dims, err)
	}
	if _, err := parseDims("nope"); errs.LevelOf(err) != errs.Warn {
		t.Errorf("unknown dim got %v want warn", err)
	}
}

func TestParseIntOr(t *testing.T) {
	q, _ := url.ParseQuery("limit=30&bad=x")
	if v, err := parseIntOr(q, "limit", 5); err != nil || v != 30 {
		t.Errorf("limit got (%d, %v) want 30", v, err)
	}
	if v, err := parseIntOr(q, "missing", 5); err != nil || v != 5 {
		t.Errorf("missing got (%d, %v) want default 5", v, err)
	}
	if _, err := parseIntOr(q, "bad", 5); errs.LevelOf(err) != errs.Warn {
		t.Errorf("bad got %v want warn", err)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	hh := newHandler(t)

	rec := httptest.NewRecorder()
	hh.Summary(rec, httptest.NewRequest(http.MethodGet, "/v1/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type got %q", ct)
	}
	var table metrics.Table
	if err := json.Unmarshal(rec.Body.Bytes(), &table); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(table.Cols) != 1 || table.Cols[0] != "機種" || len(table.Rows) != 2 {
		t.Fatalf("unexpected table: %+v", table)
	}

	// 台番号別 + 機械割降冪。102 (割 113.3) が先頭。
	rec = httptest.NewRecorder()
	hh.Summary(rec, httptest.NewRequest(http.MethodGet, "/v1/summary?group=cabinet&sort=payout&desc=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d body %q", rec.Code, rec.Body.String())
	}
	table = metrics.Table{}
	if err := json.Unmarshal(rec.Body.Bytes(), &table); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if table.Rows[0].Keys[0] != "102" || table.Rows[0].Payout != 113.3 {
		t.Fatalf("unexpected order: %+v", table.Rows)
	}
}

func TestSummaryBadRequest(t *testing.T) {
	hh := newHandler(t)
	for _, target := range []string{
		"/v1/summary?digits=abc",
		"/v1/summary?group=nope",
		"/v1/summary?sort=nope",
		"/v1/summary?top=x",
		"/v1/summary?model=存在しない機種",
	} {
		rec := httptest.NewRecorder()
		hh.Summary(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d want 400", target, rec.Code)
		}
	}
}

func TestRankingCSVEndpoint(t *testing.T) {
	hh := newHandler(t)
	rec := httptest.NewRecorder()
	hh.RankingCSV(rec, httptest.NewRequest(http.MethodGet, "/v1/ranking.csv?min_samples=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type got %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "\uFEFF") {
		t.Error("csv should start with a BOM")
	}
	if !strings.Contains(body, "順位") || !strings.Contains(body, "ハナハナホウオウ") {
		t.Errorf("unexpected csv: %q", body)
	}
}

func TestFloorMapEndpoint(t *testing.T) {
	hh := newHandler(t)

	rec := httptest.NewRecorder()
	hh.FloorMap(rec, httptest.NewRequest(http.MethodGet, "/v1/floormap?fallback=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d body %q", rec.Code, rec.Body.String())
	}
	var g floormap.Grid
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !g.Synthetic || g.MaxX != 2 {
		t.Fatalf("unexpected grid: %+v", g)
	}

	// 座標表を設定していないので実座標モードは 400。
	rec = httptest.NewRecorder()
	hh.FloorMap(rec, httptest.NewRequest(http.MethodGet, "/v1/floormap", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("no coords got %d want 400", rec.Code)
	}
}

func TestReportEndpoint(t *testing.T) {
	hh := newHandler(t)
	rec := httptest.NewRecorder()
	hh.Report(rec, httptest.NewRequest(http.MethodGet, "/v1/report?max_prev_diff=0", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d body %q", rec.Code, rec.Body.String())
	}
	var rep hikone.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Hall != "テスト店" || rep.Samples != 3 || rep.ByModel == nil {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestMachinesEndpoint(t *testing.T) {
	hh := newHandler(t)
	rec := httptest.NewRecorder()
	hh.Machines(rec, httptest.NewRequest(http.MethodGet, "/v1/machines", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d body %q", rec.Code, rec.Body.String())
	}
	var resp struct {
		Count    int
		Machines []dataset.Machine
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || resp.Machines[0].CabinetNo != 101 {
		t.Fatalf("unexpected machines: %+v", resp)
	}
}

func TestReloadEndpoint(t *testing.T) {
	hh := newHandler(t)
	rec := httptest.NewRecorder()
	hh.Reload(nil)(rec, httptest.NewRequest(http.MethodPost, "/v1/reload", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d", rec.Code)
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp["Reloaded"] {
		t.Errorf("unexpected response: %v", resp)
	}
}
