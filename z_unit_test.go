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

package hikone

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/errs"
	"github.com/kg112500/dynam-hikone/floormap"
	"github.com/kg112500/dynam-hikone/hallcfg"
	"github.com/kg112500/dynam-hikone/metrics"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// hallCSV : 3 日分の小さな営業データ。104 は G数 0 の空台。
const hallCSV = `台番号,機種,日付,総差枚,G数
101,マイジャグラーV,2025/7/6,+3000,6000
101,マイジャグラーV,2025/7/7,"-1,500",4000
102,マイジャグラーV,2025/7/7,2000,5000
103,ハナハナホウオウ,2025/7/7,-500,3000
103,ハナハナホウオウ,2025/7/8,1200,4500
104,バジリスク絆2,2025/7/8,0,0
`

const testCfgYAML = `hall_name: テスト店
data:
  path: unused.csv
rank_min_samples: 2
rank_limit: 1
`

func fsSource(content string) dataset.Source {
	return &dataset.FSSource{
		FS:   fstest.MapFS{"t.csv": &fstest.MapFile{Data: []byte(content)}},
		Path: "t.csv",
	}
}

// newTestAnalyzer 用內嵌資料組 Analyzer。coords 可為 nil（座標表なし）。
func newTestAnalyzer(t *testing.T, coords dataset.Source) *Analyzer {
	t.Helper()
	cfg, err := hallcfg.FromYAML([]byte(testCfgYAML))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	a, err := NewWithSources(cfg, fsSource(hallCSV), nil, coords)
	if err != nil {
		t.Fatalf("NewWithSources: %v", err)
	}
	return a
}

// -----------------------------------------------------------------------------
// Tests for the TTL cache
// -----------------------------------------------------------------------------

// TestCacheTTL 驗證 TTL 快取的重載時機
// 檢查項目: TTL 内は再利用、期限切れ/Invalidate で再load
func TestCacheTTL(t *testing.T) {
	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	loads := 0
	c := NewCache(time.Minute, func(context.Context) (int, error) {
		loads++
		return loads, nil
	})
	c.now = func() time.Time { return clock }

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		v, err := c.Get(ctx)
		if err != nil || v != 1 {
			t.Fatalf("get #%d got (%d, %v) want 1", i, v, err)
		}
	}
	clock = base.Add(59 * time.Second)
	if v, _ := c.Get(ctx); v != 1 {
		t.Errorf("inside ttl got %d want cached 1", v)
	}
	clock = base.Add(61 * time.Second)
	if v, _ := c.Get(ctx); v != 2 {
		t.Errorf("expired got %d want reload 2", v)
	}
	c.Invalidate()
	if v, _ := c.Get(ctx); v != 3 {
		t.Errorf("after invalidate got %d want reload 3", v)
	}
	if loads != 3 {
		t.Errorf("loads got %d want 3", loads)
	}
}

// TestCacheNoExpiry 驗證 ttl <= 0 的永続快取
// 檢查項目: 時間経過では再loadしない、Invalidate だけが効く
func TestCacheNoExpiry(t *testing.T) {
	clock := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	loads := 0
	c := NewCache(0, func(context.Context) (int, error) {
		loads++
		return loads, nil
	})
	c.now = func() time.Time { return clock }

	ctx := context.Background()
	c.Get(ctx)
	clock = clock.AddDate(1, 0, 0)
	if v, _ := c.Get(ctx); v != 1 || loads != 1 {
		t.Errorf("got (%d, loads=%d) want cached forever", v, loads)
	}
	c.Invalidate()
	if v, _ := c.Get(ctx); v != 2 {
		t.Errorf("after invalidate got %d want 2", v)
	}
}

// TestCacheErrorNotCached 驗證載入失敗不快取
// 檢查項目: 失敗直後の Get は再試行、成功するまで loaded にならない
func TestCacheErrorNotCached(t *testing.T) {
	fail := true
	loads := 0
	c := NewCache[int](time.Minute, func(context.Context) (int, error) {
		loads++
		if fail {
			return 0, errs.NewFatal("source down")
		}
		return 42, nil
	})

	ctx := context.Background()
	if v, err := c.Get(ctx); err == nil || v != 0 {
		t.Fatalf("failing load got (%d, %v) want zero and error", v, err)
	}
	if c.Info().Loaded {
		t.Error("failed load should not mark cache loaded")
	}
	fail = false
	if v, err := c.Get(ctx); err != nil || v != 42 {
		t.Fatalf("retry got (%d, %v) want 42", v, err)
	}
	if loads != 2 {
		t.Errorf("loads got %d want 2", loads)
	}
}

// TestCacheInfo 驗證 dev panel 用の現況表示
// 檢查項目: 未load時は TTL のみ、load後は LoadedAt と Age
func TestCacheInfo(t *testing.T) {
	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	c := NewCache(time.Minute, func(context.Context) (int, error) { return 1, nil })
	c.now = func() time.Time { return clock }

	info := c.Info()
	if info.Loaded || info.TTL != "1m0s" || info.LoadedAt != "" {
		t.Fatalf("before load got %+v", info)
	}

	c.Get(context.Background())
	clock = base.Add(30 * time.Second)
	info = c.Info()
	if !info.Loaded || info.LoadedAt != base.Format(time.RFC3339) || info.Age != "30s" {
		t.Fatalf("after load got %+v", info)
	}
}

// -----------------------------------------------------------------------------
// Tests for the analyzer
// -----------------------------------------------------------------------------

// TestNewValidation 驗證組裝時の防呆
// 檢查項目: 設定なし / データ来源なしは Fatal
func TestNewValidation(t *testing.T) {
	if _, err := New(nil); errs.LevelOf(err) != errs.Fatal {
		t.Errorf("nil config got %v want fatal", err)
	}
	cfg, err := hallcfg.FromYAML([]byte(testCfgYAML))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if _, err := NewWithSources(cfg, nil, nil, nil); errs.LevelOf(err) != errs.Fatal {
		t.Errorf("nil data source got %v want fatal", err)
	}
}

// TestRecords 驗證「稼働列除外 → 篩選」の共通経路
// 檢查項目: G数 0 は除外、機種絞り込み、零筆は Warn + 条件摘要付き
func TestRecords(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	ctx := context.Background()

	recs, err := a.Records(ctx, dataset.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("records got %d want 5 (zero spin row excluded)", len(recs))
	}
	for _, r := range recs {
		if r.Spins == 0 {
			t.Fatalf("inactive record leaked: %+v", r)
		}
	}

	recs, err = a.Records(ctx, dataset.Filter{Models: []string{"マイジャグラーV"}})
	if err != nil || len(recs) != 3 {
		t.Fatalf("model filter got (%d, %v) want 3", len(recs), err)
	}

	_, err = a.Records(ctx, dataset.Filter{Models: []string{"存在しない機種"}})
	if errs.LevelOf(err) != errs.Warn {
		t.Fatalf("no match got %v want warn", err)
	}
	if e, ok := errs.AsErr(err); !ok || e.Extra != "機種指定(1)" {
		t.Errorf("warn should carry the filter label, got %v", err)
	}
}

// TestSummaryAndDaily 驗證彙總表の組み立て
// 檢查項目: 機種別 2 行、日別 3 行、キー昇順
func TestSummaryAndDaily(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	ctx := context.Background()

	byModel, err := a.Summary(ctx, dataset.Filter{}, []metrics.Dim{metrics.DimModel})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(byModel.Cols) != 1 || byModel.Cols[0] != "機種" {
		t.Errorf("cols got %v", byModel.Cols)
	}
	if len(byModel.Rows) != 2 {
		t.Fatalf("rows got %d want 2", len(byModel.Rows))
	}
	var mai metrics.Row
	for _, r := range byModel.Rows {
		if r.Keys[0] == "マイジャグラーV" {
			mai = r.Row
		}
	}
	if mai.Samples != 3 || mai.TotalDiff != 3500 || mai.AvgDiff != 1167 {
		t.Errorf("マイジャグラーV row got %+v", mai)
	}

	daily, err := a.Daily(ctx, dataset.Filter{})
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(daily.Rows) != 3 {
		t.Fatalf("daily rows got %d want 3", len(daily.Rows))
	}
	if daily.Rows[0].Keys[0] != "2025-07-06" || daily.Rows[2].Keys[0] != "2025-07-08" {
		t.Errorf("daily order got %v, %v", daily.Rows[0].Keys, daily.Rows[2].Keys)
	}
	if r := daily.Rows[1].Row; r.Samples != 3 || r.TotalDiff != 0 {
		t.Errorf("2025-07-07 row got %+v", r)
	}
}

// TestRankingDefaults 驗證ランキングの設定連動
// 檢查項目: minSamples / limit に 0 を渡すと設定値が効く
func TestRankingDefaults(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	ctx := context.Background()

	// 設定は rank_min_samples: 2 / rank_limit: 1。
	// 2 サンプル以上は 101 (割 105.0) と 103 (割 103.1)、limit 1 で 101 だけ残る。
	rows, err := a.Ranking(ctx, dataset.Filter{}, 0, 0)
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if len(rows) != 1 || rows[0].CabinetNo != 101 {
		t.Fatalf("default ranking got %+v want cabinet 101 only", rows)
	}
	if rows[0].Payout != 105.0 || !rows[0].Installed {
		t.Errorf("cabinet 101 got %+v", rows[0])
	}

	// 明示指定は設定より優先。1 サンプルの 102 (割 113.3) が先頭に来る。
	rows, err = a.Ranking(ctx, dataset.Filter{}, 1, 10)
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if len(rows) != 3 || rows[0].CabinetNo != 102 || rows[1].CabinetNo != 101 || rows[2].CabinetNo != 103 {
		t.Fatalf("explicit ranking order got %+v", rows)
	}
	if rows[0].Payout != 113.3 {
		t.Errorf("cabinet 102 payout got %v want 113.3", rows[0].Payout)
	}
}

// TestFloorMap 驗證店舗マップの三經路
// 檢查項目: 概略配置 / 実座標 / 座標表なしは ErrUnavailable
func TestFloorMap(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	ctx := context.Background()

	g, err := a.FloorMap(ctx, dataset.Filter{}, floormap.MetricAvgDiff, true)
	if err != nil {
		t.Fatalf("synthetic map: %v", err)
	}
	if !g.Synthetic || g.MaxX != 3 || g.MaxY != 1 {
		t.Fatalf("synthetic grid got %+v", g)
	}
	if g.Cells[0][0].CabinetNo != 101 {
		t.Errorf("first cell got %+v want cabinet 101", g.Cells[0][0])
	}

	if _, err := a.FloorMap(ctx, dataset.Filter{}, floormap.MetricAvgDiff, false); !errors.Is(err, floormap.ErrUnavailable) {
		t.Errorf("no coords source got %v want ErrUnavailable", err)
	}

	// 実座標あり。104 は配置済だが G数 0 なので「無実績」格になる。
	withCoords := newTestAnalyzer(t, fsSource("台番号,X,Y\n101,1,1\n102,2,1\n103,1,2\n104,2,2\n"))
	g, err = withCoords.FloorMap(ctx, dataset.Filter{}, floormap.MetricPayout, false)
	if err != nil {
		t.Fatalf("real map: %v", err)
	}
	if g.Synthetic || g.MaxX != 2 || g.MaxY != 2 {
		t.Fatalf("real grid got %+v", g)
	}
	if c := g.Cells[1][1]; c.Kind != floormap.CellNoData || c.CabinetNo != 104 {
		t.Errorf("idle cabinet cell got %+v want nodata 104", c)
	}
}

// TestMachines 驗證設置台一覧
// 檢查項目: 空台も含む全台、台番昇順、最終観測日
func TestMachines(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	ms, err := a.Machines(context.Background())
	if err != nil {
		t.Fatalf("machines: %v", err)
	}
	if len(ms) != 4 {
		t.Fatalf("machines got %d want 4", len(ms))
	}
	for i, want := range []int{101, 102, 103, 104} {
		if ms[i].CabinetNo != want {
			t.Fatalf("order got %+v", ms)
		}
	}
	if ms[3].Model != "バジリスク絆2" {
		t.Errorf("cabinet 104 model got %q", ms[3].Model)
	}
	if want := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC); !ms[0].LastDate.Equal(want) {
		t.Errorf("cabinet 101 last date got %v want %v", ms[0].LastDate, want)
	}
}

// TestAnalyzerCacheInfo 驗證快取現況と手動更新
// 檢查項目: data / coords の二鍵、Records 後に data だけ loaded、Invalidate で戻る
func TestAnalyzerCacheInfo(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	ctx := context.Background()

	info := a.CacheInfo()
	if info["data"].Loaded || info["coords"].Loaded {
		t.Fatalf("fresh analyzer got %+v", info)
	}

	if _, err := a.Records(ctx, dataset.Filter{}); err != nil {
		t.Fatalf("records: %v", err)
	}
	info = a.CacheInfo()
	if !info["data"].Loaded || info["coords"].Loaded {
		t.Fatalf("after records got %+v", info)
	}

	a.Invalidate()
	if info = a.CacheInfo(); info["data"].Loaded {
		t.Fatalf("after invalidate got %+v", info)
	}
}

// -----------------------------------------------------------------------------
// Tests for the standard report
// -----------------------------------------------------------------------------

// TestReport 驗證標準分析一輪の組み立て
// 檢查項目: 概況数値、各段落、リバウンド抽出、零筆は Warn
func TestReport(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	ctx := context.Background()

	r, err := a.Report(ctx, dataset.Filter{}, metrics.ReboundQuery{MaxPrevDiff: 0})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.Hall != "テスト店" || r.Filter != "全期間" {
		t.Errorf("header got %q %q", r.Hall, r.Filter)
	}
	if r.From != "2025-07-06" || r.To != "2025-07-08" {
		t.Errorf("span got %s〜%s", r.From, r.To)
	}
	if r.Samples != 5 || r.Cabinets != 3 || r.Models != 2 {
		t.Errorf("counts got (%d,%d,%d) want (5,3,2)", r.Samples, r.Cabinets, r.Models)
	}

	// 全体: 差枚 4200 / G数 22500 / 3勝2敗。
	// 機械割 = (22500*3 + 4200) / (22500*3) * 100 = 106.2。
	o := r.Overall
	if o.Samples != 5 || o.Wins != 3 || o.WinRate != 60.0 {
		t.Errorf("overall got %+v", o)
	}
	if o.TotalDiff != 4200 || o.TotalSpins != 22500 || o.Payout != 106.2 {
		t.Errorf("overall got %+v", o)
	}

	if r.ByModel == nil || r.ByModel.Rows[0].Keys[0] != "マイジャグラーV" {
		t.Errorf("by-model should sort avg_diff desc, got %+v", r.ByModel)
	}
	if r.Daily == nil || len(r.Daily.Rows) != 3 {
		t.Errorf("daily got %+v", r.Daily)
	}
	if r.DayDigit == nil || len(r.DayDigit.Rows) != 3 {
		t.Errorf("day digit got %+v", r.DayDigit)
	}
	if len(r.Ranking) != 1 {
		t.Errorf("ranking got %+v", r.Ranking)
	}

	// 前日≤0 の翌日: 103 の 7/8 (前日 -500) の 1 件だけ。
	if r.Rebound == nil {
		t.Fatal("rebound section missing")
	}
	if r.Rebound.Overall.Samples != 1 || r.Rebound.Overall.TotalDiff != 1200 {
		t.Errorf("rebound got %+v", r.Rebound.Overall)
	}

	if _, err := a.Report(ctx, dataset.Filter{Models: []string{"なし"}}, metrics.ReboundQuery{}); errs.LevelOf(err) != errs.Warn {
		t.Errorf("empty report got %v want warn", err)
	}
}

// TestReportReboundBreakdown 驗證リバウンド段落の分組軸指定
// 檢查項目: Dims 付きでも全段落揃って返る、Table が付く
func TestReportReboundBreakdown(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	q := metrics.ReboundQuery{MaxPrevDiff: 0, Dims: []metrics.Dim{metrics.DimModel}}
	r, err := a.Report(context.Background(), dataset.Filter{}, q)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.Rebound == nil || r.Rebound.Table == nil {
		t.Fatalf("rebound breakdown missing: %+v", r.Rebound)
	}
	if got := r.Rebound.Table.Samples(); got != r.Rebound.Overall.Samples {
		t.Errorf("breakdown samples got %d want %d", got, r.Rebound.Overall.Samples)
	}
}

// TestReportRender 驗證 Text / Json 両出力
// 檢查項目: 各段落見出し、JSON の decode 可能性
func TestReportRender(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	r, err := a.Report(context.Background(), dataset.Filter{}, metrics.ReboundQuery{MaxPrevDiff: 0})
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	var text strings.Builder
	if err := (&TextReportRender{}).Write(&text, r); err != nil {
		t.Fatalf("text render: %v", err)
	}
	for _, want := range []string{"テスト店", "概況", "機種別", "日別推移", "鉄板台ランキング", "翌日リバウンド"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("text output missing %q", want)
		}
	}

	var buf strings.Builder
	if err := (&JsonReportRender{}).Write(&buf, r); err != nil {
		t.Fatalf("json render: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatalf("json output invalid: %v", err)
	}
	if decoded["Hall"] != "テスト店" {
		t.Errorf("json hall got %v", decoded["Hall"])
	}
}
