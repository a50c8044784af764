package v1

import (
	"encoding/json"
	"net/http"

	"github.com/kg112500/dynam-hikone/floormap"
	"github.com/kg112500/dynam-hikone/server/httperr"
)

// FloorMap 是店舗マップ（JSON grid）：
// GET /v1/floormap?metric=avg_diff|win_rate|payout&fallback=1
//
// fallback=1 時不讀座標表，改用台番順的概略配置（Grid.Synthetic 會是 true）。
// 座標表不在 / 台番完全對不上，各回一個可區分的 400。
func (hh *HallHandler) FloorMap(w http.ResponseWriter, r *http.Request) {
	g, err := hh.buildGrid(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(g)
}

// FloorMapHTML 出同一份 grid 的獨立 HTML 頁：GET /v1/floormap.html
func (hh *HallHandler) FloorMapHTML(w http.ResponseWriter, r *http.Request) {
	g, err := hh.buildGrid(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	title := hh.Analyzer.Config().HallName + " 店舗マップ"
	if err := g.WriteHTML(w, title); err != nil {
		httperr.Errs(w, err)
		return
	}
}

func (hh *HallHandler) buildGrid(r *http.Request) (*floormap.Grid, error) {
	q := r.URL.Query()

	f, err := parseFilter(q)
	if err != nil {
		return nil, err
	}
	metric, err := floormap.ParseMetric(q.Get("metric"))
	if err != nil {
		return nil, err
	}
	fallback := q.Get("fallback") == "1" || q.Get("fallback") == "true"

	return hh.Analyzer.FloorMap(r.Context(), f, metric, fallback)
}
