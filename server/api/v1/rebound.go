package v1

import (
	"encoding/json"
	"net/http"

	"github.com/kg112500/dynam-hikone/metrics"
	"github.com/kg112500/dynam-hikone/server/httperr"
)

// Rebound 是翌日リバウンド分析：
// GET /v1/rebound?max_prev_diff=-2000&min_prev_spins=3000&group=model
//
// 抽出條件都含端點：前日総差枚 ≤ max_prev_diff 且 前日G数 ≥ min_prev_spins。
// 未指定時 max_prev_diff=0（前日マイナス台全部）、min_prev_spins=0。
func (hh *HallHandler) Rebound(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f, err := parseFilter(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	maxPrev, err := parseIntOr(q, "max_prev_diff", 0)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	minSpins, err := parseIntOr(q, "min_prev_spins", 0)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	dims, err := parseDims(q.Get("group"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	rep, err := hh.Analyzer.Rebound(r.Context(), f, metrics.ReboundQuery{
		MaxPrevDiff:  maxPrev,
		MinPrevSpins: minSpins,
		Dims:         dims,
	})
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}
