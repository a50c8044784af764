package v1

import (
	"encoding/json"
	"net/http"

	"github.com/kg112500/dynam-hikone/metrics"
	"github.com/kg112500/dynam-hikone/server/httperr"
)

// Report 一次回傳全標準分析セット：GET /v1/report
// 接收共通篩選參數外加リバウンド門檻（max_prev_diff / min_prev_spins）。
func (hh *HallHandler) Report(w http.ResponseWriter, r *http.Request) {
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

	rep, err := hh.Analyzer.Report(r.Context(), f, metrics.ReboundQuery{
		MaxPrevDiff:  maxPrev,
		MinPrevSpins: minSpins,
	})
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}
