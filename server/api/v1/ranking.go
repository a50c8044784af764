package v1

import (
	"encoding/json"
	"net/http"

	"github.com/kg112500/dynam-hikone/export"
	"github.com/kg112500/dynam-hikone/metrics"
	"github.com/kg112500/dynam-hikone/server/httperr"
)

// Ranking 是鉄板台ランキング：GET /v1/ranking?min_samples=5&limit=30
// 順位は配列順。min_samples / limit 未指定時用 hall 設定的預設值。
func (hh *HallHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	rows, err := hh.rankRows(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// RankingCSV 以 CSV 下載同一份ランキング：GET /v1/ranking.csv
// BOM 付き UTF-8，Excel 直接開不會亂碼。
func (hh *HallHandler) RankingCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := hh.rankRows(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ranking.csv"`)
	if err := export.WriteRankingCSV(w, rows); err != nil {
		httperr.Errs(w, err)
		return
	}
}

func (hh *HallHandler) rankRows(r *http.Request) ([]metrics.RankRow, error) {
	q := r.URL.Query()

	f, err := parseFilter(q)
	if err != nil {
		return nil, err
	}
	minSamples, err := parseIntOr(q, "min_samples", 0)
	if err != nil {
		return nil, err
	}
	limit, err := parseIntOr(q, "limit", 0)
	if err != nil {
		return nil, err
	}

	return hh.Analyzer.Ranking(r.Context(), f, minSamples, limit)
}
