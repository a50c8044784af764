package v1

import (
	"net/http"

	"github.com/kg112500/dynam-hikone/metrics"
	"github.com/kg112500/dynam-hikone/server/httperr"
)

// Summary 是多軸彙總：GET /v1/summary?group=model,day_digit&sort=payout&desc=1&top=10
//
// group 可用軸見 metrics.ParseDim；未指定時依機種分組。
// sort / desc / top 是表層整形，彙總本體不受影響。
func (hh *HallHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f, err := parseFilter(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	dims, err := parseDims(q.Get("group"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if len(dims) == 0 {
		dims = []metrics.Dim{metrics.DimModel}
	}

	t, err := hh.Analyzer.Summary(r.Context(), f, dims)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	if col := q.Get("sort"); col != "" {
		desc := q.Get("desc") == "1" || q.Get("desc") == "true"
		if err := t.SortBy(col, desc); err != nil {
			httperr.Errs(w, err)
			return
		}
	}
	top, err := parseIntOr(q, "top", 0)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	t.Top(top)

	w.Header().Set("Content-Type", "application/json")
	t.WriteWith(w, &metrics.JsonTableRender{})
}

// Daily 是日付別推移（チャート用）：GET /v1/daily
func (hh *HallHandler) Daily(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	t, err := hh.Analyzer.Daily(r.Context(), f)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	t.WriteWith(w, &metrics.JsonTableRender{})
}
