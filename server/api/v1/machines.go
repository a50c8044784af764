package v1

import (
	"encoding/json"
	"net/http"

	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/server/httperr"
)

// Machines 回傳設置台一覧（台番昇順の最終観測機種）：GET /v1/machines
// 一覧は全量資料基準，不吃篩選參數。
func (hh *HallHandler) Machines(w http.ResponseWriter, r *http.Request) {
	type MachinesResponse struct {
		Count    int               `json:"Count"`
		Machines []dataset.Machine `json:"Machines"`
	}

	ms, err := hh.Analyzer.Machines(r.Context())
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	resp := MachinesResponse{Count: len(ms), Machines: ms}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
