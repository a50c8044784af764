package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kg112500/dynam-hikone/server/netsvr/middleware"
)

// Reload 作廢兩份快取（資料集 + 座標表）：POST /v1/reload
// 下一次查詢才會真正重載，這裡不做同步載入，回應永遠即時。
func (hh *HallHandler) Reload(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hh.Analyzer.Invalidate()
		if log != nil {
			log.Info("cache invalidated",
				slog.String("reqid", middleware.GetReqId(r)),
			)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"Reloaded": true})
	}
}
