// Package dev 提供店舗分析服務的「內部 Dev Panel」HTTP endpoints。
//
// 目的：
//   - 給營運 / 後端在開發期快速確認：快取年齡、設定內容、資料是否載得進來。
//   - 提供一鍵「データ更新」（打 POST /v1/reload）。
//
// 注意：
//   - 這不是 production API，只在 svrcfg.ModeDev 掛載。
//   - 錯誤處理走 httperr（errs.Warn/errs.Fatal 對應 HTTP status）。
//   - /dev/config 會原樣吐出資料來源 URL，來源網址帶憑證時不要開 dev mode 對外。
package dev

import (
	"encoding/json"
	"net/http"

	"github.com/kg112500/dynam-hikone/errs"
	"github.com/kg112500/dynam-hikone/server/httperr"
	"github.com/kg112500/dynam-hikone/server/netsvr"
	"github.com/kg112500/dynam-hikone/server/svrcfg"
)

var errAnalyzerRequired = errs.NewFatal("dev panel requires a configured analyzer")

// Register 註冊 Dev Panel 的 routes。
//
// Routes：
//   - GET /dev        ：Dev Panel HTML（內嵌 JS）。
//   - GET /dev/cache  ：兩份快取（data / coords）的載入狀態與年齡。
//   - GET /dev/config ：目前生效的 hall 設定 dump。
func Register(svr netsvr.NetRouter, cfg *svrcfg.SvrCfg) {
	svr.Get("/dev", devPage)
	svr.Get("/dev/cache", devCache(cfg))
	svr.Get("/dev/config", devConfig(cfg))
}

const devPageHTML = `<!doctype html>
<html lang="zh-Hant">
<head>
  <meta charset="utf-8" />
  <title>Hall Analytics Dev</title>
  <style>
    body { font-family: -apple-system,BlinkMacSystemFont,"Segoe UI",sans-serif; background:#0f172a; color:#e2e8f0; margin:0; }
    .wrap { max-width: 860px; margin: 24px auto; padding: 16px 20px; background:#111827; border:1px solid #1f2937; border-radius:12px; }
    h1 { margin: 0 0 16px; font-size: 20px; }
    h2 { margin: 18px 0 8px; font-size: 15px; color:#94a3b8; }
    pre { background:#0b1224; border:1px solid #1f2738; border-radius:10px; padding:12px; overflow:auto; font-size:13px; white-space:pre-wrap; }
    button { cursor:pointer; border:none; border-radius:10px; padding:10px 14px; font-weight:600; background:#38bdf8; color:#0b1224; }
    a { color:#38bdf8; text-decoration:none; }
    ul { line-height: 1.9; }
    .ok { color:#22c55e; }
  </style>
</head>
<body>
  <div class="wrap">
    <h1>Hall Analytics Dev Panel</h1>
    <button id="btn-reload">データを最新に更新</button>
    <span id="reload-state"></span>

    <h2>Cache</h2>
    <pre id="cache">loading...</pre>

    <h2>Config</h2>
    <pre id="config">loading...</pre>

    <h2>Endpoints</h2>
    <ul>
      <li><a href="/v1/summary">/v1/summary</a> ・ <a href="/v1/daily">/v1/daily</a> ・ <a href="/v1/report">/v1/report</a></li>
      <li><a href="/v1/ranking">/v1/ranking</a> ・ <a href="/v1/ranking.csv">/v1/ranking.csv</a></li>
      <li><a href="/v1/rebound">/v1/rebound</a> ・ <a href="/v1/machines">/v1/machines</a></li>
      <li><a href="/v1/floormap.html">/v1/floormap.html</a> ・ <a href="/v1/floormap.html?fallback=1">fallback 配置</a></li>
    </ul>
  </div>
<script>
async function refresh() {
  for (const [id, url] of [['cache', '/dev/cache'], ['config', '/dev/config']]) {
    try {
      const res = await fetch(url);
      document.getElementById(id).textContent = JSON.stringify(await res.json(), null, 2);
    } catch (err) {
      document.getElementById(id).textContent = String(err);
    }
  }
}
document.getElementById('btn-reload').addEventListener('click', async () => {
  const state = document.getElementById('reload-state');
  state.textContent = '...';
  try {
    const res = await fetch('/v1/reload', { method: 'POST' });
    state.textContent = res.ok ? 'done' : ('HTTP ' + res.status);
    state.className = res.ok ? 'ok' : '';
  } catch (err) {
    state.textContent = String(err);
  }
  refresh();
});
refresh();
</script>
</body>
</html>`

// devPage 回傳內嵌 HTML（single page）。不做 templating，降低 dev tool 維護成本。
func devPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(devPageHTML))
}

// devCache 回傳兩份快取的現況（JSON）。
func devCache(cfg *svrcfg.SvrCfg) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg == nil || cfg.Analyzer == nil {
			httperr.Errs(w, errAnalyzerRequired)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cfg.Analyzer.CacheInfo())
	}
}

// devConfig 回傳目前生效的 hall 設定（JSON）。
func devConfig(cfg *svrcfg.SvrCfg) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg == nil || cfg.Analyzer == nil {
			httperr.Errs(w, errAnalyzerRequired)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cfg.Analyzer.Config())
	}
}
