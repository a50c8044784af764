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

// Package index 提供服務主頁（GET /）。
// 只列出可用的 endpoints，不做任何資料查詢。
package index

import "net/http"

const indexHTML = `<!doctype html>
<html lang="zh-Hant">
<head>
  <meta charset="utf-8" />
  <title>Hall Analytics</title>
  <style>
    body { font-family: -apple-system,BlinkMacSystemFont,"Segoe UI",sans-serif; background:#0f172a; color:#e2e8f0; margin:0; }
    .wrap { max-width: 720px; margin: 48px auto; padding: 20px 24px; background:#111827; border:1px solid #1f2937; border-radius:12px; }
    h1 { margin: 0 0 6px; font-size: 22px; }
    p { color:#94a3b8; margin: 0 0 18px; }
    table { border-collapse: collapse; width: 100%; font-size: 14px; }
    td { padding: 7px 10px; border-bottom: 1px solid #1f2937; }
    td.m { color:#94a3b8; width: 64px; }
    a { color:#38bdf8; text-decoration: none; }
  </style>
</head>
<body>
  <div class="wrap">
    <h1>Hall Analytics API</h1>
    <p>パチスロ営業データの集計・分析サービス</p>
    <table>
      <tr><td class="m">GET</td><td><a href="/v1/summary">/v1/summary</a></td><td>機種別など任意軸の彙總表</td></tr>
      <tr><td class="m">GET</td><td><a href="/v1/daily">/v1/daily</a></td><td>日別推移</td></tr>
      <tr><td class="m">GET</td><td><a href="/v1/ranking">/v1/ranking</a></td><td>鉄板台ランキング</td></tr>
      <tr><td class="m">GET</td><td><a href="/v1/ranking.csv">/v1/ranking.csv</a></td><td>ランキング CSV（BOM 付き UTF-8）</td></tr>
      <tr><td class="m">GET</td><td><a href="/v1/rebound">/v1/rebound</a></td><td>翌日リバウンド分析</td></tr>
      <tr><td class="m">GET</td><td><a href="/v1/floormap">/v1/floormap</a></td><td>店舗マップ（JSON grid）</td></tr>
      <tr><td class="m">GET</td><td><a href="/v1/floormap.html">/v1/floormap.html</a></td><td>店舗マップ（heatmap HTML）</td></tr>
      <tr><td class="m">GET</td><td><a href="/v1/machines">/v1/machines</a></td><td>現役台一覧</td></tr>
      <tr><td class="m">GET</td><td><a href="/v1/report">/v1/report</a></td><td>全セクション一括レポート</td></tr>
      <tr><td class="m">POST</td><td>/v1/reload</td><td>キャッシュ無効化（次回アクセスで再取得）</td></tr>
    </table>
  </div>
</body>
</html>`

// IndexHandlerFn 回傳主頁 HTML。
func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}
