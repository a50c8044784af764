// Package metrics 把 Record 列表依任意鍵彙總成勝率 / 差枚 / 機械割指標。
// 彙總過程只做整數累加，分組收齊後才一次換算浮點結果。
package metrics

import (
	"math"

	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/hallcfg"
	"gonum.org/v1/gonum/stat/distuv"
)

// CI 信賴區間（百分比）
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// Row 是一個分組的彙總結果。
//
// 數值語意（對所有呼叫端一致，迴歸測試依賴這組捨入規則）：
//   - WinRate / Payout 取一位小數，AvgDiff / AvgSpins 取整數，
//     皆為 half away from zero（math.Round）。
//   - TotalSpins 為 0 時 Payout 一律回 0，絕不除零。
type Row struct {
	Samples    int     `json:"Samples"`    // サンプル数（列數）
	Wins       int     `json:"Wins"`       // 勝数（総差枚 > 0 的列數）
	WinRate    float64 `json:"WinRate"`    // 勝率 %
	WinRateCI  CI      `json:"WinRateCI"`  // 勝率 95% CI（Clopper–Pearson）
	TotalDiff  int     `json:"TotalDiff"`  // 総差枚合計
	TotalSpins int     `json:"TotalSpins"` // G数合計
	AvgDiff    int     `json:"AvgDiff"`    // 平均差枚
	AvgSpins   int     `json:"AvgSpins"`   // 平均G数
	Payout     float64 `json:"Payout"`     // 機械割 %
}

// Options 控制彙總的參數。零值即預設。
type Options struct {
	// CoinsPerGame 是機械割公式的投入枚數，0 用 hallcfg.DefaultCoinsPerGame。
	CoinsPerGame int
}

func (o Options) coins() int {
	if o.CoinsPerGame < 1 {
		return hallcfg.DefaultCoinsPerGame
	}
	return o.CoinsPerGame
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Aggregate 依 keyOf 取鍵分組彙總。輸入中出現過的鍵必有對應輸出列，
// 不會默默丟組。輸出是 map，需要順序的呼叫端自行排序。
//
// G数 0 的列要不要進來是呼叫端的除外政策（見 dataset.Active），
// 這裡照單全收。
func Aggregate[K comparable](recs []dataset.Record, keyOf func(dataset.Record) K, opt Options) map[K]Row {
	coins := opt.coins()
	accs := make(map[K]*acc)
	for _, r := range recs {
		k := keyOf(r)
		a, ok := accs[k]
		if !ok {
			a = &acc{}
			accs[k] = a
		}
		a.add(r)
	}

	out := make(map[K]Row, len(accs))
	for k, a := range accs {
		out[k] = a.done(coins)
	}
	return out
}

// ============================================================
// ** 內部方法 **
// ============================================================

// acc 是單一分組的整數累積器。
type acc struct {
	samples int
	wins    int
	diff    int
	spins   int
}

func (a *acc) add(r dataset.Record) {
	a.samples++
	if r.Diff > 0 {
		a.wins++
	}
	a.diff += r.Diff
	a.spins += r.Spins
}

// done 把累積計數換算成最終 Row。
func (a *acc) done(coins int) Row {
	row := Row{
		Samples:    a.samples,
		Wins:       a.wins,
		TotalDiff:  a.diff,
		TotalSpins: a.spins,
	}
	if a.samples > 0 {
		n := float64(a.samples)
		row.WinRate = round1(float64(a.wins) / n * 100)
		row.AvgDiff = roundInt(float64(a.diff) / n)
		row.AvgSpins = roundInt(float64(a.spins) / n)
		row.WinRateCI = winRateCI(a.wins, a.samples)
	}
	if a.spins > 0 {
		in := float64(a.spins) * float64(coins)
		row.Payout = round1((in + float64(a.diff)) / in * 100)
	}
	return row
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func roundInt(x float64) int { return int(math.Round(x)) }

// winRateCI 回傳勝率的 Clopper–Pearson exact 95% CI（百分比、一位小數）。
// 邊界照 CP 慣例：k=0 時下界 0、k=n 時上界 100。
func winRateCI(k, n int) CI {
	if n == 0 {
		return CI{}
	}
	const alpha = 0.05
	var lo, hi float64
	if k > 0 {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		lo = b.Quantile(alpha / 2)
	}
	if k == n {
		hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		hi = b.Quantile(1 - alpha/2)
	}
	return CI{Lo: round1(lo * 100), Hi: round1(hi * 100)}
}
