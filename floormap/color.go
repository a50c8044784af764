package floormap

import "github.com/kg112500/dynam-hikone/errs"

// Metric 是塗色依據的指標。
type Metric uint8

const (
	MetricAvgDiff Metric = iota // 平均差枚
	MetricWinRate               // 勝率
	MetricPayout                // 機械割
)

// 無実績（稼働なし）與中立帶共用白。
const colorNoData = "#ffffff"

// ParseMetric 從識別字還原 Metric。
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "", "avg_diff":
		return MetricAvgDiff, nil
	case "win_rate":
		return MetricWinRate, nil
	case "payout":
		return MetricPayout, nil
	default:
		return 0, errs.Warnf("unknown map metric %q", s)
	}
}

func (m Metric) Name() string {
	switch m {
	case MetricWinRate:
		return "win_rate"
	case MetricPayout:
		return "payout"
	default:
		return "avg_diff"
	}
}

func (m Metric) Label() string {
	switch m {
	case MetricWinRate:
		return "勝率"
	case MetricPayout:
		return "機械割"
	default:
		return "平均差枚"
	}
}

func (m Metric) value(s Stat) float64 {
	switch m {
	case MetricWinRate:
		return s.WinRate
	case MetricPayout:
		return s.Payout
	default:
		return float64(s.AvgDiff)
	}
}

// color 是固定閾值的色帶。店長們看慣了這組配色，不做漸層。
func (m Metric) color(v float64) string {
	switch m {
	case MetricWinRate:
		switch {
		case v >= 50:
			return "#ff9999"
		case v >= 40:
			return "#ffcccc"
		default:
			return "#ccccff"
		}
	case MetricPayout:
		switch {
		case v >= 105:
			return "#ff9999"
		case v >= 100:
			return "#ffcccc"
		default:
			return "#ccccff"
		}
	default: // 平均差枚
		switch {
		case v >= 1000:
			return "#ff9999"
		case v >= 200:
			return "#ffcccc"
		case v <= -500:
			return "#9999ff"
		case v < 0:
			return "#ccccff"
		default:
			return colorNoData
		}
	}
}
