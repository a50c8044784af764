package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	hikone "github.com/kg112500/dynam-hikone"
	"github.com/kg112500/dynam-hikone/charts"
	"github.com/kg112500/dynam-hikone/dataset"
	"github.com/kg112500/dynam-hikone/export"
	"github.com/kg112500/dynam-hikone/hallcfg"
	"github.com/kg112500/dynam-hikone/metrics"
)

var cfg *config = new(config)

type config struct {
	configPath string
	from       string
	to         string
	digits     string
	zorome     bool
	model      string
	format     string
	out        string
	csvPath    string
	xlsxPath   string
	chartDir   string
	maxPrev    int
	minSpins   int
	quiet      bool
	pprofmode  string

	filter dataset.Filter // valid() 解析完的結果
}

func bindVar() {
	// .env.local 優先於 .env，兩者都可缺
	_ = godotenv.Load(".env.local", ".env")

	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.configPath, "config", "hall.yaml", "hall config file (YAML)")
	flag.StringVar(&cfg.from, "from", "", "start date (2006-01-02)")
	flag.StringVar(&cfg.to, "to", "", "end date (2006-01-02)")
	flag.StringVar(&cfg.digits, "digits", "", "day digits, e.g. 2,7")
	flag.BoolVar(&cfg.zorome, "zorome", false, "zorome days only (11th/22nd/...)")
	flag.StringVar(&cfg.model, "model", "", "model name filter")
	flag.StringVar(&cfg.format, "format", "text", "report format: text|json")
	flag.StringVar(&cfg.out, "out", "", "write report to file instead of stdout")
	flag.StringVar(&cfg.csvPath, "csv", "", "also write ranking CSV to path")
	flag.StringVar(&cfg.xlsxPath, "xlsx", "", "also write full workbook (xlsx) to path")
	flag.StringVar(&cfg.chartDir, "charts", "", "also write PNG charts into dir")
	flag.IntVar(&cfg.maxPrev, "max-prev-diff", 0, "rebound: previous-day diff upper bound (inclusive)")
	flag.IntVar(&cfg.minSpins, "min-prev-spins", 0, "rebound: previous-day spins lower bound (inclusive)")
	flag.BoolVar(&cfg.quiet, "q", false, "hide export progress bar")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()
}

func executeReport() {
	cfg.valid() // 基本檢查

	raw, err := os.ReadFile(cfg.configPath)
	if err != nil {
		log.Fatal(err)
	}
	hall, err := hallcfg.FromYAML(raw)
	if err != nil {
		log.Fatal(err)
	}
	// 來源 URL 的環境變數覆寫（secrets 不進 YAML）
	if v := os.Getenv("HIKONE_DATA_URL"); v != "" {
		hall.Data.URL = v
	}
	if v := os.Getenv("HIKONE_MAPPING_URL"); v != "" {
		hall.Mapping.URL = v
	}
	if v := os.Getenv("HIKONE_COORDS_URL"); v != "" {
		hall.Coords.URL = v
	}

	ana, err := hikone.New(hall)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := ana.Report(ctx, cfg.filter, metrics.ReboundQuery{
		MaxPrevDiff:  cfg.maxPrev,
		MinPrevSpins: cfg.minSpins,
	})
	if err != nil {
		log.Fatal(err)
	}

	// 至此確保可輸出
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	p.Printf("%s[HALL:%s] [SPAN:%s~%s] [SAMPLES:%d]%s\n", green, rep.Hall, rep.From, rep.To, rep.Samples, reset)

	if err := writeReport(rep); err != nil {
		log.Fatal(err)
	}
	runExports(rep, p)
}

// writeReport 把報表本体寫到 stdout 或 -out 指定的檔案。
func writeReport(rep *hikone.Report) error {
	var w io.Writer = os.Stdout
	if cfg.out != "" {
		f, err := os.Create(cfg.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	var render hikone.ReportRender
	switch cfg.format {
	case "json":
		render = &hikone.JsonReportRender{}
	default:
		render = &hikone.TextReportRender{}
	}
	return render.Write(w, rep)
}

// runExports 依 flags 執行 CSV / xlsx / chart 匯出，帶進度條。
func runExports(rep *hikone.Report, p *message.Printer) {
	type task struct {
		name string
		run  func() error
	}
	var tasks []task

	if cfg.csvPath != "" {
		tasks = append(tasks, task{cfg.csvPath, func() error {
			f, err := os.Create(cfg.csvPath)
			if err != nil {
				return err
			}
			defer f.Close()
			return export.WriteRankingCSV(f, rep.Ranking)
		}})
	}
	if cfg.xlsxPath != "" {
		tasks = append(tasks, task{cfg.xlsxPath, func() error {
			return export.SaveWorkbook(cfg.xlsxPath, rep)
		}})
	}
	if cfg.chartDir != "" {
		avgDiff := func(r metrics.Row) float64 { return float64(r.AvgDiff) }
		daily := filepath.Join(cfg.chartDir, "daily_avg_diff.png")
		digit := filepath.Join(cfg.chartDir, "day_digit_avg_diff.png")
		tasks = append(tasks,
			task{daily, func() error {
				return charts.SaveTrendLine(daily, "Daily Avg Diff", "avg diff (medals)", charts.TableRows(rep.Daily, avgDiff))
			}},
			task{digit, func() error {
				return charts.SaveBars(digit, "Avg Diff by Day Digit", "avg diff (medals)", charts.TableRows(rep.DayDigit, avgDiff))
			}},
		)
	}
	if len(tasks) == 0 {
		return
	}

	bar := pb.StartNew(len(tasks))
	if cfg.quiet {
		bar.SetWriter(io.Discard)
	}
	for _, t := range tasks {
		if err := t.run(); err != nil {
			bar.Finish()
			log.Fatalf("export %s : %v", t.name, err)
		}
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	p.Printf("%d exports in %v\n", len(tasks), used.Round(time.Millisecond))
}

func (cfg *config) valid() {
	// 輸出格式檢查
	if cfg.format != "text" && cfg.format != "json" {
		log.Fatal("value err : format must be text or json")
	}

	// 日期與末尾數字解析，失敗直接停
	f := dataset.Filter{Zorome: cfg.zorome}
	var err error
	if cfg.from != "" {
		if f.From, err = dataset.ParseDate(cfg.from); err != nil {
			log.Fatal("value err : from must be a date like 2006-01-02")
		}
	}
	if cfg.to != "" {
		if f.To, err = dataset.ParseDate(cfg.to); err != nil {
			log.Fatal("value err : to must be a date like 2006-01-02")
		}
	}
	for _, s := range strings.Split(cfg.digits, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		d, err := strconv.Atoi(s)
		if err != nil || d < 0 || d > 9 {
			log.Fatal("value err : digits must be 0~9, comma separated")
		}
		f.DayDigits = append(f.DayDigits, d)
	}
	if cfg.model != "" {
		f.Models = []string{cfg.model}
	}
	cfg.filter = f

	// chart 輸出先確保目錄存在
	if cfg.chartDir != "" {
		if err := os.MkdirAll(cfg.chartDir, 0o755); err != nil {
			log.Fatal(fmt.Errorf("charts dir : %w", err))
		}
	}
}
