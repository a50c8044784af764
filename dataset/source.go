package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/kg112500/dynam-hikone/errs"
	"github.com/kg112500/dynam-hikone/hallcfg"
)

// Source 是一個表格來源：回傳含表頭的原始字串矩陣。
// 所有實作都必須尊重 ctx 的取消與逾時。
type Source interface {
	Name() string
	Rows(ctx context.Context) ([][]string, error)
}

// NewSource 依設定組出來源。url / path / workbook 同時存在時依序嘗試，
// 前者失敗才落到後者（遠端掛了就讀本地，原始營運流程就是這樣跑的）。
// 完全未設定回 nil，呼叫端自行走 unavailable 路徑。
func NewSource(s hallcfg.SourceSetting) Source {
	var chain []Source
	if s.URL != "" {
		chain = append(chain, &URLSource{URL: s.URL})
	}
	if s.Path != "" {
		chain = append(chain, &FileSource{Path: s.Path})
	}
	if s.Workbook != "" {
		chain = append(chain, &XLSXSource{Path: s.Workbook, Sheet: s.Sheet})
	}
	switch len(chain) {
	case 0:
		return nil
	case 1:
		return chain[0]
	default:
		return &FallbackSource{Chain: chain}
	}
}

// ============================================================
// ** 來源實作 **
// ============================================================

// URLSource 抓遠端 CSV（試算表的 export?format=csv endpoint）。
type URLSource struct {
	URL     string
	Client  *http.Client  // nil 用預設（30s timeout）
	Timeout time.Duration // 單次抓取上限，0 用 30s
}

func (s *URLSource) Name() string { return s.URL }

func (s *URLSource) Rows(ctx context.Context) ([][]string, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, errs.Wrap(err, "bad source url")
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.Wrapf(err, "fetch %s", s.URL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errs.Fatalf("fetch %s: status %d", s.URL, resp.StatusCode)
	}
	return readCSV(resp.Body)
}

// FileSource 讀本地 CSV 檔。
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return s.Path }

func (s *FileSource) Rows(_ context.Context) ([][]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errs.Wrapf(err, "open %s", s.Path)
	}
	defer f.Close()
	return readCSV(f)
}

// FSSource 從 fs.FS 讀 CSV，測試與內嵌資料用。
type FSSource struct {
	FS   fs.FS
	Path string
}

func (s *FSSource) Name() string { return s.Path }

func (s *FSSource) Rows(_ context.Context) ([][]string, error) {
	f, err := s.FS.Open(s.Path)
	if err != nil {
		return nil, errs.Wrapf(err, "open %s", s.Path)
	}
	defer f.Close()
	return readCSV(f)
}

// FallbackSource 依序嘗試多個來源，全滅才回錯（回最後一個錯）。
// 中途的失敗記 warn log 後繼續，不打斷。
type FallbackSource struct {
	Chain []Source
}

func (s *FallbackSource) Name() string {
	if len(s.Chain) > 0 {
		return s.Chain[0].Name()
	}
	return "(empty)"
}

func (s *FallbackSource) Rows(ctx context.Context) ([][]string, error) {
	var last error
	for _, src := range s.Chain {
		rows, err := src.Rows(ctx)
		if err == nil {
			return rows, nil
		}
		last = err
		slog.Warn("source failed, trying next", "source", src.Name(), "err", err)
	}
	if last == nil {
		last = errs.NewFatal("no sources configured")
	}
	return nil, last
}

// readCSV 用寬鬆模式解：列長不齊、引號亂用的營運匯出都照單全收。
func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errs.Wrap(err, "csv decode")
	}
	return rows, nil
}
