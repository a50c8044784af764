package dataset

import (
	"context"

	"github.com/kg112500/dynam-hikone/errs"
	"github.com/xuri/excelize/v2"
)

// XLSXSource 讀 XLSX 工作簿的單一工作表。
// 店舗系統有時只給一本 Excel（データ / 機種変換 / 座標 三張表），
// 三個來源設定各指向同一個檔的不同 sheet 即可。
type XLSXSource struct {
	Path  string
	Sheet string
}

func (s *XLSXSource) Name() string { return s.Path + "#" + s.Sheet }

func (s *XLSXSource) Rows(_ context.Context) ([][]string, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, errs.Wrapf(err, "open workbook %s", s.Path)
	}
	defer f.Close()

	rows, err := f.GetRows(s.Sheet)
	if err != nil {
		return nil, errs.Wrapf(err, "read sheet %s of %s", s.Sheet, s.Path)
	}
	return rows, nil
}
