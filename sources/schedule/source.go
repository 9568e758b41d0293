package schedule

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrUnsupportedEncoding is returned for an unknown Options.Encoding.
var ErrUnsupportedEncoding = errors.New("unsupported schedule encoding")

// Options controls how the raw schedule file is read.
type Options struct {
	// Delimiter separates fields in text exports. Defaults to TAB.
	Delimiter rune
	// Encoding of text exports: "utf-8" (default), "macintosh" or "windows-1252".
	Encoding string
	// Sheet selects the worksheet of an .xlsx file. Defaults to the first one.
	Sheet string
	// Strip is removed verbatim from text exports before splitting fields.
	// It repairs exports where stray cells shifted the columns.
	Strip string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadRows reads every row of the schedule file at path. Workbook cells are
// returned unformatted, so date cells come back as Excel serial numbers.
func ReadRows(path string, opts Options) ([][]string, error) {
	return readRows(path, opts, -1)
}

// readRows converts numeric workbook cells at or after column dateFrom to
// DD.MM.YYYY. A negative dateFrom leaves every cell as stored.
func readRows(path string, opts Options, dateFrom int) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(path, opts.Sheet, dateFrom)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("schedule: open %s: %w", path, err)
		}
		defer f.Close()
		return ReadDelimited(f, opts)
	}
}

// ReadDelimited reads a delimited text export.
func ReadDelimited(r io.Reader, opts Options) ([][]string, error) {
	dec, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}
	if dec != nil {
		r = transform.NewReader(r, dec)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schedule: read: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	text := string(raw)
	if opts.Strip != "" {
		text = strings.ReplaceAll(text, opts.Strip, "")
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = opts.Delimiter
	if cr.Comma == 0 {
		cr.Comma = '\t'
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("schedule: parse: %w", err)
	}
	return rows, nil
}

func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "macintosh", "mac-roman", "macroman":
		return charmap.Macintosh.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
}

func readWorkbook(path, sheet string, dateFrom int) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("schedule: open workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("schedule: workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("schedule: read sheet %q: %w", sheet, err)
	}
	if dateFrom < 0 {
		return rows, nil
	}

	var date1904 bool
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	for _, row := range rows {
		for col := dateFrom; col < len(row); col++ {
			if d, ok := serialDate(row[col], date1904); ok {
				row[col] = FormatDate(d)
			}
		}
	}
	return rows, nil
}

// serialDate reads an Excel date serial such as "45352" or "45352.5".
func serialDate(cell string, date1904 bool) (time.Time, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || serial < 1 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
