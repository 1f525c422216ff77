package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/revcast/fault"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // Column name for dates (default: "date", falls back to "ds")
	ValueColumn string // Column name for values (default: "revenue")
	DateFormat  string // Preferred date layout (default: "2006-01-02")
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateColumn:  "date",
		ValueColumn: "revenue",
		DateFormat:  "2006-01-02",
		Delimiter:   ',',
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// LoadCSV loads a revenue series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	s, err := ReadCSV(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// ReadCSV reads a revenue series with a header row. Rows appear in file
// order; duplicates and gaps are left for the preparer. Empty, "NA", "NaN"
// and "null" cells become NaN.
func ReadCSV(r io.Reader, opts *CSVOptions) (*Series, error) {
	const op = "timeseries.ReadCSV"
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fault.Data(op, "empty input")
	}
	if err != nil {
		return nil, fault.Wrap(fault.ErrData, op, err, "reading header")
	}

	dateIdx, valueIdx := columnIndex(header, opts.DateColumn, "date", "ds"), columnIndex(header, opts.ValueColumn, "revenue")
	if valueIdx < 0 {
		return nil, fault.Data(op, "missing required value column %q", valueName(opts))
	}
	if dateIdx < 0 {
		return nil, fault.Data(op, "missing required date column %q", opts.DateColumn)
	}

	var (
		values     []float64
		timestamps []time.Time
		line       = 1
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fault.Wrap(fault.ErrData, op, err, fmt.Sprintf("line %d", line))
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if dateIdx >= len(record) {
			return nil, fault.Data(op, "line %d: missing date", line)
		}
		ts, err := parseDate(clean(record[dateIdx]), opts.DateFormat)
		if err != nil {
			return nil, fault.Data(op, "line %d: invalid date %q", line, record[dateIdx])
		}

		val := math.NaN()
		if valueIdx < len(record) {
			if raw := clean(record[valueIdx]); !isNull(raw) {
				val, err = strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, fault.Data(op, "line %d: invalid value %q", line, raw)
				}
			}
		}
		timestamps = append(timestamps, ts)
		values = append(values, val)
	}

	if len(values) == 0 {
		return nil, fault.Data(op, "no rows found")
	}
	return &Series{Timestamps: timestamps, Values: values, Name: valueName(opts)}, nil
}

// WriteCSV writes the series as date,revenue rows.
func WriteCSV(w io.Writer, s *Series) error {
	if len(s.Timestamps) != len(s.Values) {
		return errors.New("series has no timestamps")
	}
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if err := cw.Write([]string{"date", "revenue"}); err != nil {
		return err
	}
	for i, v := range s.Values {
		cell := ""
		if !math.IsNaN(v) {
			cell = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write([]string{s.Timestamps[i].Format("2006-01-02"), cell}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

func columnIndex(header []string, preferred string, fallbacks ...string) int {
	names := append([]string{preferred}, fallbacks...)
	for _, name := range names {
		if name == "" {
			continue
		}
		for i, h := range header {
			if strings.EqualFold(clean(h), name) {
				return i
			}
		}
	}
	return -1
}

func valueName(opts *CSVOptions) string {
	if opts.ValueColumn != "" {
		return opts.ValueColumn
	}
	return "revenue"
}

func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none":
		return true
	}
	return false
}

func parseDate(s, preferred string) (time.Time, error) {
	layouts := dateLayouts
	if preferred != "" {
		layouts = append([]string{preferred}, dateLayouts...)
	}
	var err error
	for _, layout := range layouts {
		var ts time.Time
		if ts, err = time.Parse(layout, s); err == nil {
			return Midnight(ts), nil
		}
	}
	return time.Time{}, err
}
