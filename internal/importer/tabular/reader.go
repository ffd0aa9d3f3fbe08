// Package tabular reads field-mapped rows out of uploaded price-list
// files. Guards (size ceiling, extension, encoding) run before any
// parsing so oversized or undecodable uploads are rejected cheaply.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// MaxFileSize is the hard input ceiling applied before parsing.
const MaxFileSize = 10 << 20 // 10MB

var (
	// ErrTooLarge is returned for uploads over MaxFileSize.
	ErrTooLarge = errors.New("file too large, maximum size is 10MB")
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("file must be a CSV or XLSX")
	// ErrUndecodable is returned when no supported encoding decodes the file.
	ErrUndecodable = errors.New("unable to decode file, expected UTF-8 compatible encoding")
	// ErrNoHeaders is returned for files without a header row.
	ErrNoHeaders = errors.New("no headers found in file")
)

// Table is a parsed upload: the header row plus every data row keyed by
// header name.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Read parses an uploaded price list. The format is picked from the file
// extension; CSV content tries utf-8, utf-8-sig, latin1 and cp1252 in
// that order.
func Read(filename string, data []byte) (Table, error) {
	if len(data) > MaxFileSize {
		return Table{}, ErrTooLarge
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(data)
	case ".xlsx":
		return readXLSX(data)
	default:
		return Table{}, ErrUnsupportedFormat
	}
}

func readCSV(data []byte) (Table, error) {
	text, err := decode(data)
	if err != nil {
		return Table{}, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	return buildTable(records)
}

func readXLSX(data []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrNoHeaders
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read xlsx rows: %w", err)
	}
	return buildTable(records)
}

func buildTable(records [][]string) (Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return Table{}, ErrNoHeaders
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	if allEmpty(headers) {
		return Table{}, ErrNoHeaders
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return Table{Headers: headers, Rows: rows}, nil
}

// decode mirrors the encoding fallback chain of provider exports seen in
// the wild: plain utf-8, BOM-prefixed utf-8, then the single-byte
// charsets. latin1 accepts every byte sequence, so cp1252 only documents
// intent.
func decode(data []byte) (string, error) {
	if bom := []byte{0xEF, 0xBB, 0xBF}; bytes.HasPrefix(data, bom) {
		data = data[len(bom):]
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), cm.NewDecoder()))
		if err == nil {
			return string(decoded), nil
		}
	}
	return "", ErrUndecodable
}

func allEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}
