package tabular

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	t.Parallel()

	data := []byte("name,price,currency\nGlicemia,\"18,50\",RON\nColesterol,25.00,RON\n")
	table, err := Read("prices.csv", data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(table.Headers) != 3 || table.Headers[0] != "name" {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0]["name"] != "Glicemia" || table.Rows[0]["price"] != "18,50" {
		t.Fatalf("unexpected first row: %v", table.Rows[0])
	}
}

func TestReadCSVStripsUTF8BOM(t *testing.T) {
	t.Parallel()

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,price\nGlicemia,18\n")...)
	table, err := Read("prices.csv", data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if table.Headers[0] != "name" {
		t.Fatalf("BOM leaked into header: %q", table.Headers[0])
	}
}

func TestReadCSVDecodesLatin1(t *testing.T) {
	t.Parallel()

	// "Pre\xE7" is not valid UTF-8; latin1 decodes 0xE7 to "ç".
	data := []byte("name,price\nPre\xE7 special,10\n")
	table, err := Read("prices.csv", data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if table.Rows[0]["name"] != "Preç special" {
		t.Fatalf("latin1 fallback failed: %q", table.Rows[0]["name"])
	}
}

func TestReadRejectsOversizedFile(t *testing.T) {
	t.Parallel()

	data := make([]byte, MaxFileSize+1)
	if _, err := Read("prices.csv", data); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestReadRejectsUnknownExtension(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"prices.pdf", "prices.txt", "prices", "prices.xls"} {
		if _, err := Read(name, []byte("name,price\n")); !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("expected ErrUnsupportedFormat for %q, got %v", name, err)
		}
	}
}

func TestReadRejectsHeaderlessFile(t *testing.T) {
	t.Parallel()

	if _, err := Read("prices.csv", []byte("")); !errors.Is(err, ErrNoHeaders) {
		t.Fatalf("expected ErrNoHeaders, got %v", err)
	}
}

func TestReadShortRowsPadEmpty(t *testing.T) {
	t.Parallel()

	data := []byte("name,price,currency\nGlicemia,18\n")
	table, err := Read("prices.csv", data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := table.Rows[0]["currency"]; got != "" {
		t.Fatalf("expected empty pad for missing column, got %q", got)
	}
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{"name", "price", "currency"}); err != nil {
		t.Fatalf("set header row: %v", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &[]any{"Glicemia", "18,50", "RON"}); err != nil {
		t.Fatalf("set data row: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	table, err := Read("prices.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0]["name"] != "Glicemia" {
		t.Fatalf("unexpected xlsx rows: %v", table.Rows)
	}
}

func TestReadXLSXGarbageRejected(t *testing.T) {
	t.Parallel()

	if _, err := Read("prices.xlsx", []byte("not an xlsx archive")); err == nil {
		t.Fatalf("expected error for corrupt xlsx")
	}
}
