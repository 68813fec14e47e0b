package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

func TestWriteTicketsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "ticket_stats.xlsx")
	rows := []model.TicketReportRow{
		{TicketID: 1, FullName: "John Doe", MovieTitle: "Фильм 1", SeatNumber: "1-1", PurchaseDate: "2024-11-20"},
		{TicketID: 4, FullName: "Admin User", MovieTitle: "Фильм 2", SeatNumber: "5-10", PurchaseDate: "2024-11-21"},
	}

	if err := WriteTicketsXLSX(path, rows); err != nil {
		t.Fatalf("WriteTicketsXLSX() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3 (header + 2)", len(got))
	}
	if got[0][0] != "Ticket ID" || got[0][4] != "Purchase date" {
		t.Errorf("header = %v", got[0])
	}
	want := []string{"4", "Admin User", "Фильм 2", "5-10", "2024-11-21"}
	for i, v := range want {
		if got[2][i] != v {
			t.Errorf("row 2 col %d = %q, want %q", i, got[2][i], v)
		}
	}
}

func TestWriteTicketsXLSXEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := WriteTicketsXLSX(path, nil); err != nil {
		t.Fatalf("WriteTicketsXLSX() error = %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()
	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("rows = %d, want header only", len(got))
	}
}

func TestWriteTicketsXLSXConcurrent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ticket_stats.xlsx")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for n := 1; n <= 8; n++ {
		rows := make([]model.TicketReportRow, n*20)
		for i := range rows {
			rows[i] = model.TicketReportRow{TicketID: uint64(i + 1), FullName: fmt.Sprintf("User %d", i), MovieTitle: "M", SeatNumber: "1-1", PurchaseDate: "2024-11-20"}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- WriteTicketsXLSX(path, rows)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("WriteTicketsXLSX() error = %v", err)
		}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()
	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if n := len(got) - 1; n%20 != 0 || n < 20 || n > 160 {
		t.Errorf("data rows = %d, want one complete export", n)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}
