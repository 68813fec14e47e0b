// Package export writes the ticket statistics file handed to administrators.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// SheetName is the worksheet holding the report.
const SheetName = "Tickets"

// TicketHeader is the first row of the exported sheet.
var TicketHeader = []interface{}{"Ticket ID", "Full name", "Movie", "Seat", "Purchase date"}

// WriteTicketsXLSX writes one header row and one row per ticket to path,
// replacing any previous file.  Each call writes its own temporary file in
// the same directory and renames it into place, so concurrent exports never
// share a partial file.
func WriteTicketsXLSX(path string, rows []model.TicketReportRow) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &TicketHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{r.TicketID, r.FullName, r.MovieTitle, r.SeatNumber, r.PurchaseDate}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	return os.Rename(tmp.Name(), path)
}
