package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/jobbook/internal/models"
)

const (
	ClientsSheet     = "Clients"
	XLSXContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultSheetName = "Sheet1"
)

var clientHeader = []any{"ID", "Name", "Phone", "Email", "Address", "Notes"}

// WriteClientsXLSX writes the address book as a single-sheet workbook with a
// bold header row.
func WriteClientsXLSX(w io.Writer, clients []*models.Client) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheetName, ClientsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(ClientsSheet, "A1", &clientHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(ClientsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, c := range clients {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{c.ID, c.Name, c.Phone, c.Email, c.Address, c.Notes}
		if err := f.SetSheetRow(ClientsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write client %d: %w", c.ID, err)
		}
	}

	if err := f.SetColWidth(ClientsSheet, "B", "F", 24); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
