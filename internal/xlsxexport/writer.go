package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"taxpoint/internal/csvexport"
	"taxpoint/internal/domain"
)

const sheetName = "Orders"

// Write renders the orders as a single-sheet workbook and streams it to w.
// Column layout matches the CSV export.
func Write(w io.Writer, orders []domain.Order) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("xlsxexport.Write rename sheet: %w", err)
	}

	for col, name := range csvexport.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("xlsxexport.Write header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("xlsxexport.Write header: %w", err)
		}
	}

	for i := range orders {
		row := csvexport.OrderToRow(&orders[i])
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("xlsxexport.Write cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("xlsxexport.Write row %d: %w", i+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsxexport.Write flush: %w", err)
	}
	return nil
}
