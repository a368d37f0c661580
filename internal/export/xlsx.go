package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// EnergyXLSX returns an XLSX workbook (as bytes) with one row per
// monthly record for the given year, same columns as the CSV export.
func (s *Service) EnergyXLSX(year int) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Consumi"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	defaultSheet := f.GetSheetName(0)
	if defaultSheet != sheet {
		_ = f.DeleteSheet(defaultSheet)
	}

	for i, h := range energyHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 2
	for _, meter := range s.store.Meters() {
		for _, rec := range s.store.Records(meter.ID, year) {
			y, m, ok := strings.Cut(rec.Month, "-")
			if !ok {
				continue
			}
			write(1, row, y)
			write(2, row, m)
			if rec.Electricity != nil {
				write(3, row, rec.Electricity.F1)
				write(4, row, rec.Electricity.F2)
				write(5, row, rec.Electricity.F3)
				write(6, row, rec.Electricity.ActivePower)
				write(7, row, rec.Electricity.PowerFactor)
				write(8, row, 0)
			} else if rec.Gas != nil {
				write(3, row, 0)
				write(4, row, 0)
				write(5, row, 0)
				write(6, row, 0)
				write(7, row, 0)
				write(8, row, rec.Gas.Volume)
			}
			write(9, row, flatten(rec.Note))
			row++
		}
	}

	// Widen the note column, keep the numeric ones compact
	_ = f.SetColWidth(sheet, "A", "B", 8)
	_ = f.SetColWidth(sheet, "C", "H", 14)
	_ = f.SetColWidth(sheet, "I", "I", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	s.logger.Info("energy xlsx export", "year", year, "rows", row-2)
	return buf.Bytes(), nil
}
