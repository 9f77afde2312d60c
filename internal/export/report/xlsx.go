package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// buildXLSX assembles the spreadsheet variant of the document
func (b *Builder) buildXLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	cols := len(doc.Columns)
	if cols == 0 {
		return nil, fmt.Errorf("%w: document has no columns", ErrExportGeneration)
	}

	lastCol, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGeneration, err)
	}

	// Title block
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGeneration, err)
	}
	f.SetCellValue(sheet, "A1", doc.Title)
	f.MergeCell(sheet, "A1", lastCol+"1")
	f.SetCellStyle(sheet, "A1", lastCol+"1", titleStyle)

	f.SetCellValue(sheet, "A2", "Generated on "+doc.GeneratedAt.Format("2006-01-02"))
	f.MergeCell(sheet, "A2", lastCol+"2")

	row := 3
	if doc.Description != "" {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), doc.Description)
		f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row))
		row++
	}
	row++

	// Header row
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGeneration, err)
	}
	for i, col := range doc.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExportGeneration, err)
		}
		f.SetCellValue(sheet, cell, col.Header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		if col.Width > 0 {
			name, _ := excelize.ColumnNumberToName(i + 1)
			f.SetColWidth(sheet, name, name, col.Width/4)
		}
	}
	row++

	// Data rows
	for _, rec := range doc.Records {
		for i, col := range doc.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrExportGeneration, err)
			}
			f.SetCellValue(sheet, cell, cellText(rec[col.Key]))
		}
		row++
	}

	// Total line across the full table width, right aligned
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGeneration, err)
	}
	totalCell := fmt.Sprintf("A%d", row)
	f.SetCellValue(sheet, totalCell, "Total: "+b.FormatAmount(doc.Total()))
	f.MergeCell(sheet, totalCell, fmt.Sprintf("%s%d", lastCol, row))
	f.SetCellStyle(sheet, totalCell, fmt.Sprintf("%s%d", lastCol, row), totalStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGeneration, err)
	}
	return buf.Bytes(), nil
}
