package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin   = 15.0
	tableWidth   = 180.0
	headerHeight = 8.0
	rowHeight    = 7.0
)

// buildPDF assembles the paginated PDF variant of the document
func (b *Builder) buildPDF(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")

	font := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if b.fontPath != "" {
		pdf.AddUTF8Font("report", "", b.fontPath)
		pdf.AddUTF8Font("report", "B", b.fontPath)
		pdf.AddUTF8Font("report", "I", b.fontPath)
		font = "report"
		tr = func(s string) string { return s }
	}

	// Watermark under the content of every page; a missing watermark is
	// logged at load time and the report simply renders without one
	if b.watermark != nil {
		pdf.RegisterImageOptionsReader("watermark",
			fpdf.ImageOptions{ImageType: "PNG"},
			bytes.NewReader(b.watermark.pngData))
		pdf.SetHeaderFuncMode(func() {
			pdf.SetAlpha(b.watermark.Opacity, "Normal")
			pdf.ImageOptions("watermark", 45, 90, 120, 0, false,
				fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			pdf.SetAlpha(1, "Normal")
		}, true)
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(font, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Title block
	pdf.SetFont(font, "B", 18)
	pdf.CellFormat(0, 12, tr(doc.Title), "", 1, "C", false, 0, "")

	pdf.SetFont(font, "", 10)
	pdf.CellFormat(0, 6, tr("Generated on "+doc.GeneratedAt.Format("2006-01-02")),
		"", 1, "C", false, 0, "")

	if doc.Description != "" {
		pdf.Ln(2)
		pdf.SetFont(font, "", 11)
		pdf.MultiCell(0, 6, tr(doc.Description), "", "L", false)
	}
	pdf.Ln(4)

	widths := columnWidths(doc.Columns)

	// Header row
	pdf.SetFont(font, "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range doc.Columns {
		pdf.CellFormat(widths[i], headerHeight, tr(col.Header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Data rows
	pdf.SetFont(font, "", 9)
	for _, rec := range doc.Records {
		for i, col := range doc.Columns {
			align := "L"
			if col.Numeric {
				align = "R"
			}
			pdf.CellFormat(widths[i], rowHeight, tr(cellText(rec[col.Key])), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Total line
	pdf.SetFont(font, "B", 10)
	pdf.CellFormat(tableWidth, headerHeight,
		tr("Total: "+b.FormatAmount(doc.Total())), "", 1, "R", false, 0, "")

	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrExportGeneration, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGeneration, err)
	}
	return buf.Bytes(), nil
}

// columnWidths honors explicit widths and distributes the remaining table
// width evenly across the rest
func columnWidths(columns []Column) []float64 {
	widths := make([]float64, len(columns))
	remaining := tableWidth
	unsized := 0
	for i, col := range columns {
		if col.Width > 0 {
			widths[i] = col.Width
			remaining -= col.Width
		} else {
			unsized++
		}
	}
	if unsized > 0 {
		share := remaining / float64(unsized)
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}
