package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 12.0
	pdfRowHeight  = 6.0
	pdfFooterRoom = 15.0
	pdfFont       = "Helvetica"
)

// Renderer writes a Document in one file format.
type Renderer interface {
	Render(w io.Writer, doc Document) error
}

// PDFRenderer lays the document out on A4 portrait pages.
type PDFRenderer struct {
	Location *time.Location
}

func (r PDFRenderer) Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfFooterRoom)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfFooterRoom + 3)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, fmt.Sprintf("Halaman %d dari {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pdfMargin

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(contentW, 9, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	pdf.CellFormat(contentW, 6, tr("Periode: "+doc.Period), "", 1, "C", false, 0, "")
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	pdf.CellFormat(contentW, 6, "Tanggal: "+doc.GeneratedAt.In(loc).Format(displayDate), "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.Line(pdfMargin, pdf.GetY(), pageW-pdfMargin, pdf.GetY())
	pdf.Ln(4)

	for _, section := range doc.Sections {
		r.ensureRoom(pdf, 3*pdfRowHeight)
		pdf.SetFont(pdfFont, "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(contentW, 8, tr(section.Title), "", 1, "L", false, 0, "")

		if section.IsEmpty() && section.EmptyMessage != "" {
			pdf.SetFont(pdfFont, "I", 10)
			pdf.CellFormat(contentW, pdfRowHeight, tr(section.EmptyMessage), "", 1, "L", false, 0, "")
			pdf.Ln(4)
			continue
		}
		for _, table := range section.Tables {
			r.writeTable(pdf, tr, table, contentW)
			pdf.Ln(4)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}

func (r PDFRenderer) writeTable(pdf *fpdf.Fpdf, tr func(string) string, table Table, contentW float64) {
	widths := columnWidths(table.Columns, contentW)

	if table.Title != "" {
		r.ensureRoom(pdf, 2*pdfRowHeight)
		pdf.SetFont(pdfFont, "B", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(contentW, pdfRowHeight, tr(table.Title), "", 1, "L", false, 0, "")
	}

	header := func() {
		pdf.SetFont(pdfFont, "B", 8)
		pdf.SetFillColor(41, 98, 255)
		pdf.SetTextColor(255, 255, 255)
		for i, col := range table.Columns {
			pdf.CellFormat(widths[i], pdfRowHeight+1, tr(col.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(pdfFont, "", 8)
		pdf.SetTextColor(0, 0, 0)
	}

	r.ensureRoom(pdf, 2*pdfRowHeight)
	header()
	for n, row := range table.Rows {
		if r.ensureRoom(pdf, pdfRowHeight) {
			header()
		}
		fill := n%2 == 1
		pdf.SetFillColor(243, 246, 252)
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			text := fitText(pdf, tr(cell.String()), widths[i]-2)
			pdf.CellFormat(widths[i], pdfRowHeight, text, "1", 0, string(table.Columns[i].Align), fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

// ensureRoom starts a new page when fewer than h millimetres remain above
// the footer. It reports whether a page was added.
func (r PDFRenderer) ensureRoom(pdf *fpdf.Fpdf, h float64) bool {
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+h <= pageH-pdfFooterRoom {
		return false
	}
	pdf.AddPage()
	return true
}

func columnWidths(cols []Column, total float64) []float64 {
	var sum float64
	for _, c := range cols {
		sum += weight(c)
	}
	out := make([]float64, len(cols))
	if sum == 0 {
		return out
	}
	for i, c := range cols {
		out[i] = total * weight(c) / sum
	}
	return out
}

func weight(c Column) float64 {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}

// fitText trims s with an ellipsis until it fits in width. s is already
// translated to the single-byte font encoding.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for cut := len(s) - 1; cut > 0; cut-- {
		candidate := s[:cut] + "..."
		if pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}
