package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXRenderer writes one worksheet per section.
type XLSXRenderer struct {
	Location *time.Location
}

func (r XLSXRenderer) Render(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}

	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	for i, section := range doc.Sections {
		name := section.Name
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("xlsx: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx: new sheet %s: %w", name, err)
		}

		sw := sheetWriter{f: f, sheet: name, row: 1}
		sw.write(title, doc.Title)
		sw.write(0, "Periode: "+doc.Period)
		sw.write(0, "Tanggal: "+doc.GeneratedAt.In(loc).Format(displayDate))
		sw.row++
		sw.write(bold, section.Title)

		if section.IsEmpty() && section.EmptyMessage != "" {
			sw.write(0, section.EmptyMessage)
		} else {
			for _, table := range section.Tables {
				sw.table(bold, table)
				sw.row++
			}
		}
		if sw.err != nil {
			return fmt.Errorf("xlsx: sheet %s: %w", name, sw.err)
		}
		if err := f.SetColWidth(name, "A", "A", 32); err != nil {
			return fmt.Errorf("xlsx: column width: %w", err)
		}
		if err := f.SetColWidth(name, "B", "H", 18); err != nil {
			return fmt.Errorf("xlsx: column width: %w", err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

// sheetWriter appends rows to one sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

// write puts a single text cell on its own row. Style 0 leaves it plain.
func (sw *sheetWriter) write(style int, text string) {
	sw.setRow([]any{text}, style)
}

func (sw *sheetWriter) table(bold int, table Table) {
	if table.Title != "" {
		sw.setRow([]any{table.Title}, bold)
	}
	header := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Header
	}
	sw.setRow(header, bold)
	for _, row := range table.Rows {
		values := make([]any, len(row))
		for i, cell := range row {
			values[i] = cell.Value()
		}
		sw.setRow(values, 0)
	}
}

func (sw *sheetWriter) setRow(values []any, style int) {
	if sw.err != nil {
		return
	}
	start, err := excelize.CoordinatesToCellName(1, sw.row)
	if err != nil {
		sw.err = err
		return
	}
	if err := sw.f.SetSheetRow(sw.sheet, start, &values); err != nil {
		sw.err = err
		return
	}
	if style != 0 && len(values) > 0 {
		end, err := excelize.CoordinatesToCellName(len(values), sw.row)
		if err != nil {
			sw.err = err
			return
		}
		if err := sw.f.SetCellStyle(sw.sheet, start, end, style); err != nil {
			sw.err = err
			return
		}
	}
	sw.row++
}
