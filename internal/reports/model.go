package reports

import "time"

// Align is the horizontal alignment of a column.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// CellKind decides how a renderer writes a cell. Int cells are typed as
// numbers in spreadsheets.
type CellKind int

const (
	CellText CellKind = iota
	CellInt
)

type Cell struct {
	Kind CellKind
	Text string
	Int  int
}

func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

func IntCell(v int) Cell { return Cell{Kind: CellInt, Int: v} }

// String is the display form used by the PDF renderer.
func (c Cell) String() string {
	if c.Kind == CellInt {
		return itoa(c.Int)
	}
	return c.Text
}

// Value is the typed form used by the spreadsheet renderer.
func (c Cell) Value() any {
	if c.Kind == CellInt {
		return c.Int
	}
	return c.Text
}

type Column struct {
	Header string
	Align  Align
	// Weight is the share of the page width; zero counts as 1.
	Weight float64
}

type Table struct {
	Title   string
	Columns []Column
	Rows    [][]Cell
}

// Section is one titled block of a report. Spreadsheets render each section
// on its own sheet named Name.
type Section struct {
	Name         string
	Title        string
	Tables       []Table
	EmptyMessage string
}

// IsEmpty reports whether no table in the section has rows.
func (s Section) IsEmpty() bool {
	for _, t := range s.Tables {
		if len(t.Rows) > 0 {
			return false
		}
	}
	return true
}

// Document is a renderer-independent report.
type Document struct {
	Title       string
	Period      string
	GeneratedAt time.Time
	Sections    []Section
}
