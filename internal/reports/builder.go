package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/sekolah-terpadu/inventaris-backend/internal/obat"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
)

const (
	documentTitle = "Laporan Inventaris Sekolah"
	displayDate   = "2/1/2006"
	emptyValue    = "-"

	sheetSummary   = "Ringkasan"
	sheetMedicine  = "Obat-obatan"
	sheetInventory = "Data Inventaris"
	sheetCondition = "Kondisi Barang"
)

// BuildInput carries the rows and labels for one report.
type BuildInput struct {
	Type        enums.ReportType
	Period      string
	GeneratedAt time.Time
	// Today is the calendar date used to classify medicine status.
	Today     time.Time
	Location  *time.Location
	Items     []models.Inventaris
	Medicines []models.Obat
}

// Build assembles the sections for the requested report type.
func Build(in BuildInput) Document {
	if in.Location == nil {
		in.Location = time.UTC
	}
	doc := Document{
		Title:       documentTitle,
		Period:      in.Period,
		GeneratedAt: in.GeneratedAt,
	}

	switch in.Type {
	case enums.ReportTypeMedicine:
		doc.Sections = []Section{medicineSection(in)}
	case enums.ReportTypeInventory:
		doc.Sections = []Section{inventorySection(in)}
	case enums.ReportTypeCondition:
		doc.Sections = []Section{conditionSection(in)}
	case enums.ReportTypeAll:
		doc.Sections = []Section{
			summarySection(in),
			medicineSection(in),
			inventorySection(in),
			conditionSection(in),
		}
	default:
		doc.Sections = []Section{summarySection(in), medicineSection(in)}
	}
	return doc
}

func summarySection(in BuildInput) Section {
	stats := ComputeStats(in.Items, in.Medicines)
	columns := []Column{
		{Header: "Keterangan", Align: AlignLeft, Weight: 3},
		{Header: "Jumlah", Align: AlignRight, Weight: 1},
	}

	overview := Table{
		Title:   "RINGKASAN STATISTIK",
		Columns: columns,
		Rows: [][]Cell{
			{TextCell("Total Inventaris"), IntCell(stats.TotalInventaris)},
			{TextCell("Total Obat-obatan"), IntCell(stats.TotalObat)},
			{TextCell("Barang Rusak"), IntCell(stats.DamagedItemsCount)},
			{TextCell("Stok Obat Menipis"), IntCell(stats.LowStockCount)},
		},
	}

	kategori := Table{Title: "DISTRIBUSI KATEGORI", Columns: columns}
	for _, k := range enums.AllKategori() {
		if total, ok := stats.KategoriInventaris[string(k)]; ok {
			kategori.Rows = append(kategori.Rows, []Cell{TextCell(string(k)), IntCell(total)})
		}
	}

	lokasi := Table{Title: "DISTRIBUSI LOKASI", Columns: columns}
	for _, l := range enums.AllLokasi() {
		if total, ok := stats.LokasiDistribution[string(l)]; ok {
			lokasi.Rows = append(lokasi.Rows, []Cell{TextCell(l.DisplayName()), IntCell(total)})
		}
	}

	kondisi := Table{Title: "KONDISI BARANG", Columns: columns}
	for _, k := range enums.AllKondisi() {
		if total, ok := stats.KondisiBarang[string(k)]; ok {
			kondisi.Rows = append(kondisi.Rows, []Cell{TextCell(string(k)), IntCell(total)})
		}
	}

	return Section{
		Name:   sheetSummary,
		Title:  "Ringkasan Statistik",
		Tables: []Table{overview, kategori, lokasi, kondisi},
	}
}

func medicineSection(in BuildInput) Section {
	rows := make([]models.Obat, len(in.Medicines))
	copy(rows, in.Medicines)
	sortMedicines(rows)

	table := Table{
		Columns: []Column{
			{Header: "Nama Obat", Align: AlignLeft, Weight: 2.2},
			{Header: "Stok", Align: AlignRight, Weight: 0.8},
			{Header: "Satuan", Align: AlignLeft},
			{Header: "Lokasi", Align: AlignCenter, Weight: 0.8},
			{Header: "Batas Minimal", Align: AlignRight},
			{Header: "Tanggal Kadaluarsa", Align: AlignCenter, Weight: 1.3},
			{Header: "Status", Align: AlignLeft, Weight: 1.8},
			{Header: "Terakhir Diperbarui", Align: AlignCenter, Weight: 1.3},
		},
	}
	for _, row := range rows {
		expiry := emptyValue
		if d := row.ExpiryDate(); d != nil {
			expiry = d.Format(displayDate)
		}
		table.Rows = append(table.Rows, []Cell{
			TextCell(row.NamaObat),
			IntCell(row.Jumlah),
			TextCell(orEmpty(row.Satuan)),
			TextCell(row.Lokasi.DisplayName()),
			IntCell(row.BatasMinimal),
			TextCell(expiry),
			TextCell(obat.Classify(row, in.Today).Label),
			TextCell(row.UpdatedAt.In(in.Location).Format(displayDate)),
		})
	}

	return Section{
		Name:         sheetMedicine,
		Title:        "Laporan Obat-obatan",
		Tables:       []Table{table},
		EmptyMessage: "Tidak ada data obat.",
	}
}

func inventorySection(in BuildInput) Section {
	table := Table{
		Columns: []Column{
			{Header: "Nama Barang", Align: AlignLeft, Weight: 2.2},
			{Header: "Kategori", Align: AlignLeft, Weight: 1.2},
			{Header: "Jumlah", Align: AlignRight, Weight: 0.8},
			{Header: "Lokasi", Align: AlignCenter, Weight: 0.8},
			{Header: "Kondisi", Align: AlignLeft},
			{Header: "Keterangan", Align: AlignLeft, Weight: 1.8},
			{Header: "Tanggal Input", Align: AlignCenter},
		},
	}
	for _, item := range in.Items {
		table.Rows = append(table.Rows, []Cell{
			TextCell(item.NamaBarang),
			TextCell(string(item.Kategori)),
			IntCell(item.Jumlah),
			TextCell(item.Lokasi.DisplayName()),
			TextCell(string(item.Kondisi)),
			TextCell(orEmpty(item.Keterangan)),
			TextCell(item.TanggalInput.In(in.Location).Format(displayDate)),
		})
	}

	return Section{
		Name:         sheetInventory,
		Title:        "Data Inventaris",
		Tables:       []Table{table},
		EmptyMessage: "Tidak ada data inventaris.",
	}
}

func conditionSection(in BuildInput) Section {
	table := Table{
		Columns: []Column{
			{Header: "Nama Barang", Align: AlignLeft, Weight: 2.2},
			{Header: "Kategori", Align: AlignLeft, Weight: 1.2},
			{Header: "Kondisi", Align: AlignLeft},
			{Header: "Jumlah", Align: AlignRight, Weight: 0.8},
			{Header: "Lokasi", Align: AlignCenter, Weight: 0.8},
			{Header: "Keterangan", Align: AlignLeft, Weight: 1.8},
			{Header: "Terakhir Diperbarui", Align: AlignCenter, Weight: 1.3},
		},
	}
	for _, item := range in.Items {
		if !item.Kondisi.NeedsAttention() {
			continue
		}
		table.Rows = append(table.Rows, []Cell{
			TextCell(item.NamaBarang),
			TextCell(string(item.Kategori)),
			TextCell(string(item.Kondisi)),
			IntCell(item.Jumlah),
			TextCell(item.Lokasi.DisplayName()),
			TextCell(orEmpty(item.Keterangan)),
			TextCell(item.UpdatedAt.In(in.Location).Format(displayDate)),
		})
	}

	return Section{
		Name:         sheetCondition,
		Title:        "Barang yang Perlu Perhatian",
		Tables:       []Table{table},
		EmptyMessage: "Tidak ada barang yang perlu perhatian.",
	}
}

// sortMedicines orders by location display order, then name ignoring case.
func sortMedicines(rows []models.Obat) {
	sort.SliceStable(rows, func(i, j int) bool {
		oi, oj := rows[i].Lokasi.Order(), rows[j].Lokasi.Order()
		if oi != oj {
			return oi < oj
		}
		return strings.ToLower(rows[i].NamaObat) < strings.ToLower(rows[j].NamaObat)
	})
}

func orEmpty(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return emptyValue
	}
	return *s
}

// FileName is laporan-<type>-<YYYY-MM-DD>.<ext>, dated in loc.
func FileName(reportType enums.ReportType, format enums.ReportFormat, at time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return "laporan-" + string(reportType) + "-" + at.In(loc).Format("2006-01-02") + "." + string(format)
}
