package reports

import (
	"bytes"
	"testing"

	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func findRow(rows [][]string, first string) int {
	for i, row := range rows {
		if len(row) > 0 && row[0] == first {
			return i
		}
	}
	return -1
}

func TestXLSXRendererSheets(t *testing.T) {
	doc := Build(buildInput(enums.ReportTypeAll))

	var buf bytes.Buffer
	require.NoError(t, XLSXRenderer{}.Render(&buf, doc))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Ringkasan", "Obat-obatan", "Data Inventaris", "Kondisi Barang"}, f.GetSheetList())

	rows, err := f.GetRows("Obat-obatan")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Laporan Inventaris Sekolah", rows[0][0])
	assert.Equal(t, "Periode: Bulan Ini", rows[1][0])
	assert.Equal(t, "Tanggal: 10/3/2026", rows[2][0])

	header := findRow(rows, "Nama Obat")
	require.GreaterOrEqual(t, header, 0)
	require.Greater(t, len(rows), header+4)
	assert.Equal(t, []string{"Oralit", "8", "sachet", "TBSD"}, rows[header+1][:4])

	summary, err := f.GetRows("Ringkasan")
	require.NoError(t, err)
	total := findRow(summary, "Total Inventaris")
	require.GreaterOrEqual(t, total, 0)
	assert.Equal(t, "25", summary[total][1])
}

func TestXLSXRendererEmptySection(t *testing.T) {
	in := buildInput(enums.ReportTypeCondition)
	in.Items = nil
	doc := Build(in)

	var buf bytes.Buffer
	require.NoError(t, XLSXRenderer{}.Render(&buf, doc))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Kondisi Barang")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, findRow(rows, "Tidak ada barang yang perlu perhatian."), 0)
	assert.Equal(t, -1, findRow(rows, "Nama Barang"))
}

func TestPDFRendererOutputsDocument(t *testing.T) {
	in := buildInput(enums.ReportTypeAll)
	for i := 0; i < 120; i++ {
		in.Medicines = append(in.Medicines, sampleMedicines()...)
	}
	doc := Build(in)

	var buf bytes.Buffer
	require.NoError(t, PDFRenderer{}.Render(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestColumnWidthsFillPage(t *testing.T) {
	widths := columnWidths([]Column{{Weight: 2}, {}, {Weight: 1}}, 100)
	assert.InDelta(t, 50, widths[0], 0.001)
	assert.InDelta(t, 25, widths[1], 0.001)
	assert.InDelta(t, 25, widths[2], 0.001)
}
