package reports

import (
	"strconv"

	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
)

// Stats summarises the rows behind a report. Map keys are the raw enum
// values; display renaming happens only in rendered files.
type Stats struct {
	TotalInventaris    int            `json:"total_inventaris"`
	TotalObat          int            `json:"total_obat"`
	KondisiBarang      map[string]int `json:"kondisi_barang"`
	KategoriInventaris map[string]int `json:"kategori_inventaris"`
	LokasiDistribution map[string]int `json:"lokasi_distribution"`
	LowStockCount      int            `json:"low_stock_count"`
	DamagedItemsCount  int            `json:"damaged_items_count"`
}

// ComputeStats sums quantities per condition, category and location.
func ComputeStats(items []models.Inventaris, medicines []models.Obat) Stats {
	stats := Stats{
		KondisiBarang:      map[string]int{},
		KategoriInventaris: map[string]int{},
		LokasiDistribution: map[string]int{},
	}
	for _, item := range items {
		stats.TotalInventaris += item.Jumlah
		stats.KondisiBarang[string(item.Kondisi)] += item.Jumlah
		stats.KategoriInventaris[string(item.Kategori)] += item.Jumlah
		stats.LokasiDistribution[string(item.Lokasi)] += item.Jumlah
		if item.Kondisi == enums.KondisiRusakBerat {
			stats.DamagedItemsCount++
		}
	}
	for _, m := range medicines {
		stats.TotalObat += m.Jumlah
		stats.LokasiDistribution[string(m.Lokasi)] += m.Jumlah
		if m.Jumlah <= m.BatasMinimal {
			stats.LowStockCount++
		}
	}
	return stats
}

// inventarisGroup is one kondisi/kategori/lokasi bucket of live items.
type inventarisGroup struct {
	Kondisi  enums.Kondisi  `gorm:"column:kondisi"`
	Kategori enums.Kategori `gorm:"column:kategori"`
	Lokasi   enums.Lokasi   `gorm:"column:lokasi"`
	Total    int            `gorm:"column:total"`
	RowCount int            `gorm:"column:row_count"`
}

type obatGroup struct {
	Lokasi   enums.Lokasi `gorm:"column:lokasi"`
	Total    int          `gorm:"column:total"`
	LowStock int          `gorm:"column:low_stock"`
}

// statsFromGroups folds pre-aggregated buckets into the same Stats that
// ComputeStats derives from full rows.
func statsFromGroups(items []inventarisGroup, medicines []obatGroup) Stats {
	stats := Stats{
		KondisiBarang:      map[string]int{},
		KategoriInventaris: map[string]int{},
		LokasiDistribution: map[string]int{},
	}
	for _, g := range items {
		stats.TotalInventaris += g.Total
		stats.KondisiBarang[string(g.Kondisi)] += g.Total
		stats.KategoriInventaris[string(g.Kategori)] += g.Total
		stats.LokasiDistribution[string(g.Lokasi)] += g.Total
		if g.Kondisi == enums.KondisiRusakBerat {
			stats.DamagedItemsCount += g.RowCount
		}
	}
	for _, g := range medicines {
		stats.TotalObat += g.Total
		stats.LokasiDistribution[string(g.Lokasi)] += g.Total
		stats.LowStockCount += g.LowStock
	}
	return stats
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
