package reports

import (
	"context"

	"github.com/sekolah-terpadu/inventaris-backend/internal/repo"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository loads the live rows behind a report.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

// ListInventaris returns at most limit rows, newest first. A limit of zero
// or less means no limit.
func (r *Repository) ListInventaris(ctx context.Context, locations []string, limit int) ([]models.Inventaris, error) {
	var rows []models.Inventaris
	q := r.base.Scoped(ctx, &models.Inventaris{}, locations).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *Repository) ListObat(ctx context.Context, locations []string, limit int) ([]models.Obat, error) {
	var rows []models.Obat
	q := r.base.Scoped(ctx, &models.Obat{}, locations).Order("nama_obat ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *Repository) InventarisGroups(ctx context.Context, locations []string) ([]inventarisGroup, error) {
	var rows []inventarisGroup
	err := r.base.Scoped(ctx, &models.Inventaris{}, locations).
		Select("kondisi, kategori, lokasi, COALESCE(SUM(jumlah), 0) AS total, COUNT(*) AS row_count").
		Group("kondisi, kategori, lokasi").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) ObatGroups(ctx context.Context, locations []string) ([]obatGroup, error) {
	var rows []obatGroup
	err := r.base.Scoped(ctx, &models.Obat{}, locations).
		Select("lokasi, COALESCE(SUM(jumlah), 0) AS total, " +
			"COALESCE(SUM(CASE WHEN jumlah <= batas_minimal THEN 1 ELSE 0 END), 0) AS low_stock").
		Group("lokasi").
		Scan(&rows).Error
	return rows, err
}
