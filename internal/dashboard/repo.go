package dashboard

import (
	"context"

	"github.com/sekolah-terpadu/inventaris-backend/internal/repo"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	"gorm.io/gorm"
)

type kategoriTotal struct {
	Kategori enums.Kategori `gorm:"column:kategori"`
	Total    int            `gorm:"column:total"`
}

// Repository runs the aggregate reads behind the dashboard.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

func (r *Repository) InventarisTotalsByKategori(ctx context.Context, locations []string) (map[enums.Kategori]int, error) {
	var rows []kategoriTotal
	err := r.base.Scoped(ctx, &models.Inventaris{}, locations).
		Select("kategori, COALESCE(SUM(jumlah), 0) AS total").
		Group("kategori").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[enums.Kategori]int, len(rows))
	for _, row := range rows {
		out[row.Kategori] = row.Total
	}
	return out, nil
}

func (r *Repository) TotalObat(ctx context.Context, locations []string) (int, error) {
	var total int
	err := r.base.Scoped(ctx, &models.Obat{}, locations).
		Select("COALESCE(SUM(jumlah), 0)").
		Scan(&total).Error
	return total, err
}

// ListObat returns every live medicine in locations by name.
func (r *Repository) ListObat(ctx context.Context, locations []string) ([]models.Obat, error) {
	var rows []models.Obat
	err := r.base.Scoped(ctx, &models.Obat{}, locations).
		Order("nama_obat ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ListInventarisByKondisi(ctx context.Context, locations []string, kondisi enums.Kondisi) ([]models.Inventaris, error) {
	var rows []models.Inventaris
	err := r.base.Scoped(ctx, &models.Inventaris{}, locations).
		Where("kondisi = ?", kondisi).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
