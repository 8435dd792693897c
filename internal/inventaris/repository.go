package inventaris

import (
	"context"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/internal/repo"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists inventory rows constrained to visible locations.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, row *models.Inventaris) error {
	return r.base.DB(ctx).Create(row).Error
}

func (r *Repository) FindScoped(ctx context.Context, id uuid.UUID, locations []string) (*models.Inventaris, error) {
	var row models.Inventaris
	if err := r.base.Scoped(ctx, &models.Inventaris{}, locations).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Exists reports whether a live row with id exists in any location.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.base.DB(ctx).Model(&models.Inventaris{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns live rows in the given locations, newest first.
func (r *Repository) List(ctx context.Context, locations []string) ([]models.Inventaris, error) {
	var rows []models.Inventaris
	err := r.base.Scoped(ctx, &models.Inventaris{}, locations).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Save(ctx context.Context, row *models.Inventaris) error {
	return r.base.DB(ctx).
		Model(row).
		Select("nama_barang", "kategori", "jumlah", "lokasi", "kondisi", "keterangan", "updated_at").
		Updates(row).Error
}

func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, locations []string) (bool, error) {
	res := r.base.DB(ctx).
		Where("id = ? AND lokasi IN ?", id, locations).
		Delete(&models.Inventaris{})
	return res.RowsAffected > 0, res.Error
}
