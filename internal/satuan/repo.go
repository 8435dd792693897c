package satuan

import (
	"context"

	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns active units ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]models.MasterSatuan, error) {
	var rows []models.MasterSatuan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("nama ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, row *models.MasterSatuan) error {
	return r.db.WithContext(ctx).Create(row).Error
}
