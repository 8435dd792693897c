package obat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/internal/repo"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists medicine rows. Every read and write takes the caller's
// visible locations except FindByID, which the sweep uses to re-read a row it
// already selected.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

func (r *Repository) Create(ctx context.Context, row *models.Obat) error {
	return r.base.DB(ctx).Create(row).Error
}

// FindScoped loads a live row by id when its lokasi is visible.
func (r *Repository) FindScoped(ctx context.Context, id uuid.UUID, locations []string) (*models.Obat, error) {
	var row models.Obat
	if err := r.base.Scoped(ctx, &models.Obat{}, locations).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByID loads a live row regardless of location.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Obat, error) {
	var row models.Obat
	if err := r.base.DB(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns live rows in the given locations, newest first.
func (r *Repository) List(ctx context.Context, locations []string) ([]models.Obat, error) {
	var rows []models.Obat
	err := r.base.Scoped(ctx, &models.Obat{}, locations).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// Save writes every editable column of an existing row.
func (r *Repository) Save(ctx context.Context, row *models.Obat) error {
	return r.base.DB(ctx).
		Model(row).
		Select("nama_obat", "jumlah", "lokasi", "satuan", "tanggal_kadaluarsa", "batas_minimal", "keterangan", "updated_at").
		Updates(row).Error
}

// SoftDelete marks the row deleted and reports whether it matched.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, locations []string) (bool, error) {
	res := r.base.DB(ctx).
		Where("id = ? AND lokasi IN ?", id, locations).
		Delete(&models.Obat{})
	return res.RowsAffected > 0, res.Error
}

// Decrement subtracts qty only while enough stock remains. Zero rows affected
// means another writer got there first.
func (r *Repository) Decrement(ctx context.Context, id uuid.UUID, locations []string, qty int, at time.Time) (int64, error) {
	res := r.base.Scoped(ctx, &models.Obat{}, locations).
		Where("id = ? AND jumlah >= ?", id, qty).
		Updates(map[string]any{
			"jumlah":     gorm.Expr("jumlah - ?", qty),
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

// ListExpired selects rows whose expiry date is before today and still hold
// stock.
func (r *Repository) ListExpired(ctx context.Context, locations []string, today time.Time) ([]models.Obat, error) {
	var rows []models.Obat
	err := r.base.Scoped(ctx, &models.Obat{}, locations).
		Where("tanggal_kadaluarsa IS NOT NULL AND tanggal_kadaluarsa < ? AND jumlah > 0", today).
		Order("tanggal_kadaluarsa ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// ZeroIfUnchanged sets jumlah to 0 when it still equals observed.
func (r *Repository) ZeroIfUnchanged(ctx context.Context, id uuid.UUID, observed int, at time.Time) (int64, error) {
	res := r.base.DB(ctx).
		Model(&models.Obat{}).
		Where("id = ? AND jumlah = ?", id, observed).
		Updates(map[string]any{
			"jumlah":     0,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}
