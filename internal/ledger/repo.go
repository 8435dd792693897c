package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository manages persistence for riwayat_obat rows. Rows are never
// updated or deleted.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.RiwayatObat) error
	List(ctx context.Context, locations []string, limit int, cursor *pagination.Cursor) ([]EntryRow, error)
	ListByObatID(ctx context.Context, obatID uuid.UUID) ([]models.RiwayatObat, error)
}

// EntryRow is a ledger row joined with the medicine it belongs to.
type EntryRow struct {
	ID              uuid.UUID          `gorm:"column:id"`
	ObatID          uuid.UUID          `gorm:"column:obat_id"`
	NamaObat        string             `gorm:"column:nama_obat"`
	Lokasi          enums.Lokasi       `gorm:"column:lokasi"`
	Satuan          *string            `gorm:"column:satuan"`
	JumlahKeluar    int                `gorm:"column:jumlah_keluar"`
	TanggalKeluar   time.Time          `gorm:"column:tanggal_keluar"`
	Keterangan      *string            `gorm:"column:keterangan"`
	Jenis           enums.RiwayatJenis `gorm:"column:jenis"`
	CreatedByUserID *uuid.UUID         `gorm:"column:created_by_user_id"`
	CreatedAt       time.Time          `gorm:"column:created_at"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.RiwayatObat) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns entries for medicines in the given locations, newest first.
// History of soft-deleted medicines stays visible.
func (r *repository) List(ctx context.Context, locations []string, limit int, cursor *pagination.Cursor) ([]EntryRow, error) {
	query := r.db.WithContext(ctx).
		Table("riwayat_obat AS r").
		Select(`r.id, r.obat_id, o.nama_obat, o.lokasi, o.satuan, r.jumlah_keluar,
			r.tanggal_keluar, r.keterangan, r.jenis, r.created_by_user_id, r.created_at`).
		Joins("JOIN obat AS o ON o.id = r.obat_id").
		Where("o.lokasi IN ?", locations)

	if cursor != nil {
		query = query.Where("(r.created_at < ?) OR (r.created_at = ? AND r.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []EntryRow
	if err := query.
		Order("r.created_at DESC").
		Order("r.id DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByObatID(ctx context.Context, obatID uuid.UUID) ([]models.RiwayatObat, error) {
	var entries []models.RiwayatObat
	if err := r.db.WithContext(ctx).
		Where("obat_id = ?", obatID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
