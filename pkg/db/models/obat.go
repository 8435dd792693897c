package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultBatasMinimal is the low-stock threshold applied when none is given.
const DefaultBatasMinimal = 5

// Obat is a medicine stock record. Jumlah never goes below zero; every
// decrement is mirrored by a RiwayatObat row.
type Obat struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	NamaObat          string          `gorm:"column:nama_obat;not null"`
	Jumlah            int             `gorm:"column:jumlah;not null;default:0"`
	Lokasi            enums.Lokasi    `gorm:"column:lokasi;type:text;not null"`
	Satuan            *string         `gorm:"column:satuan"`
	TanggalKadaluarsa *datatypes.Date `gorm:"column:tanggal_kadaluarsa;type:date"`
	BatasMinimal      int             `gorm:"column:batas_minimal;not null;default:5"`
	Keterangan        *string         `gorm:"column:keterangan"`
	TanggalInput      time.Time       `gorm:"column:tanggal_input;not null"`
	CreatedByUserID   *uuid.UUID      `gorm:"column:created_by_user_id;type:uuid"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt         gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (Obat) TableName() string { return "obat" }

func (o *Obat) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.TanggalInput.IsZero() {
		o.TanggalInput = time.Now().UTC()
	}
	if o.BatasMinimal <= 0 {
		o.BatasMinimal = DefaultBatasMinimal
	}
	return nil
}

// ExpiryDate returns the expiry as a time at UTC midnight, or nil.
func (o Obat) ExpiryDate() *time.Time {
	if o.TanggalKadaluarsa == nil {
		return nil
	}
	t := time.Time(*o.TanggalKadaluarsa)
	y, m, d := t.Date()
	out := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &out
}

// NewDate truncates t to a calendar date stored at UTC midnight.
func NewDate(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
