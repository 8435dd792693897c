package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	"gorm.io/gorm"
)

// RiwayatObat is an append-only record of stock leaving a medicine, either
// through recorded usage or the expiry sweep.
type RiwayatObat struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ObatID          uuid.UUID          `gorm:"column:obat_id;type:uuid;not null"`
	JumlahKeluar    int                `gorm:"column:jumlah_keluar;not null"`
	TanggalKeluar   time.Time          `gorm:"column:tanggal_keluar;not null"`
	Keterangan      *string            `gorm:"column:keterangan"`
	Jenis           enums.RiwayatJenis `gorm:"column:jenis;type:text;not null"`
	CreatedByUserID *uuid.UUID         `gorm:"column:created_by_user_id;type:uuid"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (RiwayatObat) TableName() string { return "riwayat_obat" }

func (r *RiwayatObat) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.TanggalKeluar.IsZero() {
		r.TanggalKeluar = time.Now().UTC()
	}
	return nil
}
