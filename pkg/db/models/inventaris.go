package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	"gorm.io/gorm"
)

// Inventaris is a non-medicine asset held by a school unit.
type Inventaris struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	NamaBarang      string         `gorm:"column:nama_barang;not null"`
	Kategori        enums.Kategori `gorm:"column:kategori;type:text;not null"`
	Jumlah          int            `gorm:"column:jumlah;not null;default:0"`
	Lokasi          enums.Lokasi   `gorm:"column:lokasi;type:text;not null"`
	Kondisi         enums.Kondisi  `gorm:"column:kondisi;type:text;not null"`
	Keterangan      *string        `gorm:"column:keterangan"`
	TanggalInput    time.Time      `gorm:"column:tanggal_input;not null"`
	CreatedByUserID *uuid.UUID     `gorm:"column:created_by_user_id;type:uuid"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Inventaris) TableName() string { return "inventaris" }

func (i *Inventaris) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.TanggalInput.IsZero() {
		i.TanggalInput = time.Now().UTC()
	}
	return nil
}
