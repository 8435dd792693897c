package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MasterSatuan is a unit of measure offered when entering medicines.
type MasterSatuan struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Nama      string    `gorm:"column:nama;not null;uniqueIndex"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (MasterSatuan) TableName() string { return "master_satuan" }

func (m *MasterSatuan) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
