package inventaris

import (
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
)

// ItemDTO is the API shape of an inventory item.
type ItemDTO struct {
	ID              uuid.UUID      `json:"id"`
	NamaBarang      string         `json:"nama_barang"`
	Kategori        enums.Kategori `json:"kategori"`
	Jumlah          int            `json:"jumlah"`
	Lokasi          enums.Lokasi   `json:"lokasi"`
	Kondisi         enums.Kondisi  `json:"kondisi"`
	Keterangan      *string        `json:"keterangan,omitempty"`
	TanggalInput    time.Time      `json:"tanggal_input"`
	CreatedByUserID *uuid.UUID     `json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// CreateInput is the body of POST /api/inventaris and PUT /api/inventaris/item/{id}.
type CreateInput struct {
	NamaBarang string  `json:"nama_barang" validate:"required,max=255"`
	Kategori   string  `json:"kategori" validate:"required,oneof=Peralatan Perabot Elektronik Buku Obat-obatan"`
	Jumlah     *int    `json:"jumlah" validate:"required,gte=0"`
	Lokasi     string  `json:"lokasi" validate:"required,oneof=PAUD TK SD SMP"`
	Kondisi    string  `json:"kondisi" validate:"required"`
	Keterangan *string `json:"keterangan"`
}

type UpdateInput = CreateInput

func FromModel(row models.Inventaris) ItemDTO {
	return ItemDTO{
		ID:              row.ID,
		NamaBarang:      row.NamaBarang,
		Kategori:        row.Kategori,
		Jumlah:          row.Jumlah,
		Lokasi:          row.Lokasi,
		Kondisi:         row.Kondisi,
		Keterangan:      row.Keterangan,
		TanggalInput:    row.TanggalInput.UTC(),
		CreatedByUserID: row.CreatedByUserID,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
	}
}
