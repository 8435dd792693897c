package obat

import (
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/internal/ledger"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
)

const dateLayout = "2006-01-02"

// ObatDTO is the API shape of a medicine.
type ObatDTO struct {
	ID                uuid.UUID    `json:"id"`
	NamaObat          string       `json:"nama_obat"`
	Jumlah            int          `json:"jumlah"`
	Lokasi            enums.Lokasi `json:"lokasi"`
	Satuan            *string      `json:"satuan,omitempty"`
	TanggalKadaluarsa *string      `json:"tanggal_kadaluarsa"`
	BatasMinimal      int          `json:"batas_minimal"`
	Keterangan        *string      `json:"keterangan,omitempty"`
	TanggalInput      time.Time    `json:"tanggal_input"`
	CreatedByUserID   *uuid.UUID   `json:"created_by_user_id,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	Status            StockStatus  `json:"status"`
}

// CreateInput is the body of POST /api/obat.
type CreateInput struct {
	NamaObat          string  `json:"nama_obat" validate:"required,max=255"`
	Jumlah            *int    `json:"jumlah" validate:"required,gte=0"`
	Lokasi            string  `json:"lokasi" validate:"required,oneof=PAUD TK SD SMP"`
	Satuan            *string `json:"satuan" validate:"omitempty,max=50"`
	TanggalKadaluarsa *string `json:"tanggal_kadaluarsa" validate:"omitempty,datetime=2006-01-02"`
	BatasMinimal      *int    `json:"batas_minimal" validate:"omitempty,gte=1"`
	Keterangan        *string `json:"keterangan"`
}

// UpdateInput replaces every editable field; jumlah may be corrected directly.
type UpdateInput = CreateInput

// UsageInput is the body of POST /api/obat/usage.
type UsageInput struct {
	ObatID       uuid.UUID `json:"obat_id" validate:"required"`
	JumlahKeluar int       `json:"jumlah_keluar" validate:"required,gt=0"`
	Keterangan   string    `json:"keterangan" validate:"max=500"`
}

// UsageResult carries the updated medicine and the ledger entry written for it.
type UsageResult struct {
	Obat    ObatDTO         `json:"obat"`
	Riwayat ledger.EntryDTO `json:"riwayat"`
}

// SweptItem describes one row zeroed by the expiry sweep.
type SweptItem struct {
	ObatID            uuid.UUID    `json:"obat_id"`
	NamaObat          string       `json:"nama_obat"`
	Lokasi            enums.Lokasi `json:"lokasi"`
	JumlahDihapus     int          `json:"jumlah_dihapus"`
	TanggalKadaluarsa string       `json:"tanggal_kadaluarsa"`
}

// SweepResult summarises one sweep run.
type SweepResult struct {
	Processed    int         `json:"processed"`
	UnitsRemoved int         `json:"units_removed"`
	Items        []SweptItem `json:"items"`
}

// FromModel maps a row and classifies it as of today.
func FromModel(row models.Obat, today time.Time) ObatDTO {
	dto := ObatDTO{
		ID:              row.ID,
		NamaObat:        row.NamaObat,
		Jumlah:          row.Jumlah,
		Lokasi:          row.Lokasi,
		Satuan:          row.Satuan,
		BatasMinimal:    row.BatasMinimal,
		Keterangan:      row.Keterangan,
		TanggalInput:    row.TanggalInput.UTC(),
		CreatedByUserID: row.CreatedByUserID,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
		Status:          Classify(row, today),
	}
	if expiry := row.ExpiryDate(); expiry != nil {
		formatted := expiry.Format(dateLayout)
		dto.TanggalKadaluarsa = &formatted
	}
	return dto
}
