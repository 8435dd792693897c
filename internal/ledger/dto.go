package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
)

// EntryDTO is the API shape of a ledger row.
type EntryDTO struct {
	ID              uuid.UUID          `json:"id"`
	ObatID          uuid.UUID          `json:"obat_id"`
	NamaObat        string             `json:"nama_obat,omitempty"`
	Lokasi          enums.Lokasi       `json:"lokasi,omitempty"`
	Satuan          *string            `json:"satuan,omitempty"`
	JumlahKeluar    int                `json:"jumlah_keluar"`
	TanggalKeluar   time.Time          `json:"tanggal_keluar"`
	Keterangan      *string            `json:"keterangan,omitempty"`
	Jenis           enums.RiwayatJenis `json:"jenis"`
	CreatedByUserID *uuid.UUID         `json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

func fromRow(row EntryRow) EntryDTO {
	return EntryDTO{
		ID:              row.ID,
		ObatID:          row.ObatID,
		NamaObat:        row.NamaObat,
		Lokasi:          row.Lokasi,
		Satuan:          row.Satuan,
		JumlahKeluar:    row.JumlahKeluar,
		TanggalKeluar:   row.TanggalKeluar.UTC(),
		Keterangan:      row.Keterangan,
		Jenis:           row.Jenis,
		CreatedByUserID: row.CreatedByUserID,
		CreatedAt:       row.CreatedAt.UTC(),
	}
}

// FromModel maps a freshly recorded entry.
func FromModel(m models.RiwayatObat) EntryDTO {
	return EntryDTO{
		ID:              m.ID,
		ObatID:          m.ObatID,
		JumlahKeluar:    m.JumlahKeluar,
		TanggalKeluar:   m.TanggalKeluar.UTC(),
		Keterangan:      m.Keterangan,
		Jenis:           m.Jenis,
		CreatedByUserID: m.CreatedByUserID,
		CreatedAt:       m.CreatedAt.UTC(),
	}
}
