package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/dbtest"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ListJoinsAndScopes(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	sd := &models.Obat{NamaObat: "Paracetamol", Jumlah: 10, Lokasi: enums.LokasiSD}
	smp := &models.Obat{NamaObat: "Betadine", Jumlah: 4, Lokasi: enums.LokasiSMP}
	require.NoError(t, conn.Create(sd).Error)
	require.NoError(t, conn.Create(smp).Error)

	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := &models.RiwayatObat{
			ObatID:        sd.ID,
			JumlahKeluar:  i + 1,
			TanggalKeluar: base.Add(time.Duration(i) * time.Hour),
			Jenis:         enums.RiwayatJenisPemakaian,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.Create(ctx, entry))
	}
	require.NoError(t, repo.Create(ctx, &models.RiwayatObat{
		ObatID:        smp.ID,
		JumlahKeluar:  1,
		TanggalKeluar: base,
		Jenis:         enums.RiwayatJenisKadaluarsa,
		CreatedAt:     base,
	}))

	rows, err := repo.List(ctx, []string{"SD"}, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Paracetamol", rows[0].NamaObat)
	assert.Equal(t, enums.LokasiSD, rows[0].Lokasi)
	assert.Equal(t, 3, rows[0].JumlahKeluar, "newest first")

	cursor := &pagination.Cursor{CreatedAt: rows[0].CreatedAt, ID: rows[0].ID}
	next, err := repo.List(ctx, []string{"SD"}, 10, cursor)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, 2, next[0].JumlahKeluar)

	all, err := repo.List(ctx, []string{"PAUD", "TK", "SD", "SMP"}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	byObat, err := repo.ListByObatID(ctx, smp.ID)
	require.NoError(t, err)
	require.Len(t, byObat, 1)
	assert.Equal(t, enums.RiwayatJenisKadaluarsa, byObat[0].Jenis)
}

func TestRepository_ListIncludesDeletedMedicineHistory(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	obat := &models.Obat{NamaObat: "Antasida", Jumlah: 3, Lokasi: enums.LokasiTK}
	require.NoError(t, conn.Create(obat).Error)
	require.NoError(t, repo.Create(ctx, &models.RiwayatObat{ObatID: obat.ID, JumlahKeluar: 1, Jenis: enums.RiwayatJenisPemakaian}))
	require.NoError(t, conn.Delete(&models.Obat{}, "id = ?", obat.ID).Error)

	rows, err := repo.List(ctx, []string{"TK"}, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotEqual(t, uuid.Nil, rows[0].ID)
}
