package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/sekolah-terpadu/inventaris-backend/internal/ledger"
	"github.com/sekolah-terpadu/inventaris-backend/internal/obat"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/dbtest"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 6, 15, 3, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	client := db.NewFromConn(conn)
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn))
	require.NoError(t, err)
	obatSvc, err := obat.NewService(obat.ServiceParams{
		Repo:        obat.NewRepository(conn),
		TxRunner:    client,
		Ledger:      ledgerSvc,
		SweepOnRead: true,
		Now:         func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	svc, err := NewService(NewRepository(conn), client, obatSvc, func() time.Time { return fixedNow })
	require.NoError(t, err)
	return svc, conn
}

func dateAt(y int, m time.Month, d int) *models.Obat {
	v := models.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return &models.Obat{TanggalKadaluarsa: &v}
}

func seed(t *testing.T, conn *gorm.DB) {
	t.Helper()
	items := []*models.Inventaris{
		{NamaBarang: "Bola", Kategori: enums.KategoriPeralatan, Jumlah: 10, Lokasi: enums.LokasiSD, Kondisi: enums.KondisiBaik},
		{NamaBarang: "Raket", Kategori: enums.KategoriPeralatan, Jumlah: 5, Lokasi: enums.LokasiSD, Kondisi: enums.KondisiRusakBerat},
		{NamaBarang: "Meja", Kategori: enums.KategoriPerabot, Jumlah: 30, Lokasi: enums.LokasiSD, Kondisi: enums.KondisiRusakRingan},
		{NamaBarang: "Kotak P3K", Kategori: enums.KategoriObat, Jumlah: 2, Lokasi: enums.LokasiSD, Kondisi: enums.KondisiBaik},
		{NamaBarang: "Laptop", Kategori: enums.KategoriElektronik, Jumlah: 4, Lokasi: enums.LokasiSMP, Kondisi: enums.KondisiRusakBerat},
		{NamaBarang: "Buku Tulis", Kategori: enums.KategoriBuku, Jumlah: 100, Lokasi: enums.LokasiSMP, Kondisi: enums.KondisiBaik},
	}
	for _, item := range items {
		require.NoError(t, conn.Create(item).Error)
	}
	removed := &models.Inventaris{NamaBarang: "Kursi Lama", Kategori: enums.KategoriPerabot, Jumlah: 50, Lokasi: enums.LokasiSD, Kondisi: enums.KondisiRusakBerat}
	require.NoError(t, conn.Create(removed).Error)
	require.NoError(t, conn.Delete(removed).Error)

	medicines := []*models.Obat{
		{NamaObat: "Paracetamol", Jumlah: 40, Lokasi: enums.LokasiSD, BatasMinimal: 5},
		{NamaObat: "Antasida", Jumlah: 3, Lokasi: enums.LokasiSD, BatasMinimal: 5},
		{NamaObat: "Oralit", Jumlah: 20, Lokasi: enums.LokasiSD, BatasMinimal: 5, TanggalKadaluarsa: dateAt(2026, 7, 1).TanggalKadaluarsa},
		{NamaObat: "Amoxicillin", Jumlah: 8, Lokasi: enums.LokasiSD, BatasMinimal: 5, TanggalKadaluarsa: dateAt(2026, 6, 1).TanggalKadaluarsa},
		{NamaObat: "Betadine", Jumlah: 12, Lokasi: enums.LokasiSMP, BatasMinimal: 5},
	}
	for _, m := range medicines {
		require.NoError(t, conn.Create(m).Error)
	}
}

func TestServiceGetOperatorSnapshot(t *testing.T) {
	svc, conn := newTestService(t)
	seed(t, conn)

	scope, err := visibility.ForRole("operator_sd")
	require.NoError(t, err)
	stats, err := svc.Get(context.Background(), scope)
	require.NoError(t, err)

	assert.Equal(t, []enums.Lokasi{enums.LokasiSD}, stats.Lokasi)
	assert.Equal(t, 15, stats.TotalPeralatan)
	assert.Equal(t, 30, stats.TotalPerabot)
	assert.Equal(t, 0, stats.TotalElektronik)
	assert.Equal(t, 0, stats.TotalBuku)
	assert.Equal(t, 2, stats.TotalObatObatan)
	// Amoxicillin expired and was swept to zero before aggregating.
	assert.Equal(t, 63, stats.TotalObat)

	names := make([]string, 0, len(stats.LowStockMedicines))
	for _, m := range stats.LowStockMedicines {
		names = append(names, m.NamaObat)
	}
	assert.Equal(t, []string{"Amoxicillin", "Antasida", "Oralit"}, names)

	require.Len(t, stats.DamagedItems, 1)
	assert.Equal(t, "Raket", stats.DamagedItems[0].NamaBarang)
	assert.True(t, stats.GeneratedAt.Equal(fixedNow))
}

func TestServiceGetAdminSeesEverything(t *testing.T) {
	svc, conn := newTestService(t)
	seed(t, conn)

	stats, err := svc.Get(context.Background(), visibility.All())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalElektronik)
	assert.Equal(t, 100, stats.TotalBuku)
	assert.Equal(t, 75, stats.TotalObat)
	assert.Len(t, stats.DamagedItems, 2)
}

func TestServiceGetWarningWindowBoundary(t *testing.T) {
	svc, conn := newTestService(t)
	medicines := []*models.Obat{
		{NamaObat: "Batas", Jumlah: 20, Lokasi: enums.LokasiTK, BatasMinimal: 5, TanggalKadaluarsa: dateAt(2026, 7, 15).TanggalKadaluarsa},
		{NamaObat: "Lewat", Jumlah: 20, Lokasi: enums.LokasiTK, BatasMinimal: 5, TanggalKadaluarsa: dateAt(2026, 7, 16).TanggalKadaluarsa},
		{NamaObat: "Menipis", Jumlah: 6, Lokasi: enums.LokasiTK, BatasMinimal: 6},
	}
	for _, m := range medicines {
		require.NoError(t, conn.Create(m).Error)
	}

	scope, err := visibility.ForRole("operator_tk")
	require.NoError(t, err)
	stats, err := svc.Get(context.Background(), scope)
	require.NoError(t, err)

	require.Len(t, stats.LowStockMedicines, 2)
	assert.Equal(t, "Batas", stats.LowStockMedicines[0].NamaObat)
	assert.True(t, stats.LowStockMedicines[0].Status.ExpiringSoon)
	assert.Equal(t, "Menipis", stats.LowStockMedicines[1].NamaObat)
	assert.True(t, stats.LowStockMedicines[1].Status.LowStock)
}

func TestServiceGetEmptyScope(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), visibility.Scope{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden), "got %v", err)
}
