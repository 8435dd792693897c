package repo

import (
	"context"
	"testing"

	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/dbtest"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
)

func TestNewBaseStoresConnection(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	if base.db != db {
		t.Fatalf("expected base db to match provided connection")
	}
	if base.WithTx(nil).db != db {
		t.Fatalf("nil tx should keep the original connection")
	}
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	if withCtx.Statement == nil || withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through")
	}

	if base.DB(nil) != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestBaseScoped_FiltersLocationsAndDeleted(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)
	ctx := context.Background()

	rows := []*models.Inventaris{
		{NamaBarang: "Meja", Kategori: enums.KategoriPerabot, Jumlah: 4, Lokasi: enums.LokasiSD, Kondisi: enums.KondisiBaik},
		{NamaBarang: "Kursi", Kategori: enums.KategoriPerabot, Jumlah: 8, Lokasi: enums.LokasiSMP, Kondisi: enums.KondisiBaik},
		{NamaBarang: "Papan", Kategori: enums.KategoriPeralatan, Jumlah: 1, Lokasi: enums.LokasiSD, Kondisi: enums.KondisiRusakBerat},
	}
	for _, row := range rows {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := db.Delete(rows[2]).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	var count int64
	if err := base.Scoped(ctx, &models.Inventaris{}, []string{"SD"}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one visible SD row, got %d", count)
	}
}
