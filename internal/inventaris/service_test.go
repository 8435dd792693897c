package inventaris

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/dbtest"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 5, 2, 7, 30, 0, 0, time.UTC)

type countingSweeper struct {
	calls  int
	scopes [][]string
}

func (c *countingSweeper) SweepIfEnabled(ctx context.Context, scope visibility.Scope) error {
	c.calls++
	c.scopes = append(c.scopes, scope.Strings())
	return nil
}

func newTestService(t *testing.T) (Service, *gorm.DB, *countingSweeper) {
	t.Helper()
	conn := dbtest.Open(t)
	sweeper := &countingSweeper{}
	svc, err := NewService(NewRepository(conn), sweeper, func() time.Time { return fixedNow })
	require.NoError(t, err)
	return svc, conn, sweeper
}

func scopeFor(t *testing.T, role enums.Role) visibility.Scope {
	t.Helper()
	scope, err := visibility.ForRole(string(role))
	require.NoError(t, err)
	return scope
}

func intPtr(v int) *int { return &v }

func validInput(lokasi string) CreateInput {
	return CreateInput{
		NamaBarang: "Meja Siswa",
		Kategori:   "Perabot",
		Jumlah:     intPtr(24),
		Lokasi:     lokasi,
		Kondisi:    "Baik",
	}
}

func TestServiceCreate(t *testing.T) {
	svc, _, _ := newTestService(t)
	actor := uuid.New()

	note := "  ruang 3A  "
	input := validInput("SD")
	input.Keterangan = &note
	dto, err := svc.Create(context.Background(), scopeFor(t, enums.RoleOperatorSD), actor, input)
	require.NoError(t, err)
	assert.Equal(t, enums.KategoriPerabot, dto.Kategori)
	assert.Equal(t, 24, dto.Jumlah)
	require.NotNil(t, dto.Keterangan)
	assert.Equal(t, "ruang 3A", *dto.Keterangan)
	assert.True(t, dto.TanggalInput.Equal(fixedNow))
	require.NotNil(t, dto.CreatedByUserID)
	assert.Equal(t, actor, *dto.CreatedByUserID)
}

func TestServiceCreateRejectsOutsideScope(t *testing.T) {
	svc, conn, _ := newTestService(t)

	_, err := svc.Create(context.Background(), scopeFor(t, enums.RoleOperatorTK), uuid.New(), validInput("SMP"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden), "got %v", err)

	var count int64
	require.NoError(t, conn.Model(&models.Inventaris{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), scopeFor(t, enums.RoleAdmin), uuid.New(), CreateInput{
		NamaBarang: " ",
		Kategori:   "Mainan",
		Jumlah:     intPtr(-3),
		Lokasi:     "SMA",
		Kondisi:    "Hilang",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{
		"nama_barang": "is required",
		"kategori":    "is invalid",
		"jumlah":      "must be at least 0",
		"lokasi":      "is invalid",
		"kondisi":     "is invalid",
	}, typed.Details())
}

func TestServiceListScopesAndSweeps(t *testing.T) {
	svc, conn, sweeper := newTestService(t)
	ctx := context.Background()

	rows := []*models.Inventaris{
		{NamaBarang: "Proyektor", Kategori: enums.KategoriElektronik, Jumlah: 1, Lokasi: enums.LokasiSMP, Kondisi: enums.KondisiBaik, CreatedAt: fixedNow.Add(-3 * time.Hour)},
		{NamaBarang: "Lemari", Kategori: enums.KategoriPerabot, Jumlah: 2, Lokasi: enums.LokasiSMP, Kondisi: enums.KondisiRusakRingan, CreatedAt: fixedNow.Add(-time.Hour)},
		{NamaBarang: "Balok", Kategori: enums.KategoriPeralatan, Jumlah: 30, Lokasi: enums.LokasiPAUD, Kondisi: enums.KondisiBaik, CreatedAt: fixedNow.Add(-2 * time.Hour)},
	}
	for _, row := range rows {
		require.NoError(t, conn.Create(row).Error)
	}

	items, err := svc.List(ctx, scopeFor(t, enums.RoleOperatorSMP))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Lemari", items[0].NamaBarang)
	assert.Equal(t, "Proyektor", items[1].NamaBarang)
	assert.Equal(t, 1, sweeper.calls)
	assert.Equal(t, []string{"SMP"}, sweeper.scopes[0])

	all, err := svc.List(ctx, scopeFor(t, enums.RoleAdmin))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Lemari", all[0].NamaBarang)
	assert.Equal(t, "Balok", all[1].NamaBarang)
}

func TestServiceUpdateAndDeleteScopeRules(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, scopeFor(t, enums.RoleAdmin), uuid.New(), validInput("SD"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, scopeFor(t, enums.RoleOperatorSMP), created.ID, validInput("SMP"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden), "row outside scope: %v", err)

	_, err = svc.Update(ctx, scopeFor(t, enums.RoleOperatorSD), created.ID, validInput("SMP"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden), "target outside scope: %v", err)

	_, err = svc.Update(ctx, scopeFor(t, enums.RoleOperatorSD), uuid.New(), validInput("SD"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "missing: %v", err)

	input := validInput("SD")
	input.Kondisi = "Rusak Berat"
	input.Jumlah = intPtr(20)
	updated, err := svc.Update(ctx, scopeFor(t, enums.RoleOperatorSD), created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, enums.KondisiRusakBerat, updated.Kondisi)
	assert.Equal(t, 20, updated.Jumlah)

	got, err := svc.Get(ctx, scopeFor(t, enums.RoleOperatorSD), created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.KondisiRusakBerat, got.Kondisi)

	_, err = svc.Get(ctx, scopeFor(t, enums.RoleOperatorSMP), created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "get outside scope: %v", err)

	err = svc.Delete(ctx, scopeFor(t, enums.RoleOperatorSMP), created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden), "delete outside scope: %v", err)

	require.NoError(t, svc.Delete(ctx, scopeFor(t, enums.RoleOperatorSD), created.ID))
	items, err := svc.List(ctx, scopeFor(t, enums.RoleAdmin))
	require.NoError(t, err)
	assert.Empty(t, items)
}
