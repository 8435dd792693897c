package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/pagination"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn func(ctx context.Context, entry *models.RiwayatObat) error
	listFn   func(ctx context.Context, locations []string, limit int, cursor *pagination.Cursor) ([]EntryRow, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, entry *models.RiwayatObat) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context, locations []string, limit int, cursor *pagination.Cursor) ([]EntryRow, error) {
	if f.listFn != nil {
		return f.listFn(ctx, locations, limit, cursor)
	}
	return nil, nil
}

func (f *fakeRepository) ListByObatID(ctx context.Context, obatID uuid.UUID) ([]models.RiwayatObat, error) {
	return nil, nil
}

func TestService_Record(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.RiwayatObat
	repo.createFn = func(ctx context.Context, entry *models.RiwayatObat) error {
		created = entry
		return nil
	}

	actor := uuid.New()
	at := time.Date(2026, 5, 1, 3, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	got, err := svc.Record(context.Background(), RecordInput{
		ObatID:       uuid.New(),
		JumlahKeluar: 2,
		Jenis:        enums.RiwayatJenisPemakaian,
		Keterangan:   "  demam  ",
		ActorUserID:  &actor,
		At:           at,
	})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if created != got {
		t.Fatalf("expected repository to receive the returned entry")
	}
	if got.Keterangan == nil || *got.Keterangan != "demam" {
		t.Fatalf("expected trimmed note, got %v", got.Keterangan)
	}
	if got.TanggalKeluar.Location() != time.UTC || !got.TanggalKeluar.Equal(at) {
		t.Fatalf("expected UTC timestamp equal to input, got %v", got.TanggalKeluar)
	}
}

func TestService_RecordValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})
	tests := []struct {
		name  string
		input RecordInput
	}{
		{name: "missing obat", input: RecordInput{JumlahKeluar: 1, Jenis: enums.RiwayatJenisPemakaian}},
		{name: "zero quantity", input: RecordInput{ObatID: uuid.New(), JumlahKeluar: 0, Jenis: enums.RiwayatJenisPemakaian}},
		{name: "negative quantity", input: RecordInput{ObatID: uuid.New(), JumlahKeluar: -3, Jenis: enums.RiwayatJenisPemakaian}},
		{name: "bad jenis", input: RecordInput{ObatID: uuid.New(), JumlahKeluar: 1, Jenis: "hilang"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Record(context.Background(), tt.input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_RecordWrapsStoreErrors(t *testing.T) {
	repo := &fakeRepository{createFn: func(context.Context, *models.RiwayatObat) error {
		return errors.New("connection reset")
	}}
	svc, _ := NewService(repo)
	_, err := svc.Record(context.Background(), RecordInput{ObatID: uuid.New(), JumlahKeluar: 1, Jenis: enums.RiwayatJenisKadaluarsa})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestService_ListPagesWithCursor(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []EntryRow{
		{ID: uuid.New(), CreatedAt: base.Add(3 * time.Minute)},
		{ID: uuid.New(), CreatedAt: base.Add(2 * time.Minute)},
		{ID: uuid.New(), CreatedAt: base.Add(1 * time.Minute)},
	}
	var gotLimit int
	var gotLocations []string
	repo := &fakeRepository{listFn: func(_ context.Context, locations []string, limit int, _ *pagination.Cursor) ([]EntryRow, error) {
		gotLimit = limit
		gotLocations = locations
		return rows, nil
	}}
	svc, _ := NewService(repo)
	scope, _ := visibility.ForRole("operator_sd")

	page, err := svc.List(context.Background(), scope, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if gotLimit != 3 {
		t.Fatalf("expected limit+1 probe, got %d", gotLimit)
	}
	if len(gotLocations) != 1 || gotLocations[0] != "SD" {
		t.Fatalf("expected SD scope, got %v", gotLocations)
	}
	if len(page.Items) != 2 || page.NextCursor == "" {
		t.Fatalf("expected two items and a cursor, got %d items cursor=%q", len(page.Items), page.NextCursor)
	}
	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil || cursor.ID != rows[1].ID {
		t.Fatalf("expected cursor at second row, got %+v %v", cursor, err)
	}
}

func TestService_ListRejectsBadCursor(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})
	scope, _ := visibility.ForRole("admin")
	if _, err := svc.List(context.Background(), scope, pagination.Params{Cursor: "!!"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.List(context.Background(), visibility.Scope{}, pagination.Params{}); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden for empty scope, got %v", err)
	}
}
