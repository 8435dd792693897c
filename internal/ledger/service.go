package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/pagination"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/types"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
	"gorm.io/gorm"
)

// Service records and lists medicine ledger entries.
type Service interface {
	WithTx(tx *gorm.DB) Service
	Record(ctx context.Context, input RecordInput) (*models.RiwayatObat, error)
	List(ctx context.Context, scope visibility.Scope, params pagination.Params) (types.CursorPage[EntryDTO], error)
	ListByObatID(ctx context.Context, obatID uuid.UUID) ([]EntryDTO, error)
}

type service struct {
	repo Repository
}

// RecordInput captures the immutable data a ledger entry requires.
type RecordInput struct {
	ObatID       uuid.UUID
	JumlahKeluar int
	Jenis        enums.RiwayatJenis
	Keterangan   string
	ActorUserID  *uuid.UUID
	At           time.Time
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx)}
}

func (s *service) Record(ctx context.Context, input RecordInput) (*models.RiwayatObat, error) {
	if input.ObatID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "obat id is required")
	}
	if input.JumlahKeluar <= 0 {
		return nil, pkgerrors.Validation("invalid ledger entry", map[string]string{
			"jumlah_keluar": "must be greater than 0",
		})
	}
	if !input.Jenis.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid ledger entry type %q", input.Jenis))
	}

	entry := &models.RiwayatObat{
		ObatID:          input.ObatID,
		JumlahKeluar:    input.JumlahKeluar,
		TanggalKeluar:   input.At.UTC(),
		Jenis:           input.Jenis,
		CreatedByUserID: input.ActorUserID,
	}
	if note := strings.TrimSpace(input.Keterangan); note != "" {
		entry.Keterangan = &note
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert riwayat obat")
	}
	return entry, nil
}

func (s *service) List(ctx context.Context, scope visibility.Scope, params pagination.Params) (types.CursorPage[EntryDTO], error) {
	page := types.CursorPage[EntryDTO]{Items: []EntryDTO{}}
	if scope.IsEmpty() {
		return page, pkgerrors.New(pkgerrors.CodeForbidden, "invalid role")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return page, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, scope.Strings(), pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return page, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list riwayat obat")
	}

	rows, page.NextCursor = pagination.Trim(rows, params.Limit, func(row EntryRow) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	for _, row := range rows {
		page.Items = append(page.Items, fromRow(row))
	}
	return page, nil
}

func (s *service) ListByObatID(ctx context.Context, obatID uuid.UUID) ([]EntryDTO, error) {
	entries, err := s.repo.ListByObatID(ctx, obatID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list riwayat by obat")
	}
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromModel(e))
	}
	return out, nil
}
