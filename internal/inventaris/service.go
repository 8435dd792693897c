package inventaris

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
	"gorm.io/gorm"
)

// Service manages non-medicine inventory within the caller's locations.
type Service interface {
	Create(ctx context.Context, scope visibility.Scope, actorID uuid.UUID, input CreateInput) (*ItemDTO, error)
	List(ctx context.Context, scope visibility.Scope) ([]ItemDTO, error)
	Get(ctx context.Context, scope visibility.Scope, id uuid.UUID) (*ItemDTO, error)
	Update(ctx context.Context, scope visibility.Scope, id uuid.UUID, input UpdateInput) (*ItemDTO, error)
	Delete(ctx context.Context, scope visibility.Scope, id uuid.UUID) error
}

// Sweeper zeroes expired medicine stock before the inventory list is read.
type Sweeper interface {
	SweepIfEnabled(ctx context.Context, scope visibility.Scope) error
}

type service struct {
	repo    *Repository
	sweeper Sweeper
	now     func() time.Time
}

// NewService builds the inventory service. sweeper may be nil.
func NewService(repo *Repository, sweeper Sweeper, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventaris repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, sweeper: sweeper, now: now}, nil
}

func (s *service) Create(ctx context.Context, scope visibility.Scope, actorID uuid.UUID, input CreateInput) (*ItemDTO, error) {
	row, err := buildRow(input)
	if err != nil {
		return nil, err
	}
	if err := scope.Require(row.Lokasi); err != nil {
		return nil, err
	}
	if actorID != uuid.Nil {
		id := actorID
		row.CreatedByUserID = &id
	}
	row.TanggalInput = s.now().UTC()

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert inventaris")
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) List(ctx context.Context, scope visibility.Scope) ([]ItemDTO, error) {
	if scope.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "invalid role")
	}
	if s.sweeper != nil {
		if err := s.sweeper.SweepIfEnabled(ctx, scope); err != nil {
			return nil, err
		}
	}
	rows, err := s.repo.List(ctx, scope.Strings())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventaris")
	}
	out := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, scope visibility.Scope, id uuid.UUID) (*ItemDTO, error) {
	row, err := s.findVisible(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, scope visibility.Scope, id uuid.UUID, input UpdateInput) (*ItemDTO, error) {
	next, err := buildRow(input)
	if err != nil {
		return nil, err
	}
	row, err := s.findWritable(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := scope.Require(next.Lokasi); err != nil {
		return nil, err
	}

	row.NamaBarang = next.NamaBarang
	row.Kategori = next.Kategori
	row.Jumlah = next.Jumlah
	row.Lokasi = next.Lokasi
	row.Kondisi = next.Kondisi
	row.Keterangan = next.Keterangan
	row.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update inventaris")
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, scope visibility.Scope, id uuid.UUID) error {
	if _, err := s.findWritable(ctx, scope, id); err != nil {
		return err
	}
	deleted, err := s.repo.SoftDelete(ctx, id, scope.Strings())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete inventaris")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventaris not found")
	}
	return nil
}

func (s *service) findVisible(ctx context.Context, scope visibility.Scope, id uuid.UUID) (*models.Inventaris, error) {
	if scope.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "invalid role")
	}
	row, err := s.repo.FindScoped(ctx, id, scope.Strings())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventaris not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load inventaris")
	}
	return row, nil
}

func (s *service) findWritable(ctx context.Context, scope visibility.Scope, id uuid.UUID) (*models.Inventaris, error) {
	row, err := s.findVisible(ctx, scope, id)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return row, err
	}
	exists, existsErr := s.repo.Exists(ctx, id)
	if existsErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, existsErr, "db: load inventaris")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "location not permitted")
	}
	return nil, err
}

func buildRow(input CreateInput) (*models.Inventaris, error) {
	details := map[string]string{}

	name := strings.TrimSpace(input.NamaBarang)
	if name == "" {
		details["nama_barang"] = "is required"
	}
	kategori, err := enums.ParseKategori(strings.TrimSpace(input.Kategori))
	if err != nil {
		details["kategori"] = "is invalid"
	}
	jumlah := 0
	if input.Jumlah == nil {
		details["jumlah"] = "is required"
	} else if *input.Jumlah < 0 {
		details["jumlah"] = "must be at least 0"
	} else {
		jumlah = *input.Jumlah
	}
	lokasi, err := enums.ParseLokasi(strings.TrimSpace(input.Lokasi))
	if err != nil {
		details["lokasi"] = "is invalid"
	}
	kondisi, err := enums.ParseKondisi(strings.TrimSpace(input.Kondisi))
	if err != nil {
		details["kondisi"] = "is invalid"
	}
	if len(details) > 0 {
		return nil, pkgerrors.Validation("validation failed", details)
	}

	row := &models.Inventaris{
		NamaBarang: name,
		Kategori:   kategori,
		Jumlah:     jumlah,
		Lokasi:     lokasi,
		Kondisi:    kondisi,
	}
	if input.Keterangan != nil {
		if note := strings.TrimSpace(*input.Keterangan); note != "" {
			row.Keterangan = &note
		}
	}
	return row, nil
}
