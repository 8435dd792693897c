package obat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/internal/ledger"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/logger"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
	"gorm.io/gorm"
)

const defaultUsageNote = "Pemakaian obat"

// Service manages medicine stock, usage recording and the expiry sweep.
type Service interface {
	Create(ctx context.Context, scope visibility.Scope, actorID uuid.UUID, input CreateInput) (*ObatDTO, error)
	List(ctx context.Context, scope visibility.Scope) ([]ObatDTO, error)
	Get(ctx context.Context, scope visibility.Scope, id uuid.UUID) (*ObatDTO, error)
	Update(ctx context.Context, scope visibility.Scope, id uuid.UUID, input UpdateInput) (*ObatDTO, error)
	Delete(ctx context.Context, scope visibility.Scope, id uuid.UUID) error
	RecordUsage(ctx context.Context, scope visibility.Scope, actorID uuid.UUID, input UsageInput) (*UsageResult, error)
	History(ctx context.Context, scope visibility.Scope, id uuid.UUID) ([]ledger.EntryDTO, error)
	Sweep(ctx context.Context, scope visibility.Scope) (SweepResult, error)
	// SweepIfEnabled runs Sweep only when inline sweeping on reads is on.
	SweepIfEnabled(ctx context.Context, scope visibility.Scope) error
	Today() time.Time
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stockRecorder interface {
	AddUsed(lokasi string, units int)
	AddExpired(lokasi string, units int)
}

// ServiceParams bundles the dependencies of the medicine service.
type ServiceParams struct {
	Repo        *Repository
	TxRunner    txRunner
	Ledger      ledger.Service
	Metrics     stockRecorder
	Logger      *logger.Logger
	Location    *time.Location
	SweepOnRead bool
	Now         func() time.Time
}

type service struct {
	repo        *Repository
	tx          txRunner
	ledger      ledger.Service
	metrics     stockRecorder
	logg        *logger.Logger
	loc         *time.Location
	sweepOnRead bool
	now         func() time.Time
}

// NewService validates dependencies and builds the medicine service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("obat repository required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        params.Repo,
		tx:          params.TxRunner,
		ledger:      params.Ledger,
		metrics:     params.Metrics,
		logg:        params.Logger,
		loc:         loc,
		sweepOnRead: params.SweepOnRead,
		now:         now,
	}, nil
}

func (s *service) Today() time.Time {
	return Today(s.now(), s.loc)
}

func (s *service) Create(ctx context.Context, scope visibility.Scope, actorID uuid.UUID, input CreateInput) (*ObatDTO, error) {
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert obat")
	}
	dto := FromModel(*row, s.Today())
	return &dto, nil
}

func (s *service) List(ctx context.Context, scope visibility.Scope) ([]ObatDTO, error) {
	if scope.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "invalid role")
	}
	if err := s.SweepIfEnabled(ctx, scope); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, scope.Strings())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list obat")
	}
	today := s.Today()
	out := make([]ObatDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row, today))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, scope visibility.Scope, id uuid.UUID) (*ObatDTO, error) {
	row, err := s.findVisible(ctx, s.repo, scope, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*row, s.Today())
	return &dto, nil
}

func (s *service) Update(ctx context.Context, scope visibility.Scope, id uuid.UUID, input UpdateInput) (*ObatDTO, error) {
	next, err := buildRow(input)
	if err != nil {
		return nil, err
	}
	row, err := s.findWritable(ctx, s.repo, scope, id)
	if err != nil {
		return nil, err
	}
	if err := scope.Require(next.Lokasi); err != nil {
		return nil, err
	}

	row.NamaObat = next.NamaObat
	row.Jumlah = next.Jumlah
	row.Lokasi = next.Lokasi
	row.Satuan = next.Satuan
	row.TanggalKadaluarsa = next.TanggalKadaluarsa
	row.BatasMinimal = next.BatasMinimal
	row.Keterangan = next.Keterangan
	row.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update obat")
	}
	dto := FromModel(*row, s.Today())
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, scope visibility.Scope, id uuid.UUID) error {
	if _, err := s.findWritable(ctx, s.repo, scope, id); err != nil {
		return err
	}
	deleted, err := s.repo.SoftDelete(ctx, id, scope.Strings())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete obat")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "obat not found")
	}
	return nil
}

func (s *service) RecordUsage(ctx context.Context, scope visibility.Scope, actorID uuid.UUID, input UsageInput) (*UsageResult, error) {
	if input.ObatID == uuid.Nil {
		return nil, pkgerrors.Validation("invalid usage", map[string]string{"obat_id": "is required"})
	}
	if input.JumlahKeluar <= 0 {
		return nil, pkgerrors.Validation("invalid usage", map[string]string{"jumlah_keluar": "must be greater than 0"})
	}
	note := strings.TrimSpace(input.Keterangan)
	if note == "" {
		note = defaultUsageNote
	}
	var actor *uuid.UUID
	if actorID != uuid.Nil {
		id := actorID
		actor = &id
	}

	var (
		updated *models.Obat
		entry   *models.RiwayatObat
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := s.findVisible(ctx, repo, scope, input.ObatID)
		if err != nil {
			return err
		}
		if input.JumlahKeluar > row.Jumlah {
			return pkgerrors.Validation("insufficient stock", map[string]string{
				"jumlah_keluar": "exceeds available stock",
			})
		}

		at := s.now().UTC()
		affected, err := repo.Decrement(ctx, row.ID, scope.Strings(), input.JumlahKeluar, at)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement obat")
		}
		if affected == 0 {
			return pkgerrors.Validation("insufficient stock", map[string]string{
				"jumlah_keluar": "exceeds available stock",
			})
		}

		entry, err = s.ledger.WithTx(tx).Record(ctx, ledger.RecordInput{
			ObatID:       row.ID,
			JumlahKeluar: input.JumlahKeluar,
			Jenis:        enums.RiwayatJenisPemakaian,
			Keterangan:   note,
			ActorUserID:  actor,
			At:           at,
		})
		if err != nil {
			return err
		}

		row.Jumlah -= input.JumlahKeluar
		row.UpdatedAt = at
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AddUsed(updated.Lokasi.String(), input.JumlahKeluar)
	}
	return &UsageResult{
		Obat:    FromModel(*updated, s.Today()),
		Riwayat: ledger.FromModel(*entry),
	}, nil
}

// History returns the ledger of one medicine, oldest first. The medicine must
// be live and in scope.
func (s *service) History(ctx context.Context, scope visibility.Scope, id uuid.UUID) ([]ledger.EntryDTO, error) {
	if _, err := s.findVisible(ctx, s.repo, scope, id); err != nil {
		return nil, err
	}
	return s.ledger.ListByObatID(ctx, id)
}

// findVisible loads a row in scope; anything else is NOT_FOUND.
func (s *service) findVisible(ctx context.Context, repo *Repository, scope visibility.Scope, id uuid.UUID) (*models.Obat, error) {
	if scope.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "invalid role")
	}
	row, err := repo.FindScoped(ctx, id, scope.Strings())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "obat not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load obat")
	}
	return row, nil
}

// findWritable is findVisible for mutations: a live row outside the scope is
// FORBIDDEN rather than NOT_FOUND.
func (s *service) findWritable(ctx context.Context, repo *Repository, scope visibility.Scope, id uuid.UUID) (*models.Obat, error) {
	row, err := s.findVisible(ctx, repo, scope, id)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return row, err
	}
	if _, anyErr := repo.FindByID(ctx, id); anyErr == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "location not permitted")
	}
	return nil, err
}

func buildRow(input CreateInput) (*models.Obat, error) {
	details := map[string]string{}

	name := strings.TrimSpace(input.NamaObat)
	if name == "" {
		details["nama_obat"] = "is required"
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
	batas := models.DefaultBatasMinimal
	if input.BatasMinimal != nil {
		if *input.BatasMinimal < 1 {
			details["batas_minimal"] = "must be at least 1"
		} else {
			batas = *input.BatasMinimal
		}
	}

	row := &models.Obat{
		NamaObat:     name,
		Jumlah:       jumlah,
		Lokasi:       lokasi,
		Satuan:       trimmedOrNil(input.Satuan),
		BatasMinimal: batas,
		Keterangan:   trimmedOrNil(input.Keterangan),
	}
	if raw := trimmedOrNil(input.TanggalKadaluarsa); raw != nil {
		parsed, err := time.Parse(dateLayout, *raw)
		if err != nil {
			details["tanggal_kadaluarsa"] = "must be a date in YYYY-MM-DD format"
		} else {
			date := models.NewDate(parsed)
			row.TanggalKadaluarsa = &date
		}
	}

	if len(details) > 0 {
		return nil, pkgerrors.Validation("validation failed", details)
	}
	return row, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
