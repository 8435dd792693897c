package obat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sekolah-terpadu/inventaris-backend/internal/ledger"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
	"gorm.io/gorm"
)

const sweepNoteLayout = "2/1/2006"

// Sweep zeroes the stock of every expired medicine in scope and writes one
// kadaluarsa ledger entry per row. Each row is handled in its own
// transaction; once a row is at zero it is never selected again.
func (s *service) Sweep(ctx context.Context, scope visibility.Scope) (SweepResult, error) {
	result := SweepResult{Items: []SweptItem{}}
	if scope.IsEmpty() {
		return result, pkgerrors.New(pkgerrors.CodeForbidden, "invalid role")
	}

	today := s.Today()
	candidates, err := s.repo.ListExpired(ctx, scope.Strings(), today)
	if err != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list expired obat")
	}

	for _, candidate := range candidates {
		item, swept, err := s.sweepOne(ctx, candidate, today)
		if err != nil {
			return result, err
		}
		if !swept {
			continue
		}
		result.Processed++
		result.UnitsRemoved += item.JumlahDihapus
		result.Items = append(result.Items, item)
		if s.metrics != nil {
			s.metrics.AddExpired(item.Lokasi.String(), item.JumlahDihapus)
		}
	}

	if s.logg != nil && result.Processed > 0 {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"processed":     result.Processed,
			"units_removed": result.UnitsRemoved,
		})
		logCtx = s.logg.WithLocations(logCtx, scope.Strings())
		s.logg.Info(logCtx, "obat.sweep.complete")
	}
	return result, nil
}

func (s *service) SweepIfEnabled(ctx context.Context, scope visibility.Scope) error {
	if !s.sweepOnRead {
		return nil
	}
	_, err := s.Sweep(ctx, scope)
	return err
}

func (s *service) sweepOne(ctx context.Context, candidate models.Obat, today time.Time) (SweptItem, bool, error) {
	var (
		item  SweptItem
		swept bool
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		at := s.now().UTC()

		observed := candidate.Jumlah
		affected, err := repo.ZeroIfUnchanged(ctx, candidate.ID, observed, at)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: zero expired obat")
		}
		if affected == 0 {
			// A concurrent usage changed the stock; re-read and try once more.
			fresh, err := repo.FindByID(ctx, candidate.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload obat")
			}
			if fresh.Jumlah <= 0 {
				return nil
			}
			observed = fresh.Jumlah
			affected, err = repo.ZeroIfUnchanged(ctx, candidate.ID, observed, at)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: zero expired obat")
			}
			if affected == 0 {
				return nil
			}
		}

		expiry := candidate.ExpiryDate()
		if _, err := s.ledger.WithTx(tx).Record(ctx, ledger.RecordInput{
			ObatID:       candidate.ID,
			JumlahKeluar: observed,
			Jenis:        enums.RiwayatJenisKadaluarsa,
			Keterangan:   sweepNote(today),
			At:           at,
		}); err != nil {
			return err
		}

		item = SweptItem{
			ObatID:            candidate.ID,
			NamaObat:          candidate.NamaObat,
			Lokasi:            candidate.Lokasi,
			JumlahDihapus:     observed,
			TanggalKadaluarsa: expiry.Format(dateLayout),
		}
		swept = true
		return nil
	})
	return item, swept, err
}

// sweepNote marks an automatic removal with the date of the sweep.
func sweepNote(day time.Time) string {
	return fmt.Sprintf("Otomatis dikurangi karena kadaluarsa pada %s", day.Format(sweepNoteLayout))
}
