package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/sekolah-terpadu/inventaris-backend/internal/inventaris"
	"github.com/sekolah-terpadu/inventaris-backend/internal/obat"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
	"gorm.io/gorm"
)

// Stats is the dashboard snapshot for one role.
type Stats struct {
	Lokasi            []enums.Lokasi       `json:"lokasi"`
	TotalPeralatan    int                  `json:"total_peralatan"`
	TotalPerabot      int                  `json:"total_perabot"`
	TotalElektronik   int                  `json:"total_elektronik"`
	TotalBuku         int                  `json:"total_buku"`
	TotalObatObatan   int                  `json:"total_obat_obatan"`
	TotalObat         int                  `json:"total_obat"`
	LowStockMedicines []obat.ObatDTO       `json:"low_stock_medicines"`
	DamagedItems      []inventaris.ItemDTO `json:"damaged_items"`
	GeneratedAt       time.Time            `json:"generated_at"`
}

type Service interface {
	Get(ctx context.Context, scope visibility.Scope) (*Stats, error)
}

type sweeper interface {
	SweepIfEnabled(ctx context.Context, scope visibility.Scope) error
	Today() time.Time
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    *Repository
	tx      txRunner
	sweeper sweeper
	now     func() time.Time
}

func NewService(repo *Repository, tx txRunner, sweeper sweeper, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if sweeper == nil {
		return nil, fmt.Errorf("obat service required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, tx: tx, sweeper: sweeper, now: now}, nil
}

func (s *service) Get(ctx context.Context, scope visibility.Scope) (*Stats, error) {
	if scope.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "invalid role")
	}
	if err := s.sweeper.SweepIfEnabled(ctx, scope); err != nil {
		return nil, err
	}

	today := s.sweeper.Today()
	locations := scope.Strings()
	stats := &Stats{
		Lokasi:            scope.Locations(),
		LowStockMedicines: []obat.ObatDTO{},
		DamagedItems:      []inventaris.ItemDTO{},
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		totals, err := repo.InventarisTotalsByKategori(ctx, locations)
		if err != nil {
			return err
		}
		stats.TotalPeralatan = totals[enums.KategoriPeralatan]
		stats.TotalPerabot = totals[enums.KategoriPerabot]
		stats.TotalElektronik = totals[enums.KategoriElektronik]
		stats.TotalBuku = totals[enums.KategoriBuku]
		stats.TotalObatObatan = totals[enums.KategoriObat]

		if stats.TotalObat, err = repo.TotalObat(ctx, locations); err != nil {
			return err
		}

		medicines, err := repo.ListObat(ctx, locations)
		if err != nil {
			return err
		}
		for _, row := range medicines {
			dto := obat.FromModel(row, today)
			if dto.Status.NeedsAttention() {
				stats.LowStockMedicines = append(stats.LowStockMedicines, dto)
			}
		}

		damaged, err := repo.ListInventarisByKondisi(ctx, locations, enums.KondisiRusakBerat)
		if err != nil {
			return err
		}
		for _, row := range damaged {
			stats.DamagedItems = append(stats.DamagedItems, inventaris.FromModel(row))
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: dashboard stats")
	}

	stats.GeneratedAt = s.now().UTC()
	return stats, nil
}
