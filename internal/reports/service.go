package reports

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/logger"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
	"gorm.io/gorm"
)

// ExportRequest holds the raw query parameters of an export.
type ExportRequest struct {
	Type   string
	Format string
	Period string
	Lokasi string
}

// File is a rendered report ready to be served as an attachment.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

type Service interface {
	Export(ctx context.Context, scope visibility.Scope, req ExportRequest) (*File, error)
	Statistik(ctx context.Context, scope visibility.Scope, lokasi string) (*Stats, error)
}

type sweeper interface {
	SweepIfEnabled(ctx context.Context, scope visibility.Scope) error
	Today() time.Time
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	Repo     *Repository
	TxRunner txRunner
	Sweeper  sweeper
	Logger   *logger.Logger
	Location *time.Location
	// MaxRows caps each table; exports over the cap are rejected.
	MaxRows int
	Now     func() time.Time
}

type service struct {
	repo    *Repository
	tx      txRunner
	sweeper sweeper
	logg    *logger.Logger
	loc     *time.Location
	maxRows int
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Sweeper == nil {
		return nil, fmt.Errorf("obat service required")
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
		repo:    params.Repo,
		tx:      params.TxRunner,
		sweeper: params.Sweeper,
		logg:    params.Logger,
		loc:     loc,
		maxRows: params.MaxRows,
		now:     now,
	}, nil
}

func (s *service) Export(ctx context.Context, scope visibility.Scope, req ExportRequest) (*File, error) {
	reportType, err := enums.ParseReportType(req.Type)
	if err != nil {
		return nil, pkgerrors.Validation("invalid report type", map[string]string{"type": "is invalid"})
	}
	format, err := enums.ParseReportFormat(req.Format)
	if err != nil {
		return nil, pkgerrors.Validation("invalid report format", map[string]string{"format": "must be pdf or xlsx"})
	}
	narrowed, err := s.narrow(scope, req.Lokasi)
	if err != nil {
		return nil, err
	}

	items, medicines, err := s.load(ctx, narrowed)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now()
	doc := Build(BuildInput{
		Type:        reportType,
		Period:      periodLabel(req.Period, narrowed, req.Lokasi),
		GeneratedAt: generatedAt,
		Today:       s.sweeper.Today(),
		Location:    s.loc,
		Items:       items,
		Medicines:   medicines,
	})

	var renderer Renderer = PDFRenderer{Location: s.loc}
	if format == enums.ReportFormatXLSX {
		renderer = XLSXRenderer{Location: s.loc}
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render report")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"report_type": string(reportType),
			"format":      string(format),
			"lokasi":      narrowed.Strings(),
		})
		s.logg.Info(ctx, "report.export")
	}

	return &File{
		Name:        FileName(reportType, format, generatedAt, s.loc),
		ContentType: format.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

func (s *service) Statistik(ctx context.Context, scope visibility.Scope, lokasi string) (*Stats, error) {
	narrowed, err := s.narrow(scope, lokasi)
	if err != nil {
		return nil, err
	}
	if err := s.sweeper.SweepIfEnabled(ctx, narrowed); err != nil {
		return nil, err
	}

	// Aggregated in SQL, so the export row cap does not apply here.
	locations := narrowed.Strings()
	var (
		items     []inventarisGroup
		medicines []obatGroup
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		var err error
		if items, err = r.InventarisGroups(ctx, locations); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: aggregate inventaris")
		}
		if medicines, err = r.ObatGroups(ctx, locations); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: aggregate obat")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	stats := statsFromGroups(items, medicines)
	return &stats, nil
}

func (s *service) narrow(scope visibility.Scope, lokasi string) (visibility.Scope, error) {
	if scope.IsEmpty() {
		return visibility.Scope{}, pkgerrors.New(pkgerrors.CodeForbidden, "invalid role")
	}
	return scope.Narrow(lokasi)
}

// load sweeps expired stock and then reads both tables in one transaction.
func (s *service) load(ctx context.Context, scope visibility.Scope) ([]models.Inventaris, []models.Obat, error) {
	if err := s.sweeper.SweepIfEnabled(ctx, scope); err != nil {
		return nil, nil, err
	}

	limit := 0
	if s.maxRows > 0 {
		limit = s.maxRows + 1
	}
	locations := scope.Strings()

	var (
		items     []models.Inventaris
		medicines []models.Obat
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		var err error
		if items, err = r.ListInventaris(ctx, locations, limit); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventaris")
		}
		if medicines, err = r.ListObat(ctx, locations, limit); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list obat")
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if s.maxRows > 0 && (len(items) > s.maxRows || len(medicines) > s.maxRows) {
		return nil, nil, pkgerrors.Validation("report too large", map[string]string{
			"lokasi": fmt.Sprintf("more than %d rows; filter by lokasi", s.maxRows),
		})
	}
	return items, medicines, nil
}

func periodLabel(raw string, scope visibility.Scope, lokasi string) string {
	label := enums.ReportPeriod(raw).Label()
	if strings.TrimSpace(lokasi) == "" {
		return label
	}
	locs := scope.Locations()
	if len(locs) != 1 {
		return label
	}
	return label + " | Lokasi: " + locs[0].DisplayName()
}
