package satuan

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
)

const uniqueNamaConstraint = "master_satuan_nama_key"

// SatuanDTO is a unit of measure offered in the medicine form.
type SatuanDTO struct {
	ID   uuid.UUID `json:"id"`
	Nama string    `json:"nama"`
}

// CreateInput is the body of POST /api/satuan.
type CreateInput struct {
	Nama string `json:"nama" validate:"required,max=50"`
}

type Service interface {
	List(ctx context.Context) ([]SatuanDTO, error)
	Create(ctx context.Context, scope visibility.Scope, input CreateInput) (*SatuanDTO, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("satuan repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]SatuanDTO, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list satuan")
	}
	out := make([]SatuanDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, SatuanDTO{ID: row.ID, Nama: row.Nama})
	}
	return out, nil
}

// Create adds a unit. Only administrators manage the lookup table.
func (s *service) Create(ctx context.Context, scope visibility.Scope, input CreateInput) (*SatuanDTO, error) {
	if scope.Role() != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	nama := strings.ToLower(strings.TrimSpace(input.Nama))
	if nama == "" {
		return nil, pkgerrors.Validation("validation failed", map[string]string{"nama": "is required"})
	}

	row := &models.MasterSatuan{Nama: nama, IsActive: true}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, uniqueNamaConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "satuan already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert satuan")
	}
	return &SatuanDTO{ID: row.ID, Nama: row.Nama}, nil
}
