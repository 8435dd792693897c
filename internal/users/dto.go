package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Username    string         `json:"username"`
	Role        enums.Role     `json:"role"`
	FullName    *string        `json:"full_name,omitempty"`
	Lokasi      []enums.Lokasi `json:"lokasi"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	PasswordHash string
	Role         enums.Role
	FullName     *string
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		FullName:    u.FullName,
		Lokasi:      u.Role.Locations(),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	var fullName *string
	if c.FullName != nil {
		if trimmed := strings.TrimSpace(*c.FullName); trimmed != "" {
			fullName = &trimmed
		}
	}

	return &models.User{
		Username:     strings.TrimSpace(c.Username),
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
		FullName:     fullName,
		IsActive:     isActive,
	}
}
