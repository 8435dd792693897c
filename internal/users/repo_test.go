package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sekolah-terpadu/inventaris-backend/pkg/db"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/dbtest"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	name := "  Ibu Sari "
	created, err := repo.Create(ctx, CreateUserDTO{
		Username:     " operator_sd ",
		PasswordHash: "hash",
		Role:         enums.RoleOperatorSD,
		FullName:     &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "operator_sd", created.Username)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.FullName)
	assert.Equal(t, "Ibu Sari", *created.FullName)

	found, err := repo.FindByUsername(ctx, "operator_sd")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, enums.RoleOperatorSD, found.Role)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "operator_sd", byID.Username)

	_, err = repo.FindByUsername(ctx, "missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryCreateInactive(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)

	inactive := false
	created, err := repo.Create(context.Background(), CreateUserDTO{
		Username:     "retired",
		PasswordHash: "hash",
		Role:         enums.RoleOperatorTK,
		IsActive:     &inactive,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestRepositoryDuplicateUsername(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserDTO{Username: "admin", PasswordHash: "a", Role: enums.RoleAdmin})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateUserDTO{Username: "admin", PasswordHash: "b", Role: enums.RoleAdmin})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "users_username_key"))
}

func TestRepositoryUpdates(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	inactive := false
	user, err := repo.Create(ctx, CreateUserDTO{Username: "u", PasswordHash: "old", Role: enums.RoleAdmin, IsActive: &inactive})
	require.NoError(t, err)

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))
	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new"))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.True(t, found.LastLoginAt.Equal(at))
	assert.Equal(t, "new", found.PasswordHash)
	assert.True(t, found.IsActive)
}

func TestFromModelIncludesLocations(t *testing.T) {
	dto := FromModel(CreateUserDTO{Username: "x", Role: enums.RoleAdmin}.ToModel())
	assert.Len(t, dto.Lokasi, 4)
	assert.Nil(t, FromModel(nil))
}
