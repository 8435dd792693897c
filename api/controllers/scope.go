package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sekolah-terpadu/inventaris-backend/api/middleware"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/visibility"
)

// requestScope resolves the location scope from the authenticated role. The
// {role} path segment has already been matched against it by middleware.
func requestScope(r *http.Request) (visibility.Scope, error) {
	role := middleware.RoleFromContext(r.Context())
	if role == "" {
		return visibility.Scope{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "role context missing")
	}
	return visibility.ForRole(role)
}

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
