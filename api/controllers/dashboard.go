package controllers

import (
	"net/http"

	"github.com/sekolah-terpadu/inventaris-backend/api/responses"
	"github.com/sekolah-terpadu/inventaris-backend/internal/dashboard"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/logger"
)

// Dashboard returns the per-role summary counters and attention lists.
func Dashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		scope, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Get(r.Context(), scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
