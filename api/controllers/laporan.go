package controllers

import (
	"net/http"

	"github.com/sekolah-terpadu/inventaris-backend/api/responses"
	"github.com/sekolah-terpadu/inventaris-backend/api/validators"
	"github.com/sekolah-terpadu/inventaris-backend/internal/reports"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/logger"
)

const maxQueryLen = 64

func reportsUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable")
}

// LaporanExport streams a PDF or XLSX report as an attachment.
func LaporanExport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, reportsUnavailable())
			return
		}
		scope, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := reports.ExportRequest{
			Type:   validators.QueryString(r, "type", maxQueryLen),
			Format: validators.QueryString(r, "format", maxQueryLen),
			Period: validators.QueryString(r, "period", maxQueryLen),
			Lokasi: validators.QueryString(r, "lokasi", maxQueryLen),
		}
		file, err := svc.Export(r.Context(), scope, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteAttachment(w, file.Name, file.ContentType, file.Body)
	}
}

// LaporanStatistik returns the report summary numbers as JSON.
func LaporanStatistik(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, reportsUnavailable())
			return
		}
		scope, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Statistik(r.Context(), scope, validators.QueryString(r, "lokasi", maxQueryLen))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
