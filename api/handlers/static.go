package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sekolah-terpadu/inventaris-backend/api/responses"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/logger"
)

const indexFile = "index.html"

// Static serves the built frontend from dir. Paths that do not resolve to a
// file fall back to index.html so client-side routes survive a reload. With
// no dir configured every non-API path answers with a JSON 404.
func Static(dir string, logg *logger.Logger) http.HandlerFunc {
	root := strings.TrimSpace(dir)
	return func(w http.ResponseWriter, r *http.Request) {
		if root == "" || strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
			return
		}

		clean := path.Clean("/" + r.URL.Path)
		target := filepath.Join(root, filepath.FromSlash(clean))
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			http.ServeFile(w, r, target)
			return
		}

		index := filepath.Join(root, indexFile)
		if _, err := os.Stat(index); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
			return
		}
		http.ServeFile(w, r, index)
	}
}
