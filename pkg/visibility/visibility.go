package visibility

import (
	"strings"

	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	pkgerrors "github.com/sekolah-terpadu/inventaris-backend/pkg/errors"
)

// Scope is the set of school units a caller may read or write. Every
// repository query is constrained to Scope.Strings().
type Scope struct {
	role      enums.Role
	locations []enums.Lokasi
}

// ForRole resolves the scope for a raw role string. A role that maps to no
// location is rejected with a generic FORBIDDEN error.
func ForRole(raw string) (Scope, error) {
	role := enums.Role(strings.TrimSpace(raw))
	locs := role.Locations()
	if len(locs) == 0 {
		return Scope{}, pkgerrors.New(pkgerrors.CodeForbidden, "invalid role")
	}
	return Scope{role: role, locations: locs}, nil
}

// All is the unrestricted scope used by background jobs.
func All() Scope {
	return Scope{role: enums.RoleAdmin, locations: enums.AllLokasi()}
}

func (s Scope) Role() enums.Role {
	return s.role
}

// Locations returns a copy of the visible locations.
func (s Scope) Locations() []enums.Lokasi {
	out := make([]enums.Lokasi, len(s.locations))
	copy(out, s.locations)
	return out
}

// Strings returns the visible locations for SQL IN clauses.
func (s Scope) Strings() []string {
	return enums.LokasiStrings(s.locations)
}

func (s Scope) IsEmpty() bool {
	return len(s.locations) == 0
}

func (s Scope) Contains(lokasi enums.Lokasi) bool {
	for _, l := range s.locations {
		if l == lokasi {
			return true
		}
	}
	return false
}

// Require returns FORBIDDEN when lokasi falls outside the scope.
func (s Scope) Require(lokasi enums.Lokasi) error {
	if !s.Contains(lokasi) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "location not permitted")
	}
	return nil
}

// Narrow restricts the scope to a single location. An empty value keeps the
// scope unchanged; an unknown value is a validation error.
func (s Scope) Narrow(raw string) (Scope, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s, nil
	}
	lokasi, err := enums.ParseLokasi(raw)
	if err != nil {
		return Scope{}, pkgerrors.Validation("invalid lokasi", map[string]string{"lokasi": "is invalid"})
	}
	if err := s.Require(lokasi); err != nil {
		return Scope{}, err
	}
	return Scope{role: s.role, locations: []enums.Lokasi{lokasi}}, nil
}
