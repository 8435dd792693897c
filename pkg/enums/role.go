package enums

import "fmt"

// Role is the authorization role carried by a user and their access token.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleOperatorPAUD Role = "operator_paud"
	RoleOperatorTK   Role = "operator_tk"
	RoleOperatorSD   Role = "operator_sd"
	RoleOperatorSMP  Role = "operator_smp"
)

var validRoles = []Role{
	RoleAdmin,
	RoleOperatorPAUD,
	RoleOperatorTK,
	RoleOperatorSD,
	RoleOperatorSMP,
}

var roleLocations = map[Role][]Lokasi{
	RoleAdmin:        {LokasiPAUD, LokasiTK, LokasiSD, LokasiSMP},
	RoleOperatorPAUD: {LokasiPAUD},
	RoleOperatorTK:   {LokasiTK},
	RoleOperatorSD:   {LokasiSD},
	RoleOperatorSMP:  {LokasiSMP},
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Locations returns the school units visible to the role. Unknown roles see
// nothing. The returned slice is a copy.
func (r Role) Locations() []Lokasi {
	locs := roleLocations[r]
	out := make([]Lokasi, len(locs))
	copy(out, locs)
	return out
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
