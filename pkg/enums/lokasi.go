package enums

import "fmt"

// Lokasi is a school unit. Every inventory and medicine row belongs to one.
type Lokasi string

const (
	LokasiPAUD Lokasi = "PAUD"
	LokasiTK   Lokasi = "TK"
	LokasiSD   Lokasi = "SD"
	LokasiSMP  Lokasi = "SMP"
)

// validLokasi is ordered; report sorting relies on it.
var validLokasi = []Lokasi{
	LokasiPAUD,
	LokasiTK,
	LokasiSD,
	LokasiSMP,
}

// AllLokasi returns every location in display order.
func AllLokasi() []Lokasi {
	out := make([]Lokasi, len(validLokasi))
	copy(out, validLokasi)
	return out
}

// String implements fmt.Stringer.
func (l Lokasi) String() string {
	return string(l)
}

// IsValid reports whether the value is a known Lokasi.
func (l Lokasi) IsValid() bool {
	return l.Order() >= 0
}

// Order is the position of the location in display order, or -1.
func (l Lokasi) Order() int {
	for i, candidate := range validLokasi {
		if candidate == l {
			return i
		}
	}
	return -1
}

// DisplayName is the label used in exported reports. TK is printed as TBSD.
func (l Lokasi) DisplayName() string {
	if l == LokasiTK {
		return "TBSD"
	}
	return string(l)
}

// ParseLokasi converts raw input into a Lokasi.
func ParseLokasi(value string) (Lokasi, error) {
	for _, candidate := range validLokasi {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lokasi %q", value)
}

// LokasiStrings converts a location slice for use in SQL IN clauses.
func LokasiStrings(locs []Lokasi) []string {
	out := make([]string, 0, len(locs))
	for _, l := range locs {
		out = append(out, string(l))
	}
	return out
}
