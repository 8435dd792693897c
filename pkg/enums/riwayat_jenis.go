package enums

import "fmt"

// RiwayatJenis distinguishes manual usage from automatic expiry removal in
// the medicine ledger.
type RiwayatJenis string

const (
	RiwayatJenisPemakaian  RiwayatJenis = "pemakaian"
	RiwayatJenisKadaluarsa RiwayatJenis = "kadaluarsa"
)

var validRiwayatJenis = []RiwayatJenis{
	RiwayatJenisPemakaian,
	RiwayatJenisKadaluarsa,
}

// String implements fmt.Stringer.
func (r RiwayatJenis) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RiwayatJenis.
func (r RiwayatJenis) IsValid() bool {
	for _, candidate := range validRiwayatJenis {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRiwayatJenis converts raw input into a RiwayatJenis.
func ParseRiwayatJenis(value string) (RiwayatJenis, error) {
	for _, candidate := range validRiwayatJenis {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid riwayat jenis %q", value)
}
