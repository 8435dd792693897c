package enums

import "fmt"

// Kondisi is the physical condition of an inventory item.
type Kondisi string

const (
	KondisiBaik        Kondisi = "Baik"
	KondisiRusakRingan Kondisi = "Rusak Ringan"
	KondisiRusakBerat  Kondisi = "Rusak Berat"
)

var validKondisi = []Kondisi{
	KondisiBaik,
	KondisiRusakRingan,
	KondisiRusakBerat,
}

// AllKondisi returns every condition in display order.
func AllKondisi() []Kondisi {
	out := make([]Kondisi, len(validKondisi))
	copy(out, validKondisi)
	return out
}

// String implements fmt.Stringer.
func (k Kondisi) String() string {
	return string(k)
}

// IsValid reports whether the value is a known Kondisi.
func (k Kondisi) IsValid() bool {
	for _, candidate := range validKondisi {
		if candidate == k {
			return true
		}
	}
	return false
}

// NeedsAttention is true for any damaged condition.
func (k Kondisi) NeedsAttention() bool {
	return k != KondisiBaik
}

// ParseKondisi converts raw input into a Kondisi.
func ParseKondisi(value string) (Kondisi, error) {
	for _, candidate := range validKondisi {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid kondisi %q", value)
}
