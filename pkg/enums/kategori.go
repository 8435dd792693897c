package enums

import "fmt"

// Kategori groups inventory items.
type Kategori string

const (
	KategoriPeralatan  Kategori = "Peralatan"
	KategoriPerabot    Kategori = "Perabot"
	KategoriElektronik Kategori = "Elektronik"
	KategoriBuku       Kategori = "Buku"
	KategoriObat       Kategori = "Obat-obatan"
)

var validKategori = []Kategori{
	KategoriPeralatan,
	KategoriPerabot,
	KategoriElektronik,
	KategoriBuku,
	KategoriObat,
}

// AllKategori returns every category in display order.
func AllKategori() []Kategori {
	out := make([]Kategori, len(validKategori))
	copy(out, validKategori)
	return out
}

// String implements fmt.Stringer.
func (k Kategori) String() string {
	return string(k)
}

// IsValid reports whether the value is a known Kategori.
func (k Kategori) IsValid() bool {
	for _, candidate := range validKategori {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseKategori converts raw input into a Kategori.
func ParseKategori(value string) (Kategori, error) {
	for _, candidate := range validKategori {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid kategori %q", value)
}
