package obat

import (
	"time"

	"github.com/sekolah-terpadu/inventaris-backend/pkg/db/models"
)

// ExpiringSoonWindow is how far ahead an expiry date counts as approaching.
const ExpiringSoonWindow = 30 * 24 * time.Hour

const (
	labelLowStock     = "Stok Menipis"
	labelSafe         = "Stok Aman"
	labelExpired      = ", Kadaluarsa"
	labelExpiringSoon = ", Akan Kadaluarsa"
)

// StockStatus flags a medicine for display.
type StockStatus struct {
	LowStock     bool   `json:"low_stock"`
	ExpiringSoon bool   `json:"expiring_soon"`
	Expired      bool   `json:"expired"`
	Label        string `json:"label"`
}

// Classify derives the status of row as of today, a UTC-midnight date.
func Classify(row models.Obat, today time.Time) StockStatus {
	status := StockStatus{LowStock: row.Jumlah <= row.BatasMinimal}
	if expiry := row.ExpiryDate(); expiry != nil {
		status.Expired = expiry.Before(today)
		status.ExpiringSoon = !expiry.After(today.Add(ExpiringSoonWindow))
	}
	status.Label = status.label()
	return status
}

// NeedsAttention is true when the row belongs on the dashboard warning list.
func (s StockStatus) NeedsAttention() bool {
	return s.LowStock || s.ExpiringSoon
}

func (s StockStatus) label() string {
	label := labelSafe
	if s.LowStock {
		label = labelLowStock
	}
	switch {
	case s.Expired:
		label += labelExpired
	case s.ExpiringSoon:
		label += labelExpiringSoon
	}
	return label
}

// Today returns the calendar date of now in loc, as UTC midnight so it
// compares directly with stored expiry dates.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
