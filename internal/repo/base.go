package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base provides a shared foundation for location-partitioned repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Scoped starts a query on model restricted to the given locations. Soft
// deleted rows are excluded by the model's DeletedAt field.
func (b Base) Scoped(ctx context.Context, model any, locations []string) *gorm.DB {
	return b.DB(ctx).Model(model).Where("lokasi IN ?", locations)
}

// WithTx returns a Base bound to tx, or b itself when tx is nil.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}
