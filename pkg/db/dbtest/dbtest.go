// Package dbtest opens in-memory SQLite databases carrying the same tables as
// the goose migrations, for repository and service tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		full_name TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE inventaris (
		id TEXT PRIMARY KEY,
		nama_barang TEXT NOT NULL,
		kategori TEXT NOT NULL,
		jumlah INTEGER NOT NULL DEFAULT 0 CHECK (jumlah >= 0),
		lokasi TEXT NOT NULL,
		kondisi TEXT NOT NULL,
		keterangan TEXT,
		tanggal_input DATETIME NOT NULL,
		created_by_user_id TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE obat (
		id TEXT PRIMARY KEY,
		nama_obat TEXT NOT NULL,
		jumlah INTEGER NOT NULL DEFAULT 0 CHECK (jumlah >= 0),
		lokasi TEXT NOT NULL,
		satuan TEXT,
		tanggal_kadaluarsa DATE,
		batas_minimal INTEGER NOT NULL DEFAULT 5 CHECK (batas_minimal >= 1),
		keterangan TEXT,
		tanggal_input DATETIME NOT NULL,
		created_by_user_id TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE riwayat_obat (
		id TEXT PRIMARY KEY,
		obat_id TEXT NOT NULL REFERENCES obat(id),
		jumlah_keluar INTEGER NOT NULL CHECK (jumlah_keluar > 0),
		tanggal_keluar DATETIME NOT NULL,
		keterangan TEXT,
		jenis TEXT NOT NULL,
		created_by_user_id TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE master_satuan (
		id TEXT PRIMARY KEY,
		nama TEXT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

// Open returns a fresh database private to the calling test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection keeps the in-memory database alive and avoids shared
	// cache table locks; code under test must only use tx inside WithTx.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return conn
}
