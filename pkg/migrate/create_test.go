package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMigrationSlug(t *testing.T) {
	tests := map[string]string{
		"Add Obat Barcode":        "add_obat_barcode",
		"  riwayat-obat: index  ": "riwayat_obat_index",
		"Satuan__Aktif":           "satuan_aktif",
		"!!!":                     "",
	}
	for in, want := range tests {
		if got := migrationSlug(in); got != want {
			t.Fatalf("migrationSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateSQLMigrationRejectsDuplicateSlug(t *testing.T) {
	dir := t.TempDir()
	first := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	path, err := createSQLMigration(dir, "Add Obat Barcode", first)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20260310080000_add_obat_barcode.sql" {
		t.Fatalf("unexpected file %s", path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(body), "-- +goose Up") || !strings.Contains(string(body), "rollback add_obat_barcode") {
		t.Fatalf("unexpected template:\n%s", body)
	}

	if _, err := createSQLMigration(dir, "add obat barcode", first.Add(time.Hour)); err == nil {
		t.Fatal("expected duplicate slug error")
	}
	if _, err := createSQLMigration(dir, "???", first); err == nil {
		t.Fatal("expected empty slug error")
	}
}
