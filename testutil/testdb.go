// SPDX-License-Identifier: GPL-3.0-only

// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"authrelay-server/config"
	"authrelay-server/db"

	"gorm.io/gorm"
)

// OpenDB returns a migrated SQLite database living in t.TempDir.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := db.Open(&config.Config{
		DBDialect: "sqlite",
		DBPath:    filepath.Join(t.TempDir(), "authrelay_test.db"),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return conn
}
