package migrations_test

import (
	"context"
	"testing"

	"github.com/ecotrip/flightgame/internal/database"
	"github.com/ecotrip/flightgame/internal/migrations"
)

func TestMigrations(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	// Verify all tables exist by querying sqlite_master.
	want := []string{"airports", "countries", "sessions", "results"}

	for _, table := range want {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsSeed(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	var airports, countries int
	if err := db.QueryRow("SELECT COUNT(*) FROM airports").Scan(&airports); err != nil {
		t.Fatalf("counting airports: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM countries").Scan(&countries); err != nil {
		t.Fatalf("counting countries: %v", err)
	}

	if airports < 40 {
		t.Errorf("seeded %d airports, want at least 40", airports)
	}
	if countries < 35 {
		t.Errorf("seeded %d countries, want at least 35", countries)
	}

	// The start airport must be in the seed set.
	var name string
	if err := db.QueryRow("SELECT name FROM airports WHERE ident = 'EFHK'").Scan(&name); err != nil {
		t.Errorf("start airport EFHK missing: %v", err)
	}

	// Every seeded airport's country must have a clue.
	var orphans int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM airports a
		LEFT JOIN countries c ON c.iso = a.iso_country
		WHERE c.iso IS NULL
	`).Scan(&orphans)
	if err != nil {
		t.Fatalf("checking clue coverage: %v", err)
	}
	if orphans != 0 {
		t.Errorf("%d airports have no country clue", orphans)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(db); err != nil {
		t.Fatalf("second run (should be no-op): %v", err)
	}
}
