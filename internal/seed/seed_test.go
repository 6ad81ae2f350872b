package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/workshopcost/internal/db"
	"github.com/Simplici0/workshopcost/internal/migrations"
	"github.com/Simplici0/workshopcost/internal/store"
	"github.com/Simplici0/workshopcost/internal/tariff"
)

func newSeedTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database.DB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func TestRunIsIdempotent(t *testing.T) {
	database := newSeedTestDB(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, database, Config{})
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 4 {
				t.Fatalf("expected 4 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM tariff_bands`, 3)
	assertCount(t, database, `SELECT COUNT(*) FROM engine_policy WHERE id = 1`, 1)
}

func TestRunKeepsAdminEdits(t *testing.T) {
	database := newSeedTestDB(t)
	ctx := context.Background()

	if _, err := Run(ctx, database, Config{}); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	tariffs := store.NewTariffStore(database)
	edited := tariff.Default().Bands[tariff.Low]
	edited.Key = tariff.Low
	edited.AdminMonthly = 175
	if err := tariffs.SaveBand(ctx, edited); err != nil {
		t.Fatalf("save band: %v", err)
	}

	if _, err := Run(ctx, database, Config{}); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	snap, err := tariffs.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got := snap.Bands[tariff.Low].AdminMonthly; got != 175 {
		t.Fatalf("low admin monthly = %v, want 175", got)
	}
}

func TestRunUsesSuppliedCatalog(t *testing.T) {
	database := newSeedTestDB(t)
	ctx := context.Background()

	catalog, err := tariff.Parse([]byte("default_band: high\nfull_week_hours: 40\n"))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	if _, err := Run(ctx, database, Config{Tariffs: catalog}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	snap, err := store.NewTariffStore(database).Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.DefaultBand != tariff.High || snap.FullWeek() != 40 {
		t.Fatalf("unexpected policy: default=%s fullWeek=%v", snap.DefaultBand, snap.FullWeek())
	}
}

func assertCount(t *testing.T, database *sqlx.DB, query string, expected int) {
	t.Helper()

	var count int
	if err := database.Get(&count, query); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
