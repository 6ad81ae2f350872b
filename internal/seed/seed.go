package seed

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/workshopcost/internal/store"
	"github.com/Simplici0/workshopcost/internal/tariff"
)

// Config contains the values required by startup seed.
type Config struct {
	// Tariffs is the catalog to seed from; nil uses the built-in catalog.
	Tariffs *tariff.Configuration
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way. Existing bands and
// policy are left untouched so admin edits survive restarts.
func Run(ctx context.Context, db *sqlx.DB, cfg Config) (Stats, error) {
	catalog := cfg.Tariffs
	if catalog == nil {
		catalog = tariff.Default()
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureBands(ctx, tx, catalog, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensurePolicy(ctx, tx, catalog, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureBands(ctx context.Context, tx *sqlx.Tx, catalog *tariff.Configuration, stats *Stats) error {
	for _, key := range catalog.Keys() {
		band := catalog.Bands[key]
		band.Key = key
		inserted, err := store.InsertBandIfMissing(ctx, tx, band)
		if err != nil {
			return err
		}
		if inserted {
			stats.Inserts++
		}
	}
	return nil
}

func ensurePolicy(ctx context.Context, tx *sqlx.Tx, catalog *tariff.Configuration, stats *Stats) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM engine_policy WHERE id = 1)`); err != nil {
		return fmt.Errorf("check engine policy existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO engine_policy (
			id,
			default_band,
			full_week_hours,
			development_rate,
			none_reduction,
			partial_reduction,
			full_reduction
		)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`,
		string(catalog.DefaultBand),
		catalog.FullWeek(),
		catalog.DevelopmentRate,
		catalog.SupportReductions[tariff.SupportNone],
		catalog.SupportReductions[tariff.SupportPartial],
		catalog.SupportReductions[tariff.SupportFull],
	); err != nil {
		return fmt.Errorf("insert engine policy singleton: %w", err)
	}
	stats.Inserts++
	return nil
}
