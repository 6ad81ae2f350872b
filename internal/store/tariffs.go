package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/workshopcost/internal/tariff"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// TariffStore persists the tariff set and engine policy.
type TariffStore struct {
	db *sqlx.DB
}

func NewTariffStore(db *sqlx.DB) *TariffStore {
	return &TariffStore{db: db}
}

type policyRow struct {
	DefaultBand      string  `db:"default_band"`
	FullWeekHours    float64 `db:"full_week_hours"`
	DevelopmentRate  float64 `db:"development_rate"`
	NoneReduction    float64 `db:"none_reduction"`
	PartialReduction float64 `db:"partial_reduction"`
	FullReduction    float64 `db:"full_reduction"`
}

const selectBands = `
	SELECT
		band_key,
		electricity_rate,
		gas_rate,
		electricity_daily_charge,
		gas_daily_charge,
		water_rate,
		admin_monthly,
		electricity_intensity,
		gas_intensity,
		water_per_employee,
		maintenance_per_area
	FROM tariff_bands
	ORDER BY band_key
`

// Snapshot reads bands and policy inside one transaction so a calculation
// never sees a half-applied update.
func (s *TariffStore) Snapshot(ctx context.Context) (*tariff.Configuration, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tariff snapshot: %w", err)
	}
	defer tx.Rollback()

	var bands []tariff.Band
	if err := tx.SelectContext(ctx, &bands, selectBands); err != nil {
		return nil, fmt.Errorf("query tariff bands: %w", err)
	}

	var p policyRow
	err = tx.GetContext(ctx, &p, `
		SELECT default_band, full_week_hours, development_rate, none_reduction, partial_reduction, full_reduction
		FROM engine_policy
		WHERE id = 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("engine_policy singleton: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query engine_policy: %w", err)
	}

	cfg := &tariff.Configuration{
		Bands:           make(map[tariff.BandKey]tariff.Band, len(bands)),
		DefaultBand:     tariff.BandKey(p.DefaultBand),
		FullWeekHours:   p.FullWeekHours,
		DevelopmentRate: p.DevelopmentRate,
		SupportReductions: map[tariff.SupportTier]float64{
			tariff.SupportNone:    p.NoneReduction,
			tariff.SupportPartial: p.PartialReduction,
			tariff.SupportFull:    p.FullReduction,
		},
	}
	for _, b := range bands {
		cfg.Bands[b.Key] = b
	}
	return cfg, nil
}

const upsertBand = `
	INSERT INTO tariff_bands (
		band_key,
		electricity_rate,
		gas_rate,
		electricity_daily_charge,
		gas_daily_charge,
		water_rate,
		admin_monthly,
		electricity_intensity,
		gas_intensity,
		water_per_employee,
		maintenance_per_area
	) VALUES (
		:band_key,
		:electricity_rate,
		:gas_rate,
		:electricity_daily_charge,
		:gas_daily_charge,
		:water_rate,
		:admin_monthly,
		:electricity_intensity,
		:gas_intensity,
		:water_per_employee,
		:maintenance_per_area
	)
	ON CONFLICT(band_key) DO UPDATE SET
		electricity_rate = excluded.electricity_rate,
		gas_rate = excluded.gas_rate,
		electricity_daily_charge = excluded.electricity_daily_charge,
		gas_daily_charge = excluded.gas_daily_charge,
		water_rate = excluded.water_rate,
		admin_monthly = excluded.admin_monthly,
		electricity_intensity = excluded.electricity_intensity,
		gas_intensity = excluded.gas_intensity,
		water_per_employee = excluded.water_per_employee,
		maintenance_per_area = excluded.maintenance_per_area,
		updated_at = CURRENT_TIMESTAMP
`

// SaveBand validates and stores one band, replacing any existing values.
func (s *TariffStore) SaveBand(ctx context.Context, b tariff.Band) error {
	if b.Key == "" {
		return errors.New("band key is required")
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if _, err := s.db.NamedExecContext(ctx, upsertBand, b); err != nil {
		return fmt.Errorf("save tariff band %s: %w", b.Key, err)
	}
	return nil
}

// InsertBandIfMissing stores b unless a band with the same key exists. It
// reports whether a row was written.
func InsertBandIfMissing(ctx context.Context, tx *sqlx.Tx, b tariff.Band) (bool, error) {
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM tariff_bands WHERE band_key = ?)`, b.Key); err != nil {
		return false, fmt.Errorf("check tariff band %s: %w", b.Key, err)
	}
	if exists {
		return false, nil
	}
	if _, err := tx.NamedExecContext(ctx, upsertBand, b); err != nil {
		return false, fmt.Errorf("insert tariff band %s: %w", b.Key, err)
	}
	return true, nil
}
