package tariff

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DaysPerMonth is the average number of days in a month, used to turn daily
// standing charges into monthly amounts.
const DaysPerMonth = 365.0 / 12.0

const (
	defaultFullWeekHours   = 37.5
	defaultDevelopmentRate = 0.20
)

// BandKey identifies a usage-intensity band.
type BandKey string

const (
	Low    BandKey = "low"
	Medium BandKey = "medium"
	High   BandKey = "high"
)

// SupportTier is the employment-support tier a commercial customer qualifies for.
type SupportTier string

const (
	SupportNone    SupportTier = "none"
	SupportPartial SupportTier = "partial"
	SupportFull    SupportTier = "full"
)

// Band bundles unit rates and annual consumption intensities for one usage band.
type Band struct {
	Key                    BandKey `yaml:"-" json:"key" db:"band_key"`
	ElectricityRate        float64 `yaml:"electricity_rate" json:"electricity_rate" db:"electricity_rate"`
	GasRate                float64 `yaml:"gas_rate" json:"gas_rate" db:"gas_rate"`
	ElectricityDailyCharge float64 `yaml:"electricity_daily_charge" json:"electricity_daily_charge" db:"electricity_daily_charge"`
	GasDailyCharge         float64 `yaml:"gas_daily_charge" json:"gas_daily_charge" db:"gas_daily_charge"`
	WaterRate              float64 `yaml:"water_rate" json:"water_rate" db:"water_rate"`
	AdminMonthly           float64 `yaml:"admin_monthly" json:"admin_monthly" db:"admin_monthly"`
	ElectricityIntensity   float64 `yaml:"electricity_intensity" json:"electricity_intensity" db:"electricity_intensity"`
	GasIntensity           float64 `yaml:"gas_intensity" json:"gas_intensity" db:"gas_intensity"`
	WaterPerEmployee       float64 `yaml:"water_per_employee" json:"water_per_employee" db:"water_per_employee"`
	MaintenancePerArea     float64 `yaml:"maintenance_per_area" json:"maintenance_per_area" db:"maintenance_per_area"`
}

// Validate reports negative rates or intensities.
func (b Band) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"electricity_rate", b.ElectricityRate},
		{"gas_rate", b.GasRate},
		{"electricity_daily_charge", b.ElectricityDailyCharge},
		{"gas_daily_charge", b.GasDailyCharge},
		{"water_rate", b.WaterRate},
		{"admin_monthly", b.AdminMonthly},
		{"electricity_intensity", b.ElectricityIntensity},
		{"gas_intensity", b.GasIntensity},
		{"water_per_employee", b.WaterPerEmployee},
		{"maintenance_per_area", b.MaintenancePerArea},
	}
	var errs []error
	for _, f := range fields {
		if f.value < 0 {
			errs = append(errs, fmt.Errorf("band %s: %s must be >= 0", b.Key, f.name))
		}
	}
	return errors.Join(errs...)
}

// Configuration is a read-only snapshot of the tariff set and the engine
// policy constants. Calculators receive it by pointer and never modify it.
type Configuration struct {
	Bands             map[BandKey]Band        `yaml:"bands" json:"bands"`
	DefaultBand       BandKey                 `yaml:"default_band" json:"default_band"`
	FullWeekHours     float64                 `yaml:"full_week_hours" json:"full_week_hours"`
	DevelopmentRate   float64                 `yaml:"development_rate" json:"development_rate"`
	SupportReductions map[SupportTier]float64 `yaml:"support_reductions" json:"support_reductions"`
}

// Default returns the built-in catalog.
func Default() *Configuration {
	return &Configuration{
		Bands: map[BandKey]Band{
			Low: {
				Key:                    Low,
				ElectricityRate:        0.24,
				GasRate:                0.06,
				ElectricityDailyCharge: 0.45,
				GasDailyCharge:         0.28,
				WaterRate:              2.10,
				AdminMonthly:           150,
				ElectricityIntensity:   60,
				GasIntensity:           90,
				WaterPerEmployee:       12,
				MaintenancePerArea:     6,
			},
			Medium: {
				Key:                    Medium,
				ElectricityRate:        0.26,
				GasRate:                0.07,
				ElectricityDailyCharge: 0.55,
				GasDailyCharge:         0.31,
				WaterRate:              2.30,
				AdminMonthly:           250,
				ElectricityIntensity:   100,
				GasIntensity:           150,
				WaterPerEmployee:       15,
				MaintenancePerArea:     10,
			},
			High: {
				Key:                    High,
				ElectricityRate:        0.28,
				GasRate:                0.08,
				ElectricityDailyCharge: 0.65,
				GasDailyCharge:         0.35,
				WaterRate:              2.50,
				AdminMonthly:           400,
				ElectricityIntensity:   160,
				GasIntensity:           220,
				WaterPerEmployee:       20,
				MaintenancePerArea:     16,
			},
		},
		DefaultBand:     Medium,
		FullWeekHours:   defaultFullWeekHours,
		DevelopmentRate: defaultDevelopmentRate,
		SupportReductions: map[SupportTier]float64{
			SupportNone:    0,
			SupportPartial: 0.10,
			SupportFull:    0.20,
		},
	}
}

// Band resolves key to a band. Unknown or blank keys resolve to the default
// band and report false so callers can surface the fallback.
func (c *Configuration) Band(key string) (Band, bool) {
	k := BandKey(strings.ToLower(strings.TrimSpace(key)))
	if b, ok := c.Bands[k]; ok {
		b.Key = k
		return b, true
	}
	b := c.Bands[c.DefaultBand]
	b.Key = c.DefaultBand
	return b, false
}

// FullWeek returns the reference full-utilisation week in hours.
func (c *Configuration) FullWeek() float64 {
	if c.FullWeekHours <= 0 {
		return defaultFullWeekHours
	}
	return c.FullWeekHours
}

// EffectiveDevelopmentRate applies the tier reduction to the configured rate.
func (c *Configuration) EffectiveDevelopmentRate(tier SupportTier) float64 {
	rate := c.DevelopmentRate - c.SupportReductions[tier]
	if rate < 0 {
		return 0
	}
	return rate
}

// Keys returns the configured band keys in sorted order.
func (c *Configuration) Keys() []BandKey {
	keys := make([]BandKey, 0, len(c.Bands))
	for k := range c.Bands {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Validate checks the configuration is usable by the engine.
func (c *Configuration) Validate() error {
	var errs []error
	if len(c.Bands) == 0 {
		errs = append(errs, errors.New("no tariff bands configured"))
	}
	if _, ok := c.Bands[c.DefaultBand]; !ok {
		errs = append(errs, fmt.Errorf("default band %q is not configured", c.DefaultBand))
	}
	if c.FullWeekHours <= 0 {
		errs = append(errs, errors.New("full_week_hours must be > 0"))
	}
	if c.DevelopmentRate < 0 || c.DevelopmentRate > 1 {
		errs = append(errs, errors.New("development_rate must be between 0 and 1"))
	}
	for tier, reduction := range c.SupportReductions {
		switch tier {
		case SupportNone, SupportPartial, SupportFull:
		default:
			errs = append(errs, fmt.Errorf("support_reductions: tier %q is not recognised", tier))
			continue
		}
		if reduction < 0 || reduction > 1 {
			errs = append(errs, fmt.Errorf("support_reductions.%s must be between 0 and 1", tier))
		}
	}
	for _, k := range c.Keys() {
		b := c.Bands[k]
		b.Key = k
		if err := b.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load reads a YAML tariff file and overlays it on the built-in catalog.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tariff file: %w", err)
	}
	return Parse(data)
}

// overlay is a tariff document as written. Pointers tell an explicit zero
// apart from an omitted field.
type overlay struct {
	Bands             map[BandKey]Band        `yaml:"bands"`
	DefaultBand       *BandKey                `yaml:"default_band"`
	FullWeekHours     *float64                `yaml:"full_week_hours"`
	DevelopmentRate   *float64                `yaml:"development_rate"`
	SupportReductions map[SupportTier]float64 `yaml:"support_reductions"`
}

// Parse overlays YAML tariff data on the built-in catalog. Bands present in the
// document replace the built-in band of the same key wholesale; policy fields
// present in the document replace the built-in value, zero included.
func Parse(data []byte) (*Configuration, error) {
	var doc overlay
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tariff yaml: %w", err)
	}

	cfg := Default()
	for k, b := range doc.Bands {
		k = BandKey(strings.ToLower(string(k)))
		b.Key = k
		cfg.Bands[k] = b
	}
	if doc.DefaultBand != nil {
		cfg.DefaultBand = BandKey(strings.ToLower(string(*doc.DefaultBand)))
	}
	if doc.FullWeekHours != nil {
		cfg.FullWeekHours = *doc.FullWeekHours
	}
	if doc.DevelopmentRate != nil {
		cfg.DevelopmentRate = *doc.DevelopmentRate
	}
	for tier, reduction := range doc.SupportReductions {
		cfg.SupportReductions[tier] = reduction
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tariff configuration: %w", err)
	}
	return cfg, nil
}
