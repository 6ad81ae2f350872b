package tariff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBand_KnownKey(t *testing.T) {
	cfg := Default()

	b, ok := cfg.Band("High")
	if !ok {
		t.Fatalf("expected High to resolve")
	}
	if b.Key != High || b.AdminMonthly != 400 {
		t.Fatalf("unexpected band: %+v", b)
	}
}

func TestBand_UnknownKeyFallsBackToDefault(t *testing.T) {
	cfg := Default()

	for _, key := range []string{"", "extreme", "  "} {
		b, ok := cfg.Band(key)
		if ok {
			t.Fatalf("key %q: expected fallback", key)
		}
		if b.Key != Medium {
			t.Fatalf("key %q: fallback band = %s, want %s", key, b.Key, Medium)
		}
	}
}

func TestEffectiveDevelopmentRate(t *testing.T) {
	cfg := Default()

	if got := cfg.EffectiveDevelopmentRate(SupportNone); got != 0.20 {
		t.Fatalf("none = %v, want 0.20", got)
	}
	if got := cfg.EffectiveDevelopmentRate(SupportPartial); got < 0.0999 || got > 0.1001 {
		t.Fatalf("partial = %v, want 0.10", got)
	}
	if got := cfg.EffectiveDevelopmentRate(SupportFull); got != 0 {
		t.Fatalf("full = %v, want 0", got)
	}

	cfg.SupportReductions[SupportFull] = 0.5
	if got := cfg.EffectiveDevelopmentRate(SupportFull); got != 0 {
		t.Fatalf("over-reduced rate = %v, want 0", got)
	}
}

func TestFullWeek_DefaultsWhenUnset(t *testing.T) {
	cfg := &Configuration{}
	if got := cfg.FullWeek(); got != 37.5 {
		t.Fatalf("FullWeek = %v, want 37.5", got)
	}
}

func TestParse_OverlaysBuiltInCatalog(t *testing.T) {
	data := []byte(`
default_band: low
development_rate: 0.15
bands:
  medium:
    electricity_rate: 0.20
    electricity_intensity: 100
    admin_monthly: 300
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DefaultBand != Low {
		t.Fatalf("default band = %s, want low", cfg.DefaultBand)
	}
	if cfg.DevelopmentRate != 0.15 {
		t.Fatalf("development rate = %v, want 0.15", cfg.DevelopmentRate)
	}
	medium := cfg.Bands[Medium]
	if medium.ElectricityRate != 0.20 || medium.AdminMonthly != 300 || medium.GasRate != 0 {
		t.Fatalf("medium band not replaced: %+v", medium)
	}
	if cfg.Bands[High].AdminMonthly != 400 {
		t.Fatalf("high band should be untouched")
	}
	if cfg.FullWeekHours != 37.5 {
		t.Fatalf("full week = %v, want default 37.5", cfg.FullWeekHours)
	}
}

func TestParse_RejectsNegativeRates(t *testing.T) {
	data := []byte(`
bands:
  low:
    water_rate: -1
`)
	if _, err := Parse(data); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestParse_RejectsUnknownDefaultBand(t *testing.T) {
	if _, err := Parse([]byte("default_band: platinum\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tariffs.yaml")
	if err := os.WriteFile(path, []byte("full_week_hours: 40\n"), 0o600); err != nil {
		t.Fatalf("write tariff file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FullWeek() != 40 {
		t.Fatalf("FullWeek = %v, want 40", cfg.FullWeek())
	}
}

func TestParse_ExplicitZeroDevelopmentRate(t *testing.T) {
	cfg, err := Parse([]byte("development_rate: 0\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DevelopmentRate != 0 {
		t.Fatalf("development rate = %v, want 0", cfg.DevelopmentRate)
	}
	if got := cfg.EffectiveDevelopmentRate(SupportNone); got != 0 {
		t.Fatalf("effective rate = %v, want 0", got)
	}
}

func TestParse_OmittedPolicyKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("bands:\n  low:\n    admin_monthly: 100\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DevelopmentRate != 0.20 || cfg.DefaultBand != Medium || cfg.FullWeekHours != 37.5 {
		t.Fatalf("policy should keep built-in values: %+v", cfg)
	}
}

func TestParse_RejectsUnknownSupportTier(t *testing.T) {
	_, err := Parse([]byte("support_reductions:\n  bogus: 0.5\n"))
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("expected unknown tier error, got %v", err)
	}
}

func TestParse_RejectsReductionOutOfRange(t *testing.T) {
	if _, err := Parse([]byte("support_reductions:\n  full: 1.5\n")); err == nil {
		t.Fatalf("expected reduction range error")
	}
}

func TestParse_RejectsZeroFullWeek(t *testing.T) {
	if _, err := Parse([]byte("full_week_hours: 0\n")); err == nil {
		t.Fatalf("expected full week error")
	}
}
