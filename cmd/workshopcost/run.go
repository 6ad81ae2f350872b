package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/workshopcost/internal/costing"
	"github.com/Simplici0/workshopcost/internal/db"
	"github.com/Simplici0/workshopcost/internal/migrations"
	"github.com/Simplici0/workshopcost/internal/report"
	"github.com/Simplici0/workshopcost/internal/seed"
	"github.com/Simplici0/workshopcost/internal/tariff"
)

type hostInput struct {
	Title    string           `yaml:"title"`
	Workshop costing.Workshop `yaml:"workshop"`
}

type productionInput struct {
	Title    string                   `yaml:"title"`
	Workshop costing.Workshop         `yaml:"workshop"`
	Items    []costing.ProductionItem `yaml:"items"`
}

type adhocInput struct {
	Title    string                   `yaml:"title"`
	Workshop costing.Workshop         `yaml:"workshop"`
	Today    string                   `yaml:"today"`
	Lines    []costing.AdhocLineInput `yaml:"lines"`
}

// readInput strictly decodes a YAML input file; unknown keys are errors.
func readInput(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadTariffs(path string) (*tariff.Configuration, error) {
	cfg := tariff.Default()
	if path != "" {
		loaded, err := tariff.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tariffs: %w", err)
	}
	return cfg, nil
}

func runHost(w io.Writer, opts *options, path string) error {
	var in hostInput
	if err := readInput(path, &in); err != nil {
		return err
	}
	if err := in.Workshop.Validate(); err != nil {
		return fmt.Errorf("invalid workshop:\n%w", err)
	}
	cfg, err := loadTariffs(opts.tariffs)
	if err != nil {
		return err
	}

	q := costing.ComputeHostBreakdown(cfg, in.Workshop)
	doc := report.Host(meta(opts, in.Title, in.Workshop, q.Overheads), q)
	return write(w, opts.format, doc, q)
}

func runProduction(w io.Writer, opts *options, path string) error {
	var in productionInput
	if err := readInput(path, &in); err != nil {
		return err
	}
	if err := errors.Join(in.Workshop.Validate(), costing.ValidateItems(in.Items, in.Workshop.Prisoners)); err != nil {
		return fmt.Errorf("invalid input:\n%w", err)
	}
	cfg, err := loadTariffs(opts.tariffs)
	if err != nil {
		return err
	}

	q := costing.ComputeProductionContractual(cfg, in.Items, in.Workshop)
	doc := report.Production(meta(opts, in.Title, in.Workshop, q.Overheads), q)
	return write(w, opts.format, doc, q)
}

func runAdhoc(w io.Writer, opts *options, path, todayFlag string) error {
	var in adhocInput
	if err := readInput(path, &in); err != nil {
		return err
	}
	if todayFlag != "" {
		in.Today = todayFlag
	}
	lines, today, err := costing.ParseAdhocRequest(in.Workshop, in.Today, in.Lines, time.Now())
	if err != nil {
		return fmt.Errorf("invalid input:\n%w", err)
	}
	cfg, err := loadTariffs(opts.tariffs)
	if err != nil {
		return err
	}

	res := costing.ComputeAdhocJob(cfg, lines, in.Workshop, today)
	doc := report.Adhoc(meta(opts, in.Title, in.Workshop, res.Overheads), res)
	return write(w, opts.format, doc, res)
}

func runTariffs(w io.Writer, opts *options) error {
	cfg, err := loadTariffs(opts.tariffs)
	if err != nil {
		return err
	}
	return write(w, opts.format, report.Tariffs(cfg, opts.currency), cfg)
}

func runMigrate(ctx context.Context, w io.Writer, dbPath, tariffFile string) error {
	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(database.DB); err != nil {
		return err
	}
	version, err := migrations.Version(database.DB)
	if err != nil {
		return err
	}

	seedCfg := seed.Config{}
	if tariffFile != "" {
		catalog, err := tariff.Load(tariffFile)
		if err != nil {
			return err
		}
		seedCfg.Tariffs = catalog
	}
	stats, err := seed.Run(ctx, database, seedCfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: schema version %d, %d rows seeded\n", dbPath, version, stats.Inserts)
	return nil
}

func meta(opts *options, title string, ws costing.Workshop, oh costing.Overheads) report.Meta {
	return report.Meta{
		Title:    title,
		Customer: string(ws.Customer),
		Band:     string(oh.Band),
		Currency: opts.currency,
	}
}
