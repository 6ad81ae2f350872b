package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const createdAtLayout = "2006-01-02 15:04:05"

// Mode is the billing mode a quote was produced under.
type Mode string

const (
	ModeHost       Mode = "host"
	ModeProduction Mode = "production"
	ModeAdhoc      Mode = "adhoc"
)

// NewQuote is what a calculation hands to the quote log.
type NewQuote struct {
	Mode       Mode
	Title      string
	Customer   string
	Band       string
	GrandTotal float64
	HardBlock  bool
	Params     any
	Result     any
}

// Quote is a logged calculation snapshot. Params and Result hold the JSON
// written at calculation time; reading a quote never recalculates it.
type Quote struct {
	ID         string          `db:"id" json:"id"`
	CreatedAt  string          `db:"created_at" json:"created_at"`
	Mode       Mode            `db:"mode" json:"mode"`
	Title      string          `db:"title" json:"title"`
	Customer   string          `db:"customer" json:"customer"`
	Band       string          `db:"band" json:"band"`
	GrandTotal float64         `db:"grand_total" json:"grand_total"`
	HardBlock  bool            `db:"hard_block" json:"hard_block"`
	ParamsJSON string          `db:"params_json" json:"-"`
	ResultJSON string          `db:"result_json" json:"-"`
	Params     json.RawMessage `db:"-" json:"params"`
	Result     json.RawMessage `db:"-" json:"result"`
}

// QuoteSummary is one row of the quote list.
type QuoteSummary struct {
	ID         string  `db:"id" json:"id"`
	CreatedAt  string  `db:"created_at" json:"created_at"`
	Mode       Mode    `db:"mode" json:"mode"`
	Title      string  `db:"title" json:"title"`
	Customer   string  `db:"customer" json:"customer"`
	GrandTotal float64 `db:"grand_total" json:"grand_total"`
	HardBlock  bool    `db:"hard_block" json:"hard_block"`
}

// QuoteLog records calculations with identifying metadata.
type QuoteLog struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewQuoteLog(db *sqlx.DB) *QuoteLog {
	return &QuoteLog{db: db, now: time.Now}
}

// Record stores a quote snapshot and returns it with its generated id.
func (l *QuoteLog) Record(ctx context.Context, q NewQuote) (Quote, error) {
	params, err := json.Marshal(q.Params)
	if err != nil {
		return Quote{}, fmt.Errorf("marshal quote params: %w", err)
	}
	result, err := json.Marshal(q.Result)
	if err != nil {
		return Quote{}, fmt.Errorf("marshal quote result: %w", err)
	}

	saved := Quote{
		ID:         uuid.NewString(),
		CreatedAt:  l.now().UTC().Format(createdAtLayout),
		Mode:       q.Mode,
		Title:      q.Title,
		Customer:   q.Customer,
		Band:       q.Band,
		GrandTotal: q.GrandTotal,
		HardBlock:  q.HardBlock,
		ParamsJSON: string(params),
		ResultJSON: string(result),
		Params:     params,
		Result:     result,
	}

	_, err = l.db.NamedExecContext(ctx, `
		INSERT INTO quotes (id, created_at, mode, title, customer, band, grand_total, hard_block, params_json, result_json)
		VALUES (:id, :created_at, :mode, :title, :customer, :band, :grand_total, :hard_block, :params_json, :result_json)
	`, saved)
	if err != nil {
		return Quote{}, fmt.Errorf("insert quote: %w", err)
	}
	return saved, nil
}

// Get reads one quote snapshot.
func (l *QuoteLog) Get(ctx context.Context, id string) (Quote, error) {
	var q Quote
	err := l.db.GetContext(ctx, &q, `
		SELECT id, created_at, mode, title, customer, band, grand_total, hard_block, params_json, result_json
		FROM quotes
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Quote{}, ErrNotFound
	}
	if err != nil {
		return Quote{}, fmt.Errorf("query quote: %w", err)
	}
	q.Params = json.RawMessage(q.ParamsJSON)
	q.Result = json.RawMessage(q.ResultJSON)
	return q, nil
}

// List returns quotes newest first, optionally filtered on title or customer.
func (l *QuoteLog) List(ctx context.Context, query string) ([]QuoteSummary, error) {
	search := "%" + query + "%"
	quotes := make([]QuoteSummary, 0)
	err := l.db.SelectContext(ctx, &quotes, `
		SELECT id, created_at, mode, title, customer, grand_total, hard_block
		FROM quotes
		WHERE (? = '' OR title LIKE ? OR customer LIKE ?)
		ORDER BY created_at DESC, rowid DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	return quotes, nil
}

// DecodeResult unmarshals the stored result snapshot into v.
func (q Quote) DecodeResult(v any) error {
	if err := json.Unmarshal(q.Result, v); err != nil {
		return fmt.Errorf("decode %s quote result: %w", q.Mode, err)
	}
	return nil
}
