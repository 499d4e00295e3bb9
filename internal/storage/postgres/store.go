package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swapRoute/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS execution_events (
	execution_id   TEXT        NOT NULL,
	seq            BIGINT      NOT NULL,
	kind           TEXT        NOT NULL,
	hop_index      INTEGER     NOT NULL,
	hops           INTEGER     NOT NULL,
	token_in       TEXT        NOT NULL DEFAULT '',
	token_out      TEXT        NOT NULL DEFAULT '',
	amount_in      NUMERIC,
	min_amount_out NUMERIC,
	amount_out     NUMERIC,
	tx_hash        TEXT        NOT NULL DEFAULT '',
	gas_used       BIGINT      NOT NULL DEFAULT 0,
	error          TEXT        NOT NULL DEFAULT '',
	at             TEXT        NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (execution_id, seq)
)`

// Store persists the execution journal in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the journal table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Append inserts events. Re-appending an event already stored is a no-op.
func (s *Store) Append(ctx context.Context, events ...model.ExecutionEvent) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(`
			INSERT INTO execution_events (
				execution_id, seq, kind, hop_index, hops, token_in, token_out,
				amount_in, min_amount_out, amount_out, tx_hash, gas_used, error, at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8::numeric,$9::numeric,$10::numeric,$11,$12,$13,$14)
			ON CONFLICT (execution_id, seq) DO NOTHING
		`,
			ev.ExecutionID,
			int64(ev.Seq),
			string(ev.Kind),
			ev.HopIndex,
			ev.Hops,
			ev.TokenIn,
			ev.TokenOut,
			nullableNumeric(ev.AmountIn),
			nullableNumeric(ev.MinAmountOut),
			nullableNumeric(ev.AmountOut),
			ev.TxHash,
			int64(ev.GasUsed),
			ev.Error,
			ev.At,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert execution event: %w", err)
		}
	}
	return nil
}

// LoadEvents returns the events of one execution, or of all executions when id is
// empty, ordered by first insertion and seq.
func (s *Store) LoadEvents(ctx context.Context, executionID string) ([]model.ExecutionEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT execution_id, seq, kind, hop_index, hops, token_in, token_out,
			COALESCE(amount_in::text, ''), COALESCE(min_amount_out::text, ''), COALESCE(amount_out::text, ''),
			tx_hash, gas_used, error, at
		FROM execution_events
		WHERE $1 = '' OR execution_id = $1
		ORDER BY created_at, execution_id, seq
	`, executionID)
	if err != nil {
		return nil, fmt.Errorf("query execution events: %w", err)
	}
	defer rows.Close()

	var events []model.ExecutionEvent
	for rows.Next() {
		var (
			ev      model.ExecutionEvent
			seq     int64
			kind    string
			gasUsed int64
		)
		if err := rows.Scan(
			&ev.ExecutionID, &seq, &kind, &ev.HopIndex, &ev.Hops, &ev.TokenIn, &ev.TokenOut,
			&ev.AmountIn, &ev.MinAmountOut, &ev.AmountOut,
			&ev.TxHash, &gasUsed, &ev.Error, &ev.At,
		); err != nil {
			return nil, fmt.Errorf("scan execution event: %w", err)
		}
		ev.Seq = uint64(seq)
		ev.Kind = model.EventKind(kind)
		ev.GasUsed = uint64(gasUsed)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func nullableNumeric(v string) any {
	if v == "" {
		return nil
	}
	return v
}
