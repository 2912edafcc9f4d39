package connector

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joeydtaylor/steeze-extension/pkg/codec"
	manifest "github.com/joeydtaylor/steeze-extension/pkg/manifest"
)

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres reads connectors from a table with columns
// (id, installed, handler jsonb, downstream_auth jsonb).
type Postgres struct {
	db    rowQuerier
	pool  *pgxpool.Pool
	query string
}

func NewPostgres(ctx context.Context, dsn, table string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	p := newPostgres(pool, table)
	p.pool = pool
	return p, nil
}

func newPostgres(db rowQuerier, table string) *Postgres {
	return &Postgres{
		db: db,
		query: fmt.Sprintf(`SELECT installed, handler, downstream_auth FROM %s WHERE id = $1`,
			pgx.Identifier{table}.Sanitize()),
	}
}

func (p *Postgres) Find(ctx context.Context, id string) (Connector, error) {
	var (
		installed bool
		handler   []byte
		downAuth  []byte
	)
	err := p.db.QueryRow(ctx, p.query, id).Scan(&installed, &handler, &downAuth)
	if errors.Is(err, pgx.ErrNoRows) {
		return Connector{}, ErrNotFound
	}
	if err != nil {
		return Connector{}, fmt.Errorf("query connector %s: %w", id, err)
	}

	rec := Record{ID: id, Installed: installed}
	if err := codec.JSONStrict.Unmarshal(handler, &rec.Handler); err != nil {
		return Connector{}, fmt.Errorf("%w: decode %s handler: %v", ErrInvalidRecord, id, err)
	}
	if len(downAuth) > 0 && string(downAuth) != "null" {
		rec.DownAuth = &manifest.DownstreamAuth{}
		if err := codec.JSONStrict.Unmarshal(downAuth, rec.DownAuth); err != nil {
			return Connector{}, fmt.Errorf("%w: decode %s downstream auth: %v", ErrInvalidRecord, id, err)
		}
	}
	return rec.connector(id)
}

func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
