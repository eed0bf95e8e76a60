package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Querier is the part of a pool or transaction the repositories use.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Tx is a Querier that can be committed or rolled back. pgx.Tx satisfies it.
type Tx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DB starts transactions and runs single statements.
type DB interface {
	Querier
	BeginTx(ctx context.Context) (Tx, error)
}

// Pool adapts a pgxpool.Pool to DB.
type Pool struct {
	*pgxpool.Pool
}

func (p Pool) BeginTx(ctx context.Context) (Tx, error) {
	return p.Pool.Begin(ctx)
}

// queryJSON runs a SQL that returns a single json value and unmarshals it
// into out.
func queryJSON(ctx context.Context, q Querier, out interface{}, sql string, args ...interface{}) error {
	var raw []byte
	if err := q.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
