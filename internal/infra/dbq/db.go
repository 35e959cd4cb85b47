// Package dbq holds the SQL for the library schema. Static statements are plain
// constants; list and search queries with optional filters are built with goqu.
package dbq

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const dialectPostgres = "postgres"

// DBTX is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries is stateless; every method takes the DBTX so one value serves pool and transactions.
type Queries struct {
	dialect goqu.DialectWrapper
}

func New() *Queries {
	return &Queries{dialect: goqu.Dialect(dialectPostgres)}
}
