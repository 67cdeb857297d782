package pgx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lborres/inventrack/core"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var (
	_ core.StorageAdapter     = (*Adapter)(nil)
	_ core.SupplierAggregator = (*Adapter)(nil)
)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}

// querier is satisfied by the pool and by a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// storeError converts driver errors to the provider error shape the services
// translate. Anything else is returned unchanged.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &core.StoreError{Code: core.CodeNoRows, Message: err.Error()}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &core.StoreError{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
		}
	}
	return err
}

// updateSQL builds an UPDATE for the given assignments. The key is the last
// placeholder, so callers append it to the returned args.
func updateSQL(table, key, returning string, set []core.Assignment) (string, []any) {
	clauses := make([]string, 0, len(set)+1)
	args := make([]any, 0, len(set)+1)
	for i, a := range set {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", a.Column, i+1))
		args = append(args, a.Value)
	}
	clauses = append(clauses, "updated_at = now()")

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		table, strings.Join(clauses, ", "), key, len(set)+1, returning)
	return query, args
}

// deleteRow deletes one row by key. Zero affected rows is reported as no rows.
func deleteRow(ctx context.Context, q querier, table, key string, id any) error {
	tag, err := q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, key), id)
	if err != nil {
		return storeError(err)
	}
	if tag.RowsAffected() == 0 {
		return storeError(pgx.ErrNoRows)
	}
	return nil
}

// collect scans every row with scan and closes rows.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, storeError(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err)
	}
	return out, nil
}
