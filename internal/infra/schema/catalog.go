package schema

import (
	"context"
	"strings"

	"gym-booking/internal/infra/db"
	"gym-booking/internal/pkg/errs"
	"gym-booking/internal/pkg/sqlident"
	"gym-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
)

// columnSet maps lower-cased column names to their physical spelling.
type columnSet map[string]string

func (c columnSet) has(name string) bool {
	_, ok := c[strings.ToLower(name)]
	return ok
}

// ident returns the physical column for name, or name itself when the
// column does not exist yet.
func (c columnSet) ident(name string) (sqlident.Ident, error) {
	if physical, ok := c[strings.ToLower(name)]; ok {
		name = physical
	}
	id, err := sqlident.New(name)
	if err != nil {
		return sqlident.Ident{}, errs.Wrapf(err, "column %q", name)
	}
	return id, nil
}

func (c columnSet) quoted(name string) (string, error) {
	id, err := c.ident(name)
	if err != nil {
		return "", err
	}
	return id.ANSI(), nil
}

func tableExists(ctx context.Context, tx db.DBTX, table string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists)
	if err != nil {
		return false, errs.Wrapf(err, "check table %s", table)
	}
	return exists, nil
}

func indexExists(ctx context.Context, tx db.DBTX, index string) (bool, error) {
	return tableExists(ctx, tx, index)
}

func loadColumns(ctx context.Context, tx db.DBTX, table string) (columnSet, error) {
	rows, err := tx.Query(ctx, `SELECT column_name::text
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1`, table)
	if err != nil {
		return nil, errs.Wrapf(err, "list columns of %s", table)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errs.Wrapf(err, "scan columns of %s", table)
	}

	set := make(columnSet, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = n
	}
	return set, nil
}

func describeColumns(ctx context.Context, tx db.DBTX, table string) ([]shared.ColumnInfo, error) {
	rows, err := tx.Query(ctx, `SELECT column_name::text, data_type::text, is_nullable = 'YES'
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, errs.Wrapf(err, "describe %s", table)
	}
	cols, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.ColumnInfo, error) {
		var c shared.ColumnInfo
		err := row.Scan(&c.Name, &c.Type, &c.Nullable)
		return c, err
	})
	if err != nil {
		return nil, errs.Wrapf(err, "scan description of %s", table)
	}
	return cols, nil
}

func constraintExists(ctx context.Context, tx db.DBTX, table, name string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (
    SELECT 1 FROM pg_constraint
    WHERE conrelid = to_regclass($1) AND lower(conname) = lower($2)
)`, table, name).Scan(&exists)
	if err != nil {
		return false, errs.Wrapf(err, "check constraint %s", name)
	}
	return exists, nil
}

// hasSingleColumnUnique reports whether column alone is covered by a unique
// index or a primary key.
func hasSingleColumnUnique(ctx context.Context, tx db.DBTX, table, column string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (
    SELECT 1
    FROM pg_index i
    JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = i.indkey[0]
    WHERE i.indrelid = to_regclass($1)
      AND i.indisunique
      AND i.indnatts = 1
      AND i.indpred IS NULL
      AND a.attname = $2
)`, table, column).Scan(&exists)
	if err != nil {
		return false, errs.Wrapf(err, "check unique index on %s.%s", table, column)
	}
	return exists, nil
}

func foreignKeyExists(ctx context.Context, tx db.DBTX, table, referenced string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (
    SELECT 1 FROM pg_constraint
    WHERE contype = 'f' AND conrelid = to_regclass($1) AND confrelid = to_regclass($2)
)`, table, referenced).Scan(&exists)
	if err != nil {
		return false, errs.Wrapf(err, "check foreign key %s -> %s", table, referenced)
	}
	return exists, nil
}
