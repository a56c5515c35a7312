package directory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"gym-booking/internal/pkg/errs"
	"gym-booking/internal/pkg/sqlident"
)

// Table is a physical table found in a store's catalog.
type Table struct {
	Schema  sqlident.Ident
	Name    sqlident.Ident
	Columns []string
}

// AliasResolver discovers tables and columns through INFORMATION_SCHEMA,
// matching them against the candidate and alias lists of each entity.
type AliasResolver struct {
	db      *sql.DB
	dialect Dialect
	timeout time.Duration
}

func NewAliasResolver(db *sql.DB, dialect Dialect, timeout time.Duration) *AliasResolver {
	return &AliasResolver{
		db:      db,
		dialect: dialect,
		timeout: timeout,
	}
}

func (r *AliasResolver) Resolve(ctx context.Context, entity Entity) (*Mapping, error) {
	table, err := r.ResolveTable(ctx, entity)
	if err != nil {
		return nil, err
	}
	return NewMapping(entity, table.Schema, table.Name, table.Columns)
}

// ResolveTable picks the best candidate table: the store's canonical schema
// first, then the earliest candidate name.
func (r *AliasResolver) ResolveTable(ctx context.Context, entity Entity) (*Table, error) {
	if len(entity.Tables) == 0 {
		return nil, &SchemaResolutionError{Entity: entity.Name, Reason: "no candidate tables"}
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	found, err := r.findCandidates(ctx, entity)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, &SchemaResolutionError{
			Entity: entity.Name,
			Reason: "none of the candidate tables exist: " + strings.Join(entity.Tables, ", "),
		}
	}

	best := found[0]
	columns, err := r.columns(ctx, best.Schema, best.Name)
	if err != nil {
		return nil, err
	}
	best.Columns = columns

	return &best, nil
}

type candidate struct {
	Table
	rank int
}

func (r *AliasResolver) findCandidates(ctx context.Context, entity Entity) ([]Table, error) {
	placeholders := make([]string, len(entity.Tables))
	args := make([]any, len(entity.Tables))
	for i, name := range entity.Tables {
		placeholders[i] = r.dialect.Placeholder(i + 1)
		args[i] = strings.ToLower(name)
	}

	query := "SELECT TABLE_SCHEMA, TABLE_NAME FROM INFORMATION_SCHEMA.TABLES" +
		" WHERE TABLE_TYPE IN ('BASE TABLE', 'VIEW')" +
		" AND LOWER(TABLE_NAME) IN (" + strings.Join(placeholders, ", ") + ")"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Wrapf(err, "list candidate tables for %s", entity.Name)
	}
	defer rows.Close()

	canonical := r.dialect.CanonicalSchema()
	var found []candidate
	for rows.Next() {
		var schemaName, tableName string
		if err := rows.Scan(&schemaName, &tableName); err != nil {
			return nil, errs.Wrap(err, "scan candidate table")
		}

		schema, errSchema := sqlident.New(schemaName)
		table, errTable := sqlident.New(tableName)
		if errSchema != nil || errTable != nil {
			continue
		}

		rank := candidateIndex(entity.Tables, tableName)
		if !strings.EqualFold(schemaName, canonical) {
			rank += len(entity.Tables)
		}
		found = append(found, candidate{Table: Table{Schema: schema, Name: table}, rank: rank})
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "iterate candidate tables")
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].rank != found[j].rank {
			return found[i].rank < found[j].rank
		}
		return found[i].Schema.String() < found[j].Schema.String()
	})

	tables := make([]Table, len(found))
	for i, c := range found {
		tables[i] = c.Table
	}
	return tables, nil
}

func (r *AliasResolver) columns(ctx context.Context, schema, table sqlident.Ident) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = %s AND TABLE_NAME = %s ORDER BY ORDINAL_POSITION",
		r.dialect.Placeholder(1), r.dialect.Placeholder(2),
	)

	rows, err := r.db.QueryContext(ctx, query, schema.String(), table.String())
	if err != nil {
		return nil, errs.Wrapf(err, "list columns of %s.%s", schema, table)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(err, "scan column name")
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "iterate columns")
	}
	return columns, nil
}

func candidateIndex(candidates []string, name string) int {
	for i, c := range candidates {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return len(candidates)
}
