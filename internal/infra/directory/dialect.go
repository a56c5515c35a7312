package directory

import (
	"fmt"
	"strings"

	"gym-booking/internal/infra/db"
	"gym-booking/internal/pkg/sqlident"
)

// Dialect covers the handful of places where SQL Server and PostgreSQL
// disagree for the queries issued against directory stores.
type Dialect interface {
	Driver() string
	CanonicalSchema() string
	Quote(id sqlident.Ident) string
	Placeholder(n int) string
	// TypedNull stands in for an optional column the store does not have.
	TypedNull() string
	AsText(expr string) string
	// SelectFirst builds a query returning at most one row.
	SelectFirst(columns []string, from, where string, orderBy []string) string
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case db.DriverSQLServer:
		return SQLServer{}, nil
	case db.DriverPostgres:
		return Postgres{}, nil
	default:
		return nil, fmt.Errorf("no dialect for driver %q", driver)
	}
}

func QualifiedTable(d Dialect, schema, table sqlident.Ident) string {
	return d.Quote(schema) + "." + d.Quote(table)
}

type SQLServer struct{}

func (SQLServer) Driver() string          { return db.DriverSQLServer }
func (SQLServer) CanonicalSchema() string { return "dbo" }
func (SQLServer) Quote(id sqlident.Ident) string {
	return id.Bracket()
}
func (SQLServer) Placeholder(n int) string { return fmt.Sprintf("@p%d", n) }
func (SQLServer) TypedNull() string        { return "CAST(NULL AS NVARCHAR(200))" }
func (SQLServer) AsText(expr string) string {
	return "CAST(" + expr + " AS NVARCHAR(200))"
}

func (SQLServer) SelectFirst(columns []string, from, where string, orderBy []string) string {
	var b strings.Builder
	b.WriteString("SELECT TOP 1 ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(from)
	writeTail(&b, where, orderBy)
	return b.String()
}

type Postgres struct{}

func (Postgres) Driver() string          { return db.DriverPostgres }
func (Postgres) CanonicalSchema() string { return "public" }
func (Postgres) Quote(id sqlident.Ident) string {
	return id.ANSI()
}
func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }
func (Postgres) TypedNull() string        { return "CAST(NULL AS TEXT)" }
func (Postgres) AsText(expr string) string {
	return "CAST(" + expr + " AS TEXT)"
}

func (Postgres) SelectFirst(columns []string, from, where string, orderBy []string) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(from)
	writeTail(&b, where, orderBy)
	b.WriteString(" LIMIT 1")
	return b.String()
}

func writeTail(b *strings.Builder, where string, orderBy []string) {
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if len(orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(orderBy, ", "))
	}
}
