package directory

import (
	"context"
	"fmt"
	"strings"

	"gym-booking/internal/pkg/sqlident"
)

// Resolver maps a logical entity to the physical table and columns of one store.
type Resolver interface {
	Resolve(ctx context.Context, entity Entity) (*Mapping, error)
}

type SchemaResolutionError struct {
	Entity string
	Reason string
}

func (e *SchemaResolutionError) Error() string {
	return fmt.Sprintf("schema resolution failed for %s: %s", e.Entity, e.Reason)
}

// Mapping is the resolved physical shape of an entity. A logical field with
// no physical column is absent from the mapping.
type Mapping struct {
	Entity  string
	Schema  sqlident.Ident
	Table   sqlident.Ident
	columns map[string]sqlident.Ident
}

func (m *Mapping) Column(logical string) (sqlident.Ident, bool) {
	id, ok := m.columns[logical]
	return id, ok
}

// Expr renders the column for logical, or the dialect's typed NULL when the
// store lacks it.
func (m *Mapping) Expr(d Dialect, logical string) string {
	if id, ok := m.columns[logical]; ok {
		return d.Quote(id)
	}
	return d.TypedNull()
}

// Text is Expr cast to the dialect's text type, so that numeric and
// character columns scan alike.
func (m *Mapping) Text(d Dialect, logical string) string {
	if id, ok := m.columns[logical]; ok {
		return d.AsText(d.Quote(id))
	}
	return d.TypedNull()
}

func (m *Mapping) From(d Dialect) string {
	return QualifiedTable(d, m.Schema, m.Table)
}

// ResolveColumn returns the first alias, in priority order, that matches one
// of the physical columns case-insensitively.
func ResolveColumn(physical []string, field Field) (sqlident.Ident, bool) {
	for _, alias := range field.Aliases {
		for _, col := range physical {
			if !strings.EqualFold(alias, col) {
				continue
			}
			id, err := sqlident.New(col)
			if err != nil {
				continue
			}
			return id, true
		}
	}
	return sqlident.Ident{}, false
}

// NewMapping resolves every field of entity against the physical column list.
func NewMapping(entity Entity, schema, table sqlident.Ident, physical []string) (*Mapping, error) {
	m := &Mapping{
		Entity:  entity.Name,
		Schema:  schema,
		Table:   table,
		columns: make(map[string]sqlident.Ident, len(entity.Fields)),
	}

	for _, f := range entity.Fields {
		id, ok := ResolveColumn(physical, f)
		if !ok {
			if f.Required {
				return nil, &SchemaResolutionError{
					Entity: entity.Name,
					Reason: fmt.Sprintf("no column for required field %q in %s.%s", f.Logical, schema, table),
				}
			}
			continue
		}
		m.columns[f.Logical] = id
	}

	return m, nil
}
