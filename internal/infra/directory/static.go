package directory

import (
	"context"
	"fmt"
	"os"

	"gym-booking/internal/pkg/errs"
	"gym-booking/internal/pkg/sqlident"

	"gopkg.in/yaml.v3"
)

// StaticResolver serves mappings declared per deployment in a YAML file:
//
//	entities:
//	  employee:
//	    schema: dbo
//	    table: Employees
//	    columns:
//	      employee_id: Employee ID
//	      name: FullName
//
// It never touches the store's catalog.
type StaticResolver struct {
	entities map[string]staticEntity
}

type staticFile struct {
	Entities map[string]staticEntity `yaml:"entities"`
}

type staticEntity struct {
	Schema  string            `yaml:"schema"`
	Table   string            `yaml:"table"`
	Columns map[string]string `yaml:"columns"`
}

func LoadStaticResolver(path string) (*StaticResolver, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, "read directory mapping %s", path)
	}
	return ParseStaticResolver(raw)
}

func ParseStaticResolver(raw []byte) (*StaticResolver, error) {
	var f staticFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errs.Wrap(err, "parse directory mapping")
	}
	if len(f.Entities) == 0 {
		return nil, errs.New("directory mapping declares no entities")
	}
	return &StaticResolver{entities: f.Entities}, nil
}

func (r *StaticResolver) Resolve(_ context.Context, entity Entity) (*Mapping, error) {
	decl, ok := r.entities[entity.Name]
	if !ok {
		return nil, &SchemaResolutionError{Entity: entity.Name, Reason: "entity not declared in mapping file"}
	}

	schema, err := sqlident.New(decl.Schema)
	if err != nil {
		return nil, &SchemaResolutionError{Entity: entity.Name, Reason: "invalid schema: " + err.Error()}
	}
	table, err := sqlident.New(decl.Table)
	if err != nil {
		return nil, &SchemaResolutionError{Entity: entity.Name, Reason: "invalid table: " + err.Error()}
	}

	m := &Mapping{
		Entity:  entity.Name,
		Schema:  schema,
		Table:   table,
		columns: make(map[string]sqlident.Ident, len(entity.Fields)),
	}
	for _, field := range entity.Fields {
		physical, declared := decl.Columns[field.Logical]
		if !declared || physical == "" {
			if field.Required {
				return nil, &SchemaResolutionError{
					Entity: entity.Name,
					Reason: fmt.Sprintf("required field %q not declared", field.Logical),
				}
			}
			continue
		}
		id, err := sqlident.New(physical)
		if err != nil {
			return nil, &SchemaResolutionError{Entity: entity.Name, Reason: err.Error()}
		}
		m.columns[field.Logical] = id
	}

	return m, nil
}
