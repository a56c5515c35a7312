package directory

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"gym-booking/internal/domain/employee"
	"gym-booking/internal/infra"
)

type LookupObserver interface {
	ObserveDirectoryLookup(entity, result string)
}

// Store is one directory database together with the way its schema is resolved.
type Store struct {
	Name     string
	DB       *sql.DB
	Dialect  Dialect
	Resolver Resolver
	Timeout  time.Duration
}

// Directory answers employee, employment and card lookups against the two
// directory stores.
type Directory struct {
	employees Store
	cards     Store
	observer  LookupObserver
}

func NewDirectory(employees, cards Store, observer LookupObserver) *Directory {
	return &Directory{
		employees: employees,
		cards:     cards,
		observer:  observer,
	}
}

func (d *Directory) FindEmployee(ctx context.Context, employeeID string) (*employee.DirectoryRecord, error) {
	s := d.employees
	m, err := d.resolve(ctx, s, EmployeeMaster)
	if err != nil {
		return nil, err
	}

	query := s.Dialect.SelectFirst(
		[]string{
			m.Text(s.Dialect, FieldEmployeeID),
			m.Text(s.Dialect, FieldName),
			m.Text(s.Dialect, FieldDepartment),
			m.Text(s.Dialect, FieldCardNo),
			m.Text(s.Dialect, FieldGender),
		},
		m.From(s.Dialect),
		matchEmployee(s.Dialect, m),
		nil,
	)

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var id, name, dept, cardNo, gender sql.NullString
	err = s.DB.QueryRowContext(ctx, query, strings.TrimSpace(employeeID)).Scan(&id, &name, &dept, &cardNo, &gender)
	if err != nil {
		d.observe(EmployeeMaster, err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, infra.WrapRepoErr("employee not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to look up employee", err)
	}

	if strings.TrimSpace(name.String) == "" {
		d.observe(EmployeeMaster, sql.ErrNoRows)
		return nil, infra.WrapRepoErr("employee has no name", sql.ErrNoRows, infra.KindNotFound)
	}

	d.observe(EmployeeMaster, nil)
	return &employee.DirectoryRecord{
		EmployeeID: id.String,
		Name:       name.String,
		Department: nullable(dept),
		CardNo:     nullable(cardNo),
		Gender:     nullable(gender),
	}, nil
}

// LatestEmployment returns the open-ended employment row if there is one,
// otherwise the most recently started. nil means no row.
func (d *Directory) LatestEmployment(ctx context.Context, employeeID string) (*employee.EmploymentRecord, error) {
	s := d.employees
	m, err := d.resolve(ctx, s, Employment)
	if err != nil {
		return nil, err
	}

	current := "1"
	var orderBy []string
	if end, ok := m.Column(FieldEndDate); ok {
		current = "CASE WHEN " + s.Dialect.Quote(end) + " IS NULL THEN 1 ELSE 0 END"
		orderBy = append(orderBy, "CASE WHEN "+s.Dialect.Quote(end)+" IS NULL THEN 0 ELSE 1 END")
	}
	if start, ok := m.Column(FieldStartDate); ok {
		// DESC puts NULLs first on PostgreSQL and last on SQL Server
		orderBy = append(orderBy,
			"CASE WHEN "+s.Dialect.Quote(start)+" IS NULL THEN 1 ELSE 0 END",
			s.Dialect.Quote(start)+" DESC")
	}

	query := s.Dialect.SelectFirst(
		[]string{
			m.Text(s.Dialect, FieldEmployeeID),
			m.Text(s.Dialect, FieldDepartment),
			current,
		},
		m.From(s.Dialect),
		matchEmployee(s.Dialect, m),
		orderBy,
	)

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var id, dept sql.NullString
	var isCurrent int64
	err = s.DB.QueryRowContext(ctx, query, strings.TrimSpace(employeeID)).Scan(&id, &dept, &isCurrent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			d.observe(Employment, nil)
			return nil, nil
		}
		d.observe(Employment, err)
		return nil, infra.WrapRepoErr("failed to look up employment", err)
	}

	d.observe(Employment, nil)
	return &employee.EmploymentRecord{
		EmployeeID: id.String,
		Department: nullable(dept),
		Current:    isCurrent == 1,
	}, nil
}

// FindCard returns the best card for the employee: an active one if any,
// otherwise one whose activity is unknown. nil means no usable card.
// Activity flags come in too many shapes to rank in SQL, so every row is
// read and ties go to the lowest card number.
func (d *Directory) FindCard(ctx context.Context, employeeID string) (*employee.CardRecord, error) {
	s := d.cards
	m, err := d.resolve(ctx, s, EmployeeCard)
	if err != nil {
		return nil, err
	}

	query := "SELECT " +
		m.Text(s.Dialect, FieldEmployeeID) + ", " +
		m.Text(s.Dialect, FieldCardNo) + ", " +
		m.Expr(s.Dialect, FieldActive) +
		" FROM " + m.From(s.Dialect) +
		" WHERE " + matchEmployee(s.Dialect, m) +
		" AND " + m.Expr(s.Dialect, FieldCardNo) + " IS NOT NULL" +
		" ORDER BY " + m.Text(s.Dialect, FieldCardNo)

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx, query, strings.TrimSpace(employeeID))
	if err != nil {
		d.observe(EmployeeCard, err)
		return nil, infra.WrapRepoErr("failed to look up card", err)
	}
	defer rows.Close()

	var fallback *employee.CardRecord
	for rows.Next() {
		var id, no sql.NullString
		var active any
		if err := rows.Scan(&id, &no, &active); err != nil {
			d.observe(EmployeeCard, err)
			return nil, infra.WrapRepoErr("failed to scan card", err)
		}

		rec := &employee.CardRecord{EmployeeID: id.String, CardNo: strings.TrimSpace(no.String), Active: employee.ParseActive(active)}
		if !rec.Usable() {
			continue
		}
		if rec.Active != nil {
			d.observe(EmployeeCard, nil)
			return rec, nil
		}
		if fallback == nil {
			fallback = rec
		}
	}
	if err := rows.Err(); err != nil {
		d.observe(EmployeeCard, err)
		return nil, infra.WrapRepoErr("failed to read cards", err)
	}

	d.observe(EmployeeCard, nil)
	return fallback, nil
}

func (d *Directory) resolve(ctx context.Context, s Store, entity Entity) (*Mapping, error) {
	m, err := s.Resolver.Resolve(ctx, entity)
	if err != nil {
		d.observe(entity, err)
		var resErr *SchemaResolutionError
		if errors.As(err, &resErr) {
			return nil, infra.WrapRepoErr("resolve "+entity.Name+" in "+s.Name+" store", err, infra.KindSchemaResolution)
		}
		return nil, infra.WrapRepoErr("resolve "+entity.Name+" in "+s.Name+" store", err)
	}
	return m, nil
}

func (d *Directory) observe(entity Entity, err error) {
	if d.observer == nil {
		return
	}
	result := "ok"
	var resErr *SchemaResolutionError
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		result = "not_found"
	case errors.As(err, &resErr):
		result = "unresolved"
	default:
		result = "error"
	}
	d.observer.ObserveDirectoryLookup(entity.Name, result)
}

func matchEmployee(d Dialect, m *Mapping) string {
	return m.Text(d, FieldEmployeeID) + " = " + d.Placeholder(1)
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
