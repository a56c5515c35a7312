package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/infra/db"
	"gym-booking/internal/pkg/errs"
	"gym-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	SessionTable = "gym_sessions"
	BookingTable = "gym_bookings"

	ActiveBookingIndex = "ux_gym_bookings_employee_date_active"
	RosterIndex        = "ix_gym_bookings_date_approval_status"

	sessionUniqueConstraint = "uq_gym_sessions_schedule_id"
	statusCheck             = "ck_gym_bookings_status"
	approvalCheck           = "ck_gym_bookings_approval_status"
	scheduleForeignKey      = "fk_gym_bookings_schedule"

	bootstrapLockKey = "gym_bookings_bootstrap"
)

// Bootstrapper evolves the booking store schema in place. Every step checks
// the catalog first, so a second run issues no DDL.
type Bootstrapper struct {
	pool *pgxpool.Pool
}

func NewBootstrapper(pool *pgxpool.Pool) *Bootstrapper {
	return &Bootstrapper{pool: pool}
}

func (b *Bootstrapper) EnsureBookingSchema(ctx context.Context) (*shared.BootstrapReport, error) {
	report, err := shared.RunInTx(ctx, b.pool, func(tx db.DBTX) (*shared.BootstrapReport, error) {
		return ensure(ctx, tx)
	})
	if err != nil {
		var dupErr *shared.DuplicateActiveBookingsError
		if errors.As(err, &dupErr) {
			return &shared.BootstrapReport{OK: false, Duplicates: dupErr.Groups}, err
		}
		return nil, err
	}
	return report, nil
}

func ensure(ctx context.Context, tx db.DBTX) (*shared.BootstrapReport, error) {
	// Concurrent bootstraps would otherwise race on the catalog checks.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, bootstrapLockKey); err != nil {
		return nil, errs.Wrap(err, "acquire bootstrap lock")
	}

	exists, err := tableExists(ctx, tx, SessionTable)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &shared.MissingDependencyError{Table: SessionTable}
	}

	scheduleCol, err := ensureSessionKey(ctx, tx)
	if err != nil {
		return nil, err
	}

	exists, err = tableExists(ctx, tx, BookingTable)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := createBookingTable(ctx, tx, scheduleCol); err != nil {
			return nil, err
		}
	}

	cols, err := loadColumns(ctx, tx, BookingTable)
	if err != nil {
		return nil, err
	}
	if exists {
		if cols, err = upgradeBookingTable(ctx, tx, cols, scheduleCol); err != nil {
			return nil, err
		}
	}

	if err := ensureActiveBookingIndex(ctx, tx, cols); err != nil {
		return nil, err
	}
	if err := ensureRosterIndex(ctx, tx, cols); err != nil {
		return nil, err
	}

	return buildReport(ctx, tx)
}

// ensureSessionKey makes sure the session table has a uniquely constrained
// schedule_id and returns its quoted physical name.
func ensureSessionKey(ctx context.Context, tx db.DBTX) (string, error) {
	cols, err := loadColumns(ctx, tx, SessionTable)
	if err != nil {
		return "", err
	}

	if !cols.has("schedule_id") {
		slog.Info("adding schedule_id to session table")
		if _, err := tx.Exec(ctx, `ALTER TABLE gym_sessions ADD COLUMN schedule_id BIGINT GENERATED BY DEFAULT AS IDENTITY`); err != nil {
			return "", errs.Wrap(err, "add gym_sessions.schedule_id")
		}
		cols["schedule_id"] = "schedule_id"
	}

	id, err := cols.ident("schedule_id")
	if err != nil {
		return "", err
	}

	unique, err := hasSingleColumnUnique(ctx, tx, SessionTable, id.String())
	if err != nil {
		return "", err
	}
	if !unique {
		slog.Info("adding unique constraint on session schedule_id")
		stmt := fmt.Sprintf(`ALTER TABLE gym_sessions ADD CONSTRAINT %s UNIQUE (%s)`, sessionUniqueConstraint, id.ANSI())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return "", errs.Wrap(err, "add unique constraint on gym_sessions.schedule_id")
		}
	}

	return id.ANSI(), nil
}

func createBookingTable(ctx context.Context, tx db.DBTX, scheduleCol string) error {
	slog.Info("creating booking table")
	stmt := fmt.Sprintf(`CREATE TABLE gym_bookings (
    booking_id       BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    employee_id      VARCHAR(50)  NOT NULL,
    card_no          VARCHAR(50),
    employee_name    VARCHAR(200) NOT NULL,
    department       VARCHAR(200),
    gender           VARCHAR(20),
    session_name     VARCHAR(100) NOT NULL,
    schedule_id      BIGINT       NOT NULL,
    booking_date     DATE         NOT NULL,
    status           VARCHAR(20)  NOT NULL DEFAULT 'BOOKED',
    approval_status  VARCHAR(20)  NOT NULL DEFAULT 'PENDING',
    approved_by      VARCHAR(100),
    approved_at      TIMESTAMPTZ,
    rejection_reason TEXT,
    created_at       TIMESTAMPTZ  NOT NULL DEFAULT now(),
    CONSTRAINT %s CHECK (%s),
    CONSTRAINT %s CHECK (%s),
    CONSTRAINT %s FOREIGN KEY (schedule_id) REFERENCES gym_sessions (%s)
)`,
		statusCheck, inList("status", statusValues()),
		approvalCheck, inList("approval_status", approvalValues()),
		scheduleForeignKey, scheduleCol,
	)
	if _, err := tx.Exec(ctx, stmt); err != nil {
		return errs.Wrap(err, "create gym_bookings")
	}
	return nil
}

// upgradeBookingTable brings a legacy booking table up to the current column
// and constraint set without touching data beyond the approval backfill.
func upgradeBookingTable(ctx context.Context, tx db.DBTX, cols columnSet, scheduleCol string) (columnSet, error) {
	for _, required := range []string{"employee_id", "booking_date", "status", "schedule_id"} {
		if !cols.has(required) {
			return nil, &shared.MissingDependencyError{Table: BookingTable, Detail: "missing column " + required}
		}
	}

	added := false
	for _, c := range []struct{ name, ddl string }{
		{"approved_by", "VARCHAR(100)"},
		{"approved_at", "TIMESTAMPTZ"},
		{"rejection_reason", "TEXT"},
		{"approval_status", "VARCHAR(20)"},
	} {
		if cols.has(c.name) {
			continue
		}
		slog.Info("adding booking column", "column", c.name)
		if _, err := tx.Exec(ctx, fmt.Sprintf(`ALTER TABLE gym_bookings ADD COLUMN %s %s`, c.name, c.ddl)); err != nil {
			return nil, errs.Wrapf(err, "add gym_bookings.%s", c.name)
		}
		added = true
	}
	if added {
		var err error
		if cols, err = loadColumns(ctx, tx, BookingTable); err != nil {
			return nil, err
		}
	}

	approval, err := cols.quoted("approval_status")
	if err != nil {
		return nil, err
	}
	status, err := cols.quoted("status")
	if err != nil {
		return nil, err
	}

	// Legacy rows predate approvals; they count as pending.
	backfill := fmt.Sprintf(`UPDATE gym_bookings SET %s = 'PENDING' WHERE %s IS NULL`, approval, approval)
	if tag, err := tx.Exec(ctx, backfill); err != nil {
		return nil, errs.Wrap(err, "backfill approval status")
	} else if tag.RowsAffected() > 0 {
		slog.Info("backfilled approval status", "rows", tag.RowsAffected())
	}

	nullable, err := columnNullable(ctx, tx, cols, "approval_status")
	if err != nil {
		return nil, err
	}
	if nullable {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`ALTER TABLE gym_bookings ALTER COLUMN %s SET NOT NULL`, approval)); err != nil {
			return nil, errs.Wrap(err, "tighten approval status")
		}
	}

	hasDefault, err := columnHasDefault(ctx, tx, cols, "approval_status")
	if err != nil {
		return nil, err
	}
	if !hasDefault {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`ALTER TABLE gym_bookings ALTER COLUMN %s SET DEFAULT 'PENDING'`, approval)); err != nil {
			return nil, errs.Wrap(err, "set approval status default")
		}
	}

	checks := []struct{ name, expr string }{
		{statusCheck, inList(status, statusValues())},
		{approvalCheck, inList(approval, approvalValues())},
	}
	for _, c := range checks {
		ok, err := constraintExists(ctx, tx, BookingTable, c.name)
		if err != nil {
			return nil, err
		}
		if ok {
			continue
		}
		slog.Info("adding booking check constraint", "constraint", c.name)
		if _, err := tx.Exec(ctx, fmt.Sprintf(`ALTER TABLE gym_bookings ADD CONSTRAINT %s CHECK (%s)`, c.name, c.expr)); err != nil {
			return nil, errs.Wrapf(err, "add %s", c.name)
		}
	}

	hasFK, err := foreignKeyExists(ctx, tx, BookingTable, SessionTable)
	if err != nil {
		return nil, err
	}
	if !hasFK {
		bookingSchedule, err := cols.quoted("schedule_id")
		if err != nil {
			return nil, err
		}
		slog.Info("adding booking foreign key to sessions")
		stmt := fmt.Sprintf(`ALTER TABLE gym_bookings ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES gym_sessions (%s)`,
			scheduleForeignKey, bookingSchedule, scheduleCol)
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return nil, errs.Wrap(err, "add booking foreign key")
		}
	}

	return cols, nil
}

// ensureActiveBookingIndex refuses to build the one-active-booking-per-day
// index over data that already violates it.
func ensureActiveBookingIndex(ctx context.Context, tx db.DBTX, cols columnSet) error {
	exists, err := indexExists(ctx, tx, ActiveBookingIndex)
	if err != nil || exists {
		return err
	}

	employee, err := cols.quoted("employee_id")
	if err != nil {
		return err
	}
	date, err := cols.quoted("booking_date")
	if err != nil {
		return err
	}
	status, err := cols.quoted("status")
	if err != nil {
		return err
	}
	active := inList(status, booking.StatusStrings(booking.ActiveStatuses))

	groups, err := findDuplicateActive(ctx, tx, employee, date, active)
	if err != nil {
		return err
	}
	if len(groups) > 0 {
		slog.Warn("duplicate active bookings block the unique index", "groups", len(groups))
		return &shared.DuplicateActiveBookingsError{Groups: groups}
	}

	slog.Info("creating active booking unique index")
	stmt := fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON gym_bookings (%s, %s) WHERE %s`,
		ActiveBookingIndex, employee, date, active)
	if _, err := tx.Exec(ctx, stmt); err != nil {
		return errs.Wrap(err, "create active booking index")
	}
	return nil
}

func findDuplicateActive(ctx context.Context, tx db.DBTX, employee, date, active string) ([]shared.DuplicateGroup, error) {
	query := fmt.Sprintf(`SELECT %[1]s::text, %[2]s, count(*)
FROM gym_bookings
WHERE %[3]s
GROUP BY %[1]s, %[2]s
HAVING count(*) > 1
ORDER BY %[2]s, %[1]s`, employee, date, active)

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, errs.Wrap(err, "scan for duplicate active bookings")
	}
	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.DuplicateGroup, error) {
		var g shared.DuplicateGroup
		var n int64
		err := row.Scan(&g.EmployeeID, &g.BookingDate, &n)
		g.Count = int(n)
		return g, err
	})
	if err != nil {
		return nil, errs.Wrap(err, "read duplicate active bookings")
	}
	return groups, nil
}

func ensureRosterIndex(ctx context.Context, tx db.DBTX, cols columnSet) error {
	exists, err := indexExists(ctx, tx, RosterIndex)
	if err != nil || exists {
		return err
	}

	quote := func(names ...string) (string, error) {
		out := make([]string, 0, len(names))
		for _, n := range names {
			q, err := cols.quoted(n)
			if err != nil {
				return "", err
			}
			out = append(out, q)
		}
		return strings.Join(out, ", "), nil
	}

	keys, err := quote("booking_date", "approval_status", "status")
	if err != nil {
		return err
	}
	include, err := quote(presentColumns(cols, "employee_id", "employee_name", "department", "session_name")...)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON gym_bookings (%s)`, RosterIndex, keys)
	if include != "" {
		stmt += " INCLUDE (" + include + ")"
	}
	slog.Info("creating roster index")
	if _, err := tx.Exec(ctx, stmt); err != nil {
		return errs.Wrap(err, "create roster index")
	}
	return nil
}

func buildReport(ctx context.Context, tx db.DBTX) (*shared.BootstrapReport, error) {
	columns, err := describeColumns(ctx, tx, BookingTable)
	if err != nil {
		return nil, err
	}
	indexOK, err := indexExists(ctx, tx, ActiveBookingIndex)
	if err != nil {
		return nil, err
	}
	todayOK, err := indexExists(ctx, tx, RosterIndex)
	if err != nil {
		return nil, err
	}

	return &shared.BootstrapReport{
		OK:           indexOK && todayOK,
		Columns:      columns,
		IndexOK:      indexOK,
		TodayIndexOK: todayOK,
	}, nil
}

func columnNullable(ctx context.Context, tx db.DBTX, cols columnSet, name string) (bool, error) {
	id, err := cols.ident(name)
	if err != nil {
		return false, err
	}
	var nullable bool
	err = tx.QueryRow(ctx, `SELECT is_nullable = 'YES'
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`, BookingTable, id.String()).Scan(&nullable)
	if err != nil {
		return false, errs.Wrapf(err, "check nullability of %s", name)
	}
	return nullable, nil
}

func columnHasDefault(ctx context.Context, tx db.DBTX, cols columnSet, name string) (bool, error) {
	id, err := cols.ident(name)
	if err != nil {
		return false, err
	}
	var hasDefault bool
	err = tx.QueryRow(ctx, `SELECT column_default IS NOT NULL
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`, BookingTable, id.String()).Scan(&hasDefault)
	if err != nil {
		return false, errs.Wrapf(err, "check default of %s", name)
	}
	return hasDefault, nil
}

func presentColumns(cols columnSet, names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if cols.has(n) {
			out = append(out, n)
		}
	}
	return out
}

func inList(column string, values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return column + " IN (" + strings.Join(quoted, ", ") + ")"
}

func statusValues() []string {
	return booking.StatusStrings([]booking.Status{
		booking.StatusBooked,
		booking.StatusCheckIn,
		booking.StatusCompleted,
		booking.StatusCancelled,
		booking.StatusExpired,
	})
}

func approvalValues() []string {
	return []string{
		booking.ApprovalPending.String(),
		booking.ApprovalApproved.String(),
		booking.ApprovalRejected.String(),
	}
}
