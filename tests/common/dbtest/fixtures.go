//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is what the seed helpers need; a pool or an open transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// legacySchemaSQL recreates what exists before the booking service is
// deployed: the session table owned by the gym, plus the directory tables
// owned by HR and facilities with their own naming habits.
const legacySchemaSQL = `
CREATE TABLE public.gym_sessions (
    session_name VARCHAR(100) NOT NULL,
    start_time   TIME         NOT NULL,
    end_time     TIME         NOT NULL,
    quota        INTEGER      NOT NULL
);

CREATE SCHEMA hr;

CREATE TABLE hr."EmployeeMaster" (
    "Employee ID" VARCHAR(50)  NOT NULL,
    "FullName"    VARCHAR(200) NOT NULL,
    "Dept"        VARCHAR(200),
    "Sex"         VARCHAR(10)
);

CREATE TABLE public.employment_history (
    emp_id     VARCHAR(50)  NOT NULL,
    department VARCHAR(200) NOT NULL,
    start_date DATE,
    end_date   DATE
);

CREATE TABLE public."CardDB" (
    "EmpID"    VARCHAR(50) NOT NULL,
    "CardNo"   VARCHAR(50) NOT NULL,
    "IsActive" BOOLEAN     NOT NULL DEFAULT true
);
`

// ResetDB drops everything the tests created and recreates the legacy
// schema. The booking table is left to the bootstrapper.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		"DROP SCHEMA IF EXISTS hr CASCADE",
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		legacySchemaSQL,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	// plans cached before the drop point at tables that no longer exist
	pool.Reset()
	return nil
}

// CreateSession inserts a session once the bootstrapper has given the table
// its schedule_id, and returns that id.
func CreateSession(t *testing.T, db DBLike, name, start, end string, quota int) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(),
		`INSERT INTO gym_sessions (session_name, start_time, end_time, quota)
		 VALUES ($1, $2::time, $3::time, $4) RETURNING schedule_id`,
		name, start, end, quota).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateLegacySession inserts a session before schedule_id exists.
func CreateLegacySession(t *testing.T, db DBLike, name, start, end string, quota int) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO gym_sessions (session_name, start_time, end_time, quota) VALUES ($1, $2::time, $3::time, $4)`,
		name, start, end, quota)
	require.NoError(t, err)
}

func CreateEmployee(t *testing.T, db DBLike, id, name, dept, sex string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO hr."EmployeeMaster" ("Employee ID", "FullName", "Dept", "Sex") VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))`,
		id, name, dept, sex)
	require.NoError(t, err)
}

func CreateEmployment(t *testing.T, db DBLike, id, dept string, start time.Time, end *time.Time) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO employment_history (emp_id, department, start_date, end_date) VALUES ($1, $2, $3, $4)`,
		id, dept, start, end)
	require.NoError(t, err)
}

func CreateCard(t *testing.T, db DBLike, id, cardNo string, active bool) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO "CardDB" ("EmpID", "CardNo", "IsActive") VALUES ($1, $2, $3)`,
		id, cardNo, active)
	require.NoError(t, err)
}

// CreateBooking writes a booking row directly, bypassing admission. Used to
// set up full sessions and pre-existing duplicates.
func CreateBooking(t *testing.T, db DBLike, employeeID string, scheduleID int64, sessionName, date, status string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(),
		`INSERT INTO gym_bookings (employee_id, employee_name, session_name, schedule_id, booking_date, status)
		 VALUES ($1, $1, $2, $3, $4::date, $5) RETURNING booking_id`,
		employeeID, sessionName, scheduleID, date, status).Scan(&id)
	require.NoError(t, err)
	return id
}

func CountActiveBookings(t *testing.T, db DBLike, scheduleID int64, date string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		`SELECT count(*) FROM gym_bookings WHERE schedule_id = $1 AND booking_date = $2::date AND status IN ('BOOKED', 'CHECKIN')`,
		scheduleID, date).Scan(&n)
	require.NoError(t, err)
	return n
}
