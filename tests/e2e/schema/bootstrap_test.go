//go:build e2e

package schema_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"gym-booking/internal/domain/staff"
	"gym-booking/internal/handler/dto/response"
	"gym-booking/tests/common/authtest"
	"gym-booking/tests/common/dbtest"
	"gym-booking/tests/common/httptest"
	"gym-booking/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const bootstrapURL = "/api/admin/schema/bootstrap"

type BootstrapSuite struct {
	e2e.SharedSuite
}

func TestBootstrapSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BootstrapSuite))
}

func (s *BootstrapSuite) adminToken() string {
	return authtest.NewJWTHelper(s.Config.JWT).AdminToken(s.T())
}

func (s *BootstrapSuite) bootstrap(token string) (int, response.BootstrapResponse) {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bootstrapURL, nil, token)
	var body response.BootstrapResponse
	if w.Code != http.StatusUnauthorized && w.Code != http.StatusForbidden {
		require.NoError(s.T(), httptest.DecodeResponseBody(s.T(), w.Body, &body))
	}
	return w.Code, body
}

// schemaSnapshot captures everything the bootstrapper may touch, so two runs
// can be compared for identical state.
func (s *BootstrapSuite) schemaSnapshot() []string {
	rows, err := s.DB.Query(context.Background(), `
		SELECT 'col:' || table_name || '.' || column_name || ':' || data_type || ':' || is_nullable || ':' || COALESCE(column_default, '')
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name IN ('gym_sessions', 'gym_bookings')
		UNION ALL
		SELECT 'idx:' || indexname || ':' || indexdef FROM pg_indexes
		WHERE schemaname = 'public' AND tablename IN ('gym_sessions', 'gym_bookings')
		UNION ALL
		SELECT 'con:' || conname || ':' || pg_get_constraintdef(oid) FROM pg_constraint
		WHERE conrelid IN ('public.gym_sessions'::regclass, 'public.gym_bookings'::regclass)
		ORDER BY 1`)
	require.NoError(s.T(), err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var line string
		require.NoError(s.T(), rows.Scan(&line))
		out = append(out, line)
	}
	require.NoError(s.T(), rows.Err())
	return out
}

func (s *BootstrapSuite) TestBootstrap() {
	s.Run("creates the booking table, constraints and indexes on a fresh store", func() {
		t := s.T()
		dbtest.CreateLegacySession(t, s.DB, "Morning", "06:00", "07:00", 15)

		code, body := s.bootstrap(s.adminToken())
		require.Equal(t, http.StatusOK, code)
		s.True(body.OK)
		s.True(body.IndexOK)
		s.True(body.TodayIndexOK)
		s.Empty(body.Duplicates)
		s.Empty(body.Error)

		names := make(map[string]bool, len(body.Columns))
		for _, c := range body.Columns {
			names[c.Name] = true
		}
		for _, want := range []string{"booking_id", "employee_id", "booking_date", "status", "approval_status", "schedule_id"} {
			s.True(names[want], "column %s missing from report", want)
		}

		snapshot := strings.Join(s.schemaSnapshot(), "\n")
		for _, want := range []string{
			"con:ck_gym_bookings_status:",
			"con:ck_gym_bookings_approval_status:",
			"con:fk_gym_bookings_schedule:",
			"con:uq_gym_sessions_schedule_id:",
			"idx:ux_gym_bookings_employee_date_active:",
			"idx:ix_gym_bookings_date_approval_status:",
		} {
			s.Contains(snapshot, want)
		}
		s.Contains(snapshot, "WHERE ((status)::text = ANY")

		// the pre-existing session got a schedule id
		var scheduleID *int64
		require.NoError(t, s.DB.QueryRow(context.Background(),
			`SELECT schedule_id FROM gym_sessions WHERE session_name = 'Morning'`).Scan(&scheduleID))
		s.NotNil(scheduleID)
	})

	s.Run("is idempotent", func() {
		t := s.T()
		token := s.adminToken()

		code, first := s.bootstrap(token)
		require.Equal(t, http.StatusOK, code)
		before := s.schemaSnapshot()

		for range 2 {
			code, again := s.bootstrap(token)
			require.Equal(t, http.StatusOK, code)
			s.Equal(first, again)
		}
		s.Equal(before, s.schemaSnapshot())
	})

	s.Run("upgrades a legacy booking table without approval columns", func() {
		t := s.T()
		_, err := s.DB.Exec(context.Background(), `
			ALTER TABLE gym_sessions ADD COLUMN schedule_id BIGINT GENERATED BY DEFAULT AS IDENTITY;
			CREATE TABLE gym_bookings (
			    booking_id    BIGSERIAL PRIMARY KEY,
			    employee_id   VARCHAR(50)  NOT NULL,
			    employee_name VARCHAR(200) NOT NULL,
			    card_no       VARCHAR(50),
			    department    VARCHAR(200),
			    gender        VARCHAR(20),
			    session_name  VARCHAR(100) NOT NULL,
			    schedule_id   BIGINT       NOT NULL,
			    booking_date  DATE         NOT NULL,
			    status        VARCHAR(20)  NOT NULL DEFAULT 'BOOKED',
			    created_at    TIMESTAMP    NOT NULL DEFAULT now()
			)`)
		require.NoError(t, err)
		scheduleID := dbtest.CreateSession(t, s.DB, "Evening", "18:00", "19:00", 10)
		dbtest.CreateBooking(t, s.DB, "E100", scheduleID, "Evening", "2024-01-10", "BOOKED")

		code, body := s.bootstrap(s.adminToken())
		require.Equal(t, http.StatusOK, code, body.Error)
		s.True(body.OK)

		var approval string
		require.NoError(t, s.DB.QueryRow(context.Background(),
			`SELECT approval_status FROM gym_bookings WHERE employee_id = 'E100'`).Scan(&approval))
		s.Equal("PENDING", approval)
	})

	s.Run("refuses to build the unique index over duplicate active bookings", func() {
		t := s.T()
		dbtest.CreateLegacySession(t, s.DB, "Morning", "06:00", "07:00", 15)
		code, _ := s.bootstrap(s.adminToken())
		require.Equal(t, http.StatusOK, code)

		_, err := s.DB.Exec(context.Background(), `DROP INDEX ux_gym_bookings_employee_date_active`)
		require.NoError(t, err)
		var scheduleID int64
		require.NoError(t, s.DB.QueryRow(context.Background(), `SELECT schedule_id FROM gym_sessions LIMIT 1`).Scan(&scheduleID))
		dbtest.CreateBooking(t, s.DB, "E100", scheduleID, "Morning", "2024-01-10", "BOOKED")
		dbtest.CreateBooking(t, s.DB, "E100", scheduleID, "Morning", "2024-01-10", "CHECKIN")
		dbtest.CreateBooking(t, s.DB, "E200", scheduleID, "Morning", "2024-01-10", "BOOKED")
		dbtest.CreateBooking(t, s.DB, "E200", scheduleID, "Morning", "2024-01-10", "CANCELLED")

		code, body := s.bootstrap(s.adminToken())
		require.Equal(t, http.StatusConflict, code)
		s.False(body.OK)
		s.Require().Len(body.Duplicates, 1)
		s.Equal(response.DuplicateGroupResponse{EmployeeID: "E100", BookingDate: "2024-01-10", Count: 2}, body.Duplicates[0])

		// nothing was committed
		var exists bool
		require.NoError(t, s.DB.QueryRow(context.Background(),
			`SELECT to_regclass('public.ux_gym_bookings_employee_date_active') IS NOT NULL`).Scan(&exists))
		s.False(exists)
	})

	s.Run("reports a missing session table", func() {
		t := s.T()
		_, err := s.DB.Exec(context.Background(), `DROP TABLE gym_sessions`)
		require.NoError(t, err)

		code, body := s.bootstrap(s.adminToken())
		require.Equal(t, http.StatusPreconditionFailed, code)
		s.False(body.OK)
		s.Contains(body.Error, "gym_sessions")
	})

	s.Run("requires an admin token", func() {
		helper := authtest.NewJWTHelper(s.Config.JWT)

		code, _ := s.bootstrap("")
		s.Equal(http.StatusUnauthorized, code)

		code, _ = s.bootstrap(helper.GenerateToken(s.T(), "viewer-1", staff.RoleViewer))
		s.Equal(http.StatusForbidden, code)

		code, _ = s.bootstrap(helper.CreateExpiredToken(s.T(), "admin-1", staff.RoleAdmin))
		s.Equal(http.StatusUnauthorized, code)
	})
}
