//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gym-booking/internal/usecase/commands"
	"gym-booking/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBootstrapper struct {
	report *shared.BootstrapReport
	err    error
}

func (s stubBootstrapper) EnsureBookingSchema(context.Context) (*shared.BootstrapReport, error) {
	return s.report, s.err
}

func TestSchemaUseCase_Bootstrap(t *testing.T) {
	dupGroups := []shared.DuplicateGroup{{EmployeeID: "E1", BookingDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Count: 2}}

	tests := []struct {
		name       string
		stub       stubBootstrapper
		wantResult string
		wantErr    bool
	}{
		{
			name:       "success",
			stub:       stubBootstrapper{report: &shared.BootstrapReport{OK: true, IndexOK: true, TodayIndexOK: true}},
			wantResult: "ok",
		},
		{
			name: "error: duplicates",
			stub: stubBootstrapper{
				report: &shared.BootstrapReport{Duplicates: dupGroups},
				err:    &shared.DuplicateActiveBookingsError{Groups: dupGroups},
			},
			wantResult: "duplicates",
			wantErr:    true,
		},
		{
			name:       "error: missing session table",
			stub:       stubBootstrapper{err: &shared.MissingDependencyError{Table: "gym_sessions"}},
			wantResult: "missing_dependency",
			wantErr:    true,
		},
		{
			name:       "error: infrastructure",
			stub:       stubBootstrapper{err: errors.New("connection reset")},
			wantResult: "error",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			uc := commands.NewSchemaUseCase(tt.stub, obs)

			report, err := uc.Bootstrap(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.stub.report, report)
			assert.Equal(t, []string{tt.wantResult}, obs.bootstrap)
		})
	}
}

type countingCache struct {
	calls int
}

func (c *countingCache) Invalidate() { c.calls++ }

func TestDirectoryUseCase_InvalidateSchemaCache(t *testing.T) {
	employees, cards := &countingCache{}, &countingCache{}
	uc := commands.NewDirectoryUseCase(employees, nil, cards)

	n := uc.InvalidateSchemaCache(context.Background())

	assert.Equal(t, 2, n)
	assert.Equal(t, 1, employees.calls)
	assert.Equal(t, 1, cards.calls)
}
