//go:build unit

package sqlident_test

import (
	"errors"
	"strings"
	"testing"

	"gym-booking/internal/pkg/sqlident"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain snake case", input: "employee_id"},
		{name: "mixed case", input: "FullName"},
		{name: "inner space", input: "Employee ID"},
		{name: "leading underscore", input: "_legacy"},
		{name: "empty", input: "", wantErr: true},
		{name: "leading digit", input: "1name", wantErr: true},
		{name: "trailing space", input: "name ", wantErr: true},
		{name: "double space", input: "Employee  ID", wantErr: true},
		{name: "quote injection", input: `name"; DROP TABLE x; --`, wantErr: true},
		{name: "bracket injection", input: "name]; DROP TABLE x", wantErr: true},
		{name: "dotted", input: "dbo.Employees", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 129), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := sqlident.New(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, sqlident.ErrInvalidIdentifier))
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.input, id.String())
		})
	}
}

func TestQuoting(t *testing.T) {
	id := sqlident.MustNew("Employee ID")

	assert.Equal(t, `"Employee ID"`, id.ANSI())
	assert.Equal(t, "[Employee ID]", id.Bracket())
	assert.True(t, id.EqualFold("employee id"))
	assert.False(t, id.EqualFold("employee_id"))
}

func TestMustNew_PanicsOnInvalidName(t *testing.T) {
	assert.Panics(t, func() { sqlident.MustNew("bad;name") })
}
