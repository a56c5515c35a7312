//go:build unit

package staff_test

import (
	"testing"

	"gym-booking/internal/domain/staff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	role, err := staff.NewRole("approver")
	require.NoError(t, err)
	assert.Equal(t, staff.RoleApprover, role)

	_, err = staff.NewRole("member")
	assert.ErrorIs(t, err, staff.ErrInvalidRole)
}

func TestRole_AtLeast(t *testing.T) {
	testCases := []struct {
		role staff.Role
		min  staff.Role
		want bool
	}{
		{staff.RoleAdmin, staff.RoleAdmin, true},
		{staff.RoleAdmin, staff.RoleViewer, true},
		{staff.RoleApprover, staff.RoleAdmin, false},
		{staff.RoleViewer, staff.RoleApprover, false},
		{staff.Role("ghost"), staff.RoleViewer, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.role)+">="+string(tc.min), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.role.AtLeast(tc.min))
		})
	}
}
