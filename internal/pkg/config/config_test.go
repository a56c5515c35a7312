//go:build unit

package config_test

import (
	"testing"

	"gym-booking/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr []string
	}{
		{
			name:   "success: test defaults",
			mutate: func(*config.Config) {},
		},
		{
			name:    "error: unknown lock mode",
			mutate:  func(c *config.Config) { c.Admission.LockMode = "table" },
			wantErr: []string{"ADMISSION_LOCK_MODE"},
		},
		{
			name: "error: redis lock without url",
			mutate: func(c *config.Config) {
				c.Admission.LockMode = "redis"
				c.Redis.URL = ""
			},
			wantErr: []string{"REDIS_URL"},
		},
		{
			name: "error: every bad field is reported",
			mutate: func(c *config.Config) {
				c.Directory.EmployeeDriver = "mysql"
				c.Directory.CardDriver = ""
				c.Directory.MaxOpenConns = 0
			},
			wantErr: []string{"DIRECTORY_EMPLOYEE_DRIVER", "DIRECTORY_CARD_DRIVER", "DIRECTORY_MAX_OPEN_CONNS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
