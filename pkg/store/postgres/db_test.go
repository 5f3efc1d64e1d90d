package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnConfig_ConnectTimeout(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		expected time.Duration
	}{
		{
			name:     "setting overrides the dsn",
			settings: Settings{DSN: "host=localhost dbname=311 connect_timeout=30", ConnectTimeout: 2 * time.Second},
			expected: 2 * time.Second,
		},
		{
			name:     "dsn value is kept when unset",
			settings: Settings{DSN: "host=localhost dbname=311 connect_timeout=30"},
			expected: 30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := connConfig(tt.settings)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.ConnectTimeout)
		})
	}
}

func TestConnConfig_InvalidDSN(t *testing.T) {
	_, err := connConfig(Settings{DSN: "postgres://localhost:notaport/311"})
	assert.ErrorContains(t, err, "unable to parse database dsn")
}
