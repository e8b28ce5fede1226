package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/archive")
	t.Setenv("AUTH_TOKEN_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 4000, cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, int64(536870912), cfg.DB.MaxBytes)
	assert.Equal(t, 96, cfg.Status.Segments)
	assert.Equal(t, 15*time.Second, cfg.Status.Interval)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "120x120", cfg.QR.Size)
	assert.False(t, cfg.Store.RejectNonArray)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "file:archive.db")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("AUTH_TOKEN_SECRET", "secret")
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("HTTP_PUBLIC_URL", "https://archive.example.ly/")
	t.Setenv("HTTP_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("STATUS_SEGMENTS", "10")
	t.Setenv("STATUS_INTERVAL", "1s")
	t.Setenv("STORE_REJECT_NON_ARRAY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, "https://archive.example.ly", cfg.HTTP.PublicURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 10, cfg.Status.Segments)
	assert.Equal(t, time.Second, cfg.Status.Interval)
	assert.True(t, cfg.Store.RejectNonArray)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing dsn",
			env:  map[string]string{"AUTH_TOKEN_SECRET": "s"},
			want: "DB_DSN is required",
		},
		{
			name: "missing secret",
			env:  map[string]string{"DB_DSN": "x"},
			want: "AUTH_TOKEN_SECRET is required",
		},
		{
			name: "unknown driver",
			env:  map[string]string{"DB_DSN": "x", "AUTH_TOKEN_SECRET": "s", "DB_DRIVER": "mysql"},
			want: "DB_DRIVER",
		},
		{
			name: "bad lifetime",
			env:  map[string]string{"DB_DSN": "x", "AUTH_TOKEN_SECRET": "s", "DB_CONN_MAX_LIFETIME": "soon"},
			want: "DB_CONN_MAX_LIFETIME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DSN", "")
			t.Setenv("AUTH_TOKEN_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseList(t *testing.T) {
	assert.Nil(t, parseList("  "))
	assert.Equal(t, []string{"a", "b"}, parseList("a, ,b,"))
}
