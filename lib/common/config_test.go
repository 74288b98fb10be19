package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServerConfigValid(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want bool
	}{
		{"complete", ServerConfig{Host: "localhost", Port: 6379}, true},
		{"no host", ServerConfig{Port: 6379}, false},
		{"no port", ServerConfig{Host: "localhost"}, false},
		{"negative port", ServerConfig{Host: "localhost", Port: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Valid())
		})
	}
}

func TestServerConfigDefaults(t *testing.T) {
	cfg := ServerConfig{Host: "::1", Port: 6380}
	assert.Equal(t, "[::1]:6380", cfg.Addr())
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout())

	withDefaults := cfg.WithDefaults()
	assert.Equal(t, DefaultTimeoutMs, withDefaults.TimeoutMs)
	assert.Zero(t, cfg.TimeoutMs, "WithDefaults returns a copy")

	cfg.TimeoutMs = 1200
	assert.Equal(t, 1200*time.Millisecond, cfg.Timeout())
	assert.Equal(t, 1200, cfg.WithDefaults().TimeoutMs)
}

func TestServerConfigStringHidesAuth(t *testing.T) {
	cfg := ServerConfig{Host: "db", Port: 6379, Auth: "s3cret"}
	out := cfg.String()
	assert.Contains(t, out, "db:6379")
	assert.Contains(t, out, "500 ms")
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "set")

	cfg.Auth = ""
	assert.Contains(t, cfg.String(), "none")
}
