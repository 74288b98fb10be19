package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeoutMs is used when a ServerConfig carries no timeout.
const DefaultTimeoutMs = 500

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds the connection parameters of the remote store.
type ServerConfig struct {
	Host string
	Port int
	// Auth is sent with AUTH after connecting. Empty means no authentication.
	Auth string
	// TimeoutMs bounds dialing and every read/write on the connection.
	// Zero selects DefaultTimeoutMs.
	TimeoutMs int
}

// Valid reports whether host and port are present.
func (c *ServerConfig) Valid() bool {
	return c.Host != "" && c.Port > 0
}

// Addr returns the host:port dial address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeout returns the effective timeout as a duration.
func (c *ServerConfig) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return DefaultTimeoutMs * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// WithDefaults returns a copy with the timeout default applied.
func (c ServerConfig) WithDefaults() ServerConfig {
	if c.TimeoutMs <= 0 {
		c.TimeoutMs = DefaultTimeoutMs
	}
	return c
}

// String returns a formatted string representation of the configuration.
// The credential is never printed.
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	auth := "none"
	if c.Auth != "" {
		auth = "set"
	}

	addSection("Server")
	addField("Address", c.Addr())
	addField("Auth", auth)
	addField("Timeout", fmt.Sprintf("%d ms", c.WithDefaults().TimeoutMs))

	return sb.String()
}
