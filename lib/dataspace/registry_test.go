package dataspace

import (
	"testing"

	"github.com/ValentinKolb/redisds/lib/common"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenServer(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New()

	_, open := c.Config()
	assert.False(t, open)

	first := configFor(t, mr)
	first.TimeoutMs = 0
	require.NoError(t, c.OpenServer(first))

	cfg, open := c.Config()
	require.True(t, open)
	assert.Equal(t, common.DefaultTimeoutMs, cfg.TimeoutMs, "timeout defaults to 500ms")

	// a second open fails and keeps the first configuration
	err := c.OpenServer(common.ServerConfig{Host: "other", Port: 1})
	assert.ErrorIs(t, err, ErrAlreadyOpen)
	cfg, _ = c.Config()
	assert.Equal(t, first.Host, cfg.Host)
	assert.Equal(t, first.Port, cfg.Port)

	// closing allows a new configuration
	c.CloseServer()
	_, open = c.Config()
	assert.False(t, open)
	require.NoError(t, c.OpenServer(first))
}

func TestOpenServerMissingConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  common.ServerConfig
	}{
		{"no host", common.ServerConfig{Port: 6379}},
		{"no port", common.ServerConfig{Host: "localhost"}},
		{"negative port", common.ServerConfig{Host: "localhost", Port: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			err := c.OpenServer(tt.cfg)
			assert.ErrorIs(t, err, ErrMissingConfiguration)
			assert.True(t, IsConfigurationError(err))
			_, open := c.Config()
			assert.False(t, open)
		})
	}
}

func TestRegisterAndLookup(t *testing.T) {
	c := New()

	assert.ErrorIs(t, c.Register("", 0, "x:"), ErrInvalidName)
	assert.ErrorIs(t, c.Register("bad", 0, "%s:"), ErrTemplateArgs)

	require.NoError(t, c.Register("users", 1, "app:%s:users:", "tenant1"))
	ds, ok := c.Lookup("users")
	require.True(t, ok)
	assert.Equal(t, "users", ds.Name)
	assert.Equal(t, 1, ds.Database)
	assert.Equal(t, "app:tenant1:users:", ds.Prefix)
	assert.NotEmpty(t, ds.ID)

	_, ok = c.Lookup("Users")
	assert.False(t, ok, "lookup is an exact match")
}

func TestRegisterLastWins(t *testing.T) {
	mr, c := setupTestClient(t)

	require.NoError(t, c.Register("shared", 0, "a:"))
	require.NoError(t, c.Register("shared", 0, "b:"))

	ds, ok := c.Lookup("shared")
	require.True(t, ok)
	assert.Equal(t, "b:", ds.Prefix)
	assert.Equal(t, []string{"shared", "shared", testSpace}, c.Names())

	_, err := c.Set("shared", "k", "v", 0)
	require.NoError(t, err)

	got, err := mr.Get("b:k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	assert.False(t, mr.Exists("a:k"))

	v, err := c.Read("shared", "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v.Str())
}

func TestCloseServerReleasesEverything(t *testing.T) {
	mr, c := setupTestClient(t)

	require.NoError(t, c.Register("other", 1, "o:"))
	_, err := c.Set(testSpace, "k", "v", 0)
	require.NoError(t, err)
	_, err = c.Set("other", "k", "v", 0)
	require.NoError(t, err)

	first, _ := c.Lookup(testSpace)
	second, _ := c.Lookup("other")
	require.NotNil(t, first.link)
	require.NotNil(t, second.link)
	assert.Equal(t, 2, mr.CurrentConnectionCount())

	c.CloseServer()

	assert.Nil(t, first.link)
	assert.Nil(t, second.link)
	assert.Empty(t, c.Names())
	_, ok := c.Lookup(testSpace)
	assert.False(t, ok)

	_, err = c.Read(testSpace, "k")
	assert.ErrorIs(t, err, ErrDataspaceNotFound)

	// closing twice is harmless
	c.CloseServer()
}

func TestUnknownDataspace(t *testing.T) {
	_, c := setupTestClient(t)

	_, err := c.Read("nope", "k")
	assert.ErrorIs(t, err, ErrDataspaceNotFound)
	_, err = c.Set("nope", "k", "v", 10)
	assert.ErrorIs(t, err, ErrDataspaceNotFound)
	_, err = c.Append("nope", "k", "v", 10)
	assert.ErrorIs(t, err, ErrDataspaceNotFound)
	n, err := c.Increment("nope", "k", 1, 10)
	assert.ErrorIs(t, err, ErrDataspaceNotFound)
	assert.Zero(t, n)
	_, err = c.Check("nope", "k")
	assert.ErrorIs(t, err, ErrDataspaceNotFound)

	var dsErr *Error
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, "Check", dsErr.Op)
	assert.Equal(t, "nope", dsErr.Name)
}
