package dataspace

import (
	"net"
	"strconv"
	"testing"

	"github.com/ValentinKolb/redisds/lib/common"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

// testSpace is the dataspace registered by setupTestClient, with prefix "t:" on db 0
const testSpace = "test"

// configFor builds a ServerConfig pointing at the miniredis instance
func configFor(t testing.TB, mr *miniredis.Miniredis) common.ServerConfig {
	t.Helper()
	host, portStr, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return common.ServerConfig{Host: host, Port: port, TimeoutMs: 1000}
}

// setupTestClient starts miniredis and returns a client with the server opened and
// testSpace registered. Everything is torn down when the test ends.
func setupTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	c := New()
	require.NoError(t, c.OpenServer(configFor(t, mr)))
	require.NoError(t, c.Register(testSpace, 0, "t:"))
	t.Cleanup(c.CloseServer)

	return mr, c
}
