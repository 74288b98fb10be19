package dataspace

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyConnect(t *testing.T) {
	mr, c := setupTestClient(t)

	ds, _ := c.Lookup(testSpace)
	assert.Nil(t, ds.link, "registering does not connect")
	assert.Zero(t, mr.CurrentConnectionCount())

	_, err := c.Check(testSpace, "k")
	require.NoError(t, err)
	require.NotNil(t, ds.link)
	assert.Equal(t, 1, mr.CurrentConnectionCount())
	assert.EqualValues(t, 1, c.metrics.connects.Get())

	// the connection is reused
	_, err = c.Check(testSpace, "k")
	require.NoError(t, err)
	assert.EqualValues(t, 1, c.metrics.connects.Get())
}

func TestReconnectAfterServerRestart(t *testing.T) {
	mr, c := setupTestClient(t)

	_, err := c.Set(testSpace, "k", "v", 0)
	require.NoError(t, err)
	ds, _ := c.Lookup(testSpace)
	before := ds.link

	mr.Close()
	require.NoError(t, mr.Restart())

	// the old socket is dead; the command is retried once on a fresh connection
	v, err := c.Read(testSpace, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v.Str())

	assert.NotSame(t, before, ds.link)
	assert.EqualValues(t, 1, c.metrics.retries.Get())
	assert.Zero(t, c.metrics.failures.Get())
	assert.EqualValues(t, 2, c.metrics.connects.Get())
}

func TestPermanentOutage(t *testing.T) {
	mr, c := setupTestClient(t)

	_, err := c.Set(testSpace, "k", "v", 0)
	require.NoError(t, err)
	mr.Close()

	exists, err := c.Check(testSpace, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	ds, _ := c.Lookup(testSpace)
	assert.Nil(t, ds.link)
	assert.EqualValues(t, 1, c.metrics.failures.Get())
	assert.EqualValues(t, 1, c.metrics.connectFailures.Get())

	// the outage ends: the next operation connects again
	require.NoError(t, mr.Restart())
	exists, err = c.Check(testSpace, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRegisterBeforeOpen(t *testing.T) {
	c := New()
	require.NoError(t, c.Register(testSpace, 0, "t:"))

	v, err := c.Read(testSpace, "k")
	require.NoError(t, err)
	assert.True(t, v.IsAbsent())
	assert.EqualValues(t, 2, c.metrics.connectFailures.Get())
	assert.Zero(t, c.metrics.connects.Get())

	// the first command after OpenServer connects
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("t:k", "v"))
	require.NoError(t, c.OpenServer(configFor(t, mr)))
	t.Cleanup(c.CloseServer)

	v, err = c.Read(testSpace, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v.Str())
}

func TestDatabaseIsolation(t *testing.T) {
	mr, c := setupTestClient(t)
	require.NoError(t, c.Register("one", 1, "t:"))

	_, err := c.Set(testSpace, "k", "zero", 0)
	require.NoError(t, err)
	_, err = c.Set("one", "k", "one", 0)
	require.NoError(t, err)

	got, err := mr.DB(0).Get("t:k")
	require.NoError(t, err)
	assert.Equal(t, "zero", got)
	got, err = mr.DB(1).Get("t:k")
	require.NoError(t, err)
	assert.Equal(t, "one", got)
}

func TestConcurrentOperations(t *testing.T) {
	mr, c := setupTestClient(t)

	const workers = 10
	const rounds = 10

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				_, _ = c.Increment(testSpace, "counter:%d", 1, 60, w)
				_, _ = c.Increment(testSpace, "shared", 1, 60)
				_, _ = c.Append(testSpace, "members", "%d-%d", 60, w, i)
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		got, err := mr.Get(fmt.Sprintf("t:counter:%d", w))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprint(rounds), got)
	}
	got, err := mr.Get("t:shared")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(workers*rounds), got)

	members, err := mr.Members("t:members")
	require.NoError(t, err)
	assert.Len(t, members, workers*rounds)
	assert.Equal(t, 1, mr.CurrentConnectionCount(), "one connection per dataspace")
}

func TestWriteMetrics(t *testing.T) {
	set := metrics.NewSet()
	mr := miniredis.RunT(t)
	c := New(WithMetricsSet(set))
	require.NoError(t, c.OpenServer(configFor(t, mr)))
	require.NoError(t, c.Register(testSpace, 0, "t:"))
	t.Cleanup(c.CloseServer)

	_, err := c.Read(testSpace, "missing")
	require.NoError(t, err)

	var buf bytes.Buffer
	c.WriteMetrics(&buf)
	out := buf.String()
	assert.Contains(t, out, `redisds_commands_total{cmd="TYPE"} 1`)
	assert.Contains(t, out, "redisds_connects_total 1")
	assert.Contains(t, out, "redisds_command_duration_seconds_bucket")
}
