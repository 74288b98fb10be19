package dataspace

import (
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/redisds/lib/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreKinds(t *testing.T) {
	mr, c := setupTestClient(t)

	tests := []struct {
		name     string
		key      string
		v        value.Value
		want     int64
		readBack value.Value
	}{
		{"string", "s", value.String("hello"), 1, value.String("hello")},
		{"number", "n", value.Number(7), 1, value.String("7")},
		{"map", "m", value.Map(map[string]string{"a": "1", "b": "2"}), 2, value.Map(map[string]string{"a": "1", "b": "2"})},
		{"list", "l", value.List("x", "y", "x"), 3, value.List("x", "y", "x")},
		{"set", "set", value.Set("a", "b", "a"), 2, value.Set("a", "b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := c.Store(testSpace, tt.key, tt.v, 30)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
			assert.Equal(t, 30*time.Second, mr.TTL("t:"+tt.key))

			got, err := c.Read(testSpace, tt.key)
			require.NoError(t, err)
			assert.True(t, value.Equal(tt.readBack, got), "got %s", got)
		})
	}
}

func TestStoreNumberReadsBackAsString(t *testing.T) {
	mr, c := setupTestClient(t)

	_, err := c.Store(testSpace, "n", value.Number(-3), 0)
	require.NoError(t, err)
	got, err := mr.Get("t:n")
	require.NoError(t, err)
	assert.Equal(t, "-3", got)
}

func TestStoreMergesAndReplaces(t *testing.T) {
	mr, c := setupTestClient(t)

	mr.HSet("t:m", "old", "x")
	_, err := mr.Push("t:l", "old")
	require.NoError(t, err)
	_, err = mr.SetAdd("t:set", "old")
	require.NoError(t, err)

	n, err := c.Store(testSpace, "m", value.Map(map[string]string{"new": "y"}), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, "x", mr.HGet("t:m", "old"), "maps are merged")

	n, err = c.Store(testSpace, "l", value.List("a", "b"), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	list, err := mr.List("t:l")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list, "lists are replaced")

	n, err = c.Store(testSpace, "set", value.Set("new"), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n, "sets are merged")
}

func TestStoreAbsentDeletes(t *testing.T) {
	mr, c := setupTestClient(t)
	require.NoError(t, mr.Set("t:k", "v"))

	n, err := c.Store(testSpace, "k", value.Absent(), 10)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, mr.Exists("t:k"))

	// empty containers write nothing
	n, err = c.Store(testSpace, "empty", value.Map(nil), 10)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, mr.Exists("t:empty"))
}

func TestStoreDocument(t *testing.T) {
	mr, c := setupTestClient(t)

	doc, err := value.ParseDocument([]byte(`{
		"name": "alice",
		"age": 31,
		"roles": ["admin", "dev"],
		"address": {"city": "Ulm", "zip": "89073"}
	}`))
	require.NoError(t, err)

	n, err := c.StoreDocument(testSpace, doc, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1+1+2+2, n)

	got, err := mr.Get("t:name")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	got, err = mr.Get("t:age")
	require.NoError(t, err)
	assert.Equal(t, "31", got)
	roles, err := mr.List("t:roles")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "dev"}, roles)
	assert.Equal(t, "Ulm", mr.HGet("t:address", "city"))
}

func TestCheck(t *testing.T) {
	mr, c := setupTestClient(t)
	require.NoError(t, mr.Set("t:present", "v"))

	exists, err := c.Check(testSpace, "present")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.Check(testSpace, "absent")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = c.Check(testSpace, "%s")
	assert.ErrorIs(t, err, ErrTemplateArgs)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "short", redact("short"))
	long := strings.Repeat("k", 100)
	assert.Equal(t, strings.Repeat("k", 64)+"...", redact(long))
}
