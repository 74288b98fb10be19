package dataspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountVerbs(t *testing.T) {
	tests := []struct {
		tmpl string
		want int
	}{
		{"", 0},
		{"plain", 0},
		{"user:%s", 1},
		{"%s:%d:%v", 3},
		{"100%%", 0},
		{"%%%s", 1},
		{"%-10s|%08.3f", 2},
		{"%*d", 2},
		{"%.*f", 2},
	}
	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			got, err := countVerbs(tt.tmpl)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountVerbsRejects(t *testing.T) {
	for _, tmpl := range []string{"%[1]s", "trailing %", "%-"} {
		_, err := countVerbs(tmpl)
		assert.ErrorIs(t, err, ErrTemplateArgs, tmpl)
	}
}

func TestRender(t *testing.T) {
	got, err := render("user:%s:%d", []interface{}{"alice", 7})
	require.NoError(t, err)
	assert.Equal(t, "user:alice:7", got)

	_, err = render("user:%s", nil)
	assert.ErrorIs(t, err, ErrTemplateArgs)

	_, err = render("user", []interface{}{"extra"})
	assert.ErrorIs(t, err, ErrTemplateArgs)
}

func TestRenderPair(t *testing.T) {
	key, val, err := renderPair("k:%s", "%d-%d", []interface{}{"a", 1, 2})
	require.NoError(t, err)
	assert.Equal(t, "k:a", key)
	assert.Equal(t, "1-2", val)

	key, val, err = renderPair("fixed", "value", nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed", key)
	assert.Equal(t, "value", val)

	_, _, err = renderPair("k:%s", "%s", []interface{}{"only-one"})
	assert.ErrorIs(t, err, ErrTemplateArgs)
}
