package core

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	tok, err := NewToken(32)
	require.NoError(t, err)
	assert.Len(t, tok, 43)

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestNewTokenDefaultsSize(t *testing.T) {
	tok, err := NewToken(0)
	require.NoError(t, err)
	assert.Len(t, tok, 43)
}

func TestNewTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok, err := NewToken(32)
		require.NoError(t, err)
		require.False(t, seen[tok], "token collision")
		seen[tok] = true
	}
}
