package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountLimiter_FiresOnFirstCall(t *testing.T) {
	l := NewCountLimiter()
	status := l.Check(5)
	require.NotNil(t, status)
	assert.False(t, status.IsDisallow())

	skipped, ok := CheckStatus(status)
	assert.True(t, ok)
	assert.Equal(t, 0, skipped)
}

func TestCountLimiter_SuppressesBetweenFires(t *testing.T) {
	l := NewCountLimiter()

	// First call always fires.
	_, ok := CheckStatus(l.Check(3))
	require.True(t, ok)

	// Next two should be suppressed (n=3 means fire every third call).
	_, ok = CheckStatus(l.Check(3))
	assert.False(t, ok)
	_, ok = CheckStatus(l.Check(3))
	assert.False(t, ok)

	// Third call since the last fire should fire again.
	skipped, ok := CheckStatus(l.Check(3))
	require.True(t, ok)
	assert.Equal(t, 2, skipped)
}

func TestCountLimiter_NConstantOne(t *testing.T) {
	l := NewCountLimiter()
	for i := 0; i < 5; i++ {
		_, ok := CheckStatus(l.Check(1))
		assert.True(t, ok, "n=1 should fire every call")
	}
}
