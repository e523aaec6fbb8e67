package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct{ resetValue int }

func (f *fakeLimiter) Reset() int { return f.resetValue }

func TestCombine_DisallowDominates(t *testing.T) {
	assert.Same(t, Disallow, Combine(Disallow, Allow))
	assert.Same(t, Disallow, Combine(Allow, Disallow))
	assert.Same(t, Disallow, Combine(Disallow, nil))
	assert.Same(t, Disallow, Combine(nil, Disallow))
}

func TestCombine_NilDefersToOther(t *testing.T) {
	p := pending(&fakeLimiter{resetValue: 3})
	assert.Same(t, p, Combine(nil, p))
	assert.Same(t, p, Combine(p, nil))
	assert.Nil(t, Combine(nil, nil))
}

func TestCombine_AllowDefersToOther(t *testing.T) {
	p := pending(&fakeLimiter{resetValue: 3})
	assert.Same(t, p, Combine(Allow, p))
	assert.Same(t, p, Combine(p, Allow))
}

func TestCombine_MergesPendingLimiters(t *testing.T) {
	a := pending(&fakeLimiter{resetValue: 2})
	b := pending(&fakeLimiter{resetValue: 5})
	merged := Combine(a, b)

	skipped, ok := CheckStatus(merged)
	assert.True(t, ok)
	assert.Equal(t, 7, skipped)
}

func TestCheckStatus_NilAndAllow(t *testing.T) {
	skipped, ok := CheckStatus(nil)
	assert.True(t, ok)
	assert.Equal(t, 0, skipped)

	skipped, ok = CheckStatus(Allow)
	assert.True(t, ok)
	assert.Equal(t, 0, skipped)
}

func TestCheckStatus_PendingWithLostRaceSuppressesEverything(t *testing.T) {
	a := pending(&fakeLimiter{resetValue: 4})
	b := pending(&fakeLimiter{resetValue: -1})
	merged := Combine(a, b)

	skipped, ok := CheckStatus(merged)
	assert.False(t, ok)
	assert.Equal(t, -1, skipped)
}
