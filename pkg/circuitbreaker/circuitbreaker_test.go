package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newBreaker(timeout time.Duration) *CircuitBreaker {
	return New(Settings{Name: "test", MaxFailures: 3, Timeout: timeout})
}

func TestStaysClosedOnSuccess(t *testing.T) {
	cb := newBreaker(time.Minute)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(func() error { return nil }))
	}
	assert.Equal(t, "closed", cb.State())
}

func TestOpensAfterMaxFailures(t *testing.T) {
	cb := newBreaker(time.Minute)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	}
	assert.Equal(t, "open", cb.State())

	// Open breaker rejects without running the function.
	ran := false
	err := cb.Execute(func() error { ran = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, ran)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := newBreaker(time.Minute)

	assert.Error(t, cb.Execute(func() error { return errBoom }))
	assert.Error(t, cb.Execute(func() error { return errBoom }))
	require.NoError(t, cb.Execute(func() error { return nil }))

	assert.Error(t, cb.Execute(func() error { return errBoom }))
	assert.Error(t, cb.Execute(func() error { return errBoom }))
	assert.Equal(t, "closed", cb.State())
}

func TestHalfOpenProbe(t *testing.T) {
	cb := newBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Execute(func() error { return errBoom }))
	}
	assert.Equal(t, "open", cb.State())

	time.Sleep(20 * time.Millisecond)

	// Probe succeeds, breaker closes again.
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, "closed", cb.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := newBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Execute(func() error { return errBoom }))
	}

	time.Sleep(20 * time.Millisecond)

	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, "open", cb.State())
}
