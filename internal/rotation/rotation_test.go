package rotation

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRotatorDefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, NewRotator(0).Interval())
	assert.Equal(t, DefaultInterval, NewRotator(-time.Second).Interval())
	assert.Equal(t, time.Second, NewRotator(time.Second).Interval())
}

func TestRotatorTicks(t *testing.T) {
	r := NewRotator(5 * time.Millisecond)
	var ticks atomic.Int32
	require.True(t, r.Start(context.Background(), func() { ticks.Add(1) }))
	defer r.Stop()

	assert.True(t, r.Running())
	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestRotatorStartTwice(t *testing.T) {
	r := NewRotator(time.Hour)
	require.True(t, r.Start(context.Background(), func() {}))
	assert.False(t, r.Start(context.Background(), func() {}))
	r.Stop()
	assert.True(t, r.Start(context.Background(), func() {}), "a stopped rotator can be restarted")
	r.Stop()
}

func TestRotatorStopIsDeterministic(t *testing.T) {
	r := NewRotator(time.Millisecond)
	var ticks atomic.Int32
	require.True(t, r.Start(context.Background(), func() { ticks.Add(1) }))
	assert.Eventually(t, func() bool { return ticks.Load() > 0 }, time.Second, time.Millisecond)

	r.Stop()
	assert.False(t, r.Running())
	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no tick may run after Stop returns")

	r.Stop()
}

func TestRotatorStopsWithContext(t *testing.T) {
	r := NewRotator(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, r.Start(ctx, func() {}))
	cancel()
	assert.Eventually(t, func() bool { return !r.Running() }, time.Second, time.Millisecond)
	r.Stop()
}
