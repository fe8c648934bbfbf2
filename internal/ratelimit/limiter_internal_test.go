package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

// lockAwareClock records whether the limiter held its mutex while reading time.
type lockAwareClock struct {
	*clock.Mock
	m        *Memory
	mu       sync.Mutex
	unlocked int
}

func (c *lockAwareClock) Now() time.Time {
	if c.m.mu.TryLock() {
		c.m.mu.Unlock()
		c.mu.Lock()
		c.unlocked++
		c.mu.Unlock()
	}
	return c.Mock.Now()
}

func TestMemory_ReadsClockUnderLock(t *testing.T) {
	clk := &lockAwareClock{Mock: clock.NewMock()}
	m, err := NewMemory(Config{Max: 50, Window: time.Minute}, clk)
	require.NoError(t, err)
	clk.m = m

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Admit(context.Background(), "shared")
		}()
	}
	wg.Wait()

	require.Zero(t, clk.unlocked)
}

func TestPrune_KeepsOrderedTail(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	history := []time.Time{base, base.Add(30 * time.Second), base.Add(50 * time.Second)}

	kept := prune(history, base.Add(80*time.Second), time.Minute)
	require.Equal(t, []time.Time{base.Add(30 * time.Second), base.Add(50 * time.Second)}, kept)
}
