package limiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitSpacing(t *testing.T) {
	const (
		n        = 4
		interval = 30 * time.Millisecond
	)
	l := New(interval)

	start := time.Now()
	for i := 0; i < n; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, time.Duration(n-1)*interval)
}

func TestWaitConcurrent(t *testing.T) {
	const (
		n        = 3
		interval = 25 * time.Millisecond
	)
	l := New(interval)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Wait(context.Background())
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, time.Since(start), time.Duration(n-1)*interval)
}

func TestZeroIntervalNeverBlocks(t *testing.T) {
	l := New(0)

	start := time.Now()
	for i := 0; i < 50; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
