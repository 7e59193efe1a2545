package swarm

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executors(t *testing.T, size int) map[string]Executor {
	t.Helper()
	pool := NewPool(size)
	t.Cleanup(pool.Close)
	return map[string]Executor{
		"pool":    pool,
		"limited": NewLimited(size),
	}
}

func TestExecutor_RunsEveryTask(t *testing.T) {
	for name, exec := range executors(t, 4) {
		t.Run(name, func(t *testing.T) {
			var count atomic.Int64
			tasks := make([]Task, 100)
			for i := range tasks {
				tasks[i] = func() { count.Add(1) }
			}

			require.NoError(t, exec.Run(tasks))
			assert.Equal(t, int64(100), count.Load())
		})
	}
}

func TestExecutor_BoundsParallelism(t *testing.T) {
	for name, exec := range executors(t, 3) {
		t.Run(name, func(t *testing.T) {
			var running, peak atomic.Int64
			tasks := make([]Task, 20)
			for i := range tasks {
				tasks[i] = func() {
					n := running.Add(1)
					for {
						p := peak.Load()
						if n <= p || peak.CompareAndSwap(p, n) {
							break
						}
					}
					time.Sleep(2 * time.Millisecond)
					running.Add(-1)
				}
			}

			require.NoError(t, exec.Run(tasks))
			assert.LessOrEqual(t, peak.Load(), int64(exec.Size()))
			assert.Equal(t, 3, exec.Size())
		})
	}
}

func TestExecutor_EmptyBatch(t *testing.T) {
	for name, exec := range executors(t, 2) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, exec.Run(nil))
		})
	}
}

func TestNewPool_ClampsSize(t *testing.T) {
	p := NewPool(0)
	defer p.Close()
	assert.Equal(t, 1, p.Size())
	assert.Equal(t, 1, NewLimited(-3).Size())
}

func TestPool_ConcurrentBatches(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var wg sync.WaitGroup
	var total atomic.Int64
	for b := 0; b < 8; b++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tasks := make([]Task, 50)
			for i := range tasks {
				tasks[i] = func() { total.Add(1) }
			}
			assert.NoError(t, p.Run(tasks))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(400), total.Load())
	stats := p.GetStats()
	assert.Equal(t, int64(8), stats.Batches)
	assert.Equal(t, int64(400), stats.TasksCompleted)
	assert.Equal(t, 4, stats.Workers)
}

func TestPool_Close(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()

	err := p.Run([]Task{func() {}})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPool_PanicReachesCaller(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	var ran atomic.Int64
	tasks := []Task{
		func() { ran.Add(1) },
		func() { panic("boom") },
		func() { ran.Add(1) },
	}

	assert.PanicsWithValue(t, "boom", func() { _ = p.Run(tasks) })
	assert.Equal(t, int64(2), ran.Load())

	// Workers survive the panic.
	require.NoError(t, p.Run([]Task{func() { ran.Add(1) }}))
	assert.Equal(t, int64(3), ran.Load())
}
