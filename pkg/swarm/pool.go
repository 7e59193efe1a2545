// Package swarm provides bounded executors for fan-out work.
//
// An Executor is always an explicit value owned by (or injected into) its
// user. There is no process-wide pool, so components with different degrees of
// parallelism can coexist.
package swarm

import (
	"errors"
	"sync"
)

// ErrPoolClosed is returned by Run after Close.
var ErrPoolClosed = errors.New("swarm: pool closed")

// Task is a unit of work. Tasks report results through captured state.
type Task func()

// Executor runs a batch of tasks with bounded parallelism and blocks until
// every task has finished.
type Executor interface {
	Run(tasks []Task) error
	// Size is the maximum number of tasks running at once.
	Size() int
}

// Pool is a fixed set of long-lived worker goroutines.
type Pool struct {
	size  int
	tasks chan job

	// mu guards closed and the send side of tasks.
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	statsMu sync.Mutex
	stats   Stats
}

// Stats holds runtime statistics for the pool.
type Stats struct {
	Workers        int
	Batches        int64
	TasksCompleted int64
}

type job struct {
	task Task
	done *sync.WaitGroup
}

// NewPool starts size workers. A size below 1 is treated as 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		size:  size,
		tasks: make(chan job, size),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) Size() int {
	return p.size
}

// Run submits tasks and waits for all of them. Concurrent Run calls share the
// workers. A panicking task is re-raised in the caller after the batch drains.
func (p *Pool) Run(tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	var (
		done     sync.WaitGroup
		panicMu  sync.Mutex
		panicVal any
	)

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	done.Add(len(tasks))
	for _, t := range tasks {
		p.tasks <- job{
			task: func() {
				defer func() {
					if r := recover(); r != nil {
						panicMu.Lock()
						if panicVal == nil {
							panicVal = r
						}
						panicMu.Unlock()
					}
				}()
				t()
			},
			done: &done,
		}
	}
	p.mu.RUnlock()

	done.Wait()

	p.statsMu.Lock()
	p.stats.Batches++
	p.stats.TasksCompleted += int64(len(tasks))
	p.statsMu.Unlock()

	if panicVal != nil {
		panic(panicVal)
	}
	return nil
}

// Close stops accepting work, lets queued tasks finish and waits for the
// workers to exit. It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

// GetStats returns current pool stats.
func (p *Pool) GetStats() Stats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	s := p.stats
	s.Workers = p.size
	return s
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.tasks {
		j.task()
		j.done.Done()
	}
}
