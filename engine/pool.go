package engine

import (
	"runtime"
	"sync"
)

// Pool is a fork/join task pool over persistent worker goroutines. The
// engine forks one task per chunk and joins them all before moving on; the
// pool itself offers nothing beyond that spawn/join contract.
type Pool struct {
	work chan func()
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewPool starts a pool with the given number of workers. workers <= 0 uses
// GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		work: make(chan func(), workers),
		stop: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			return
		case fn, ok := <-p.work:
			if !ok {
				return
			}
			fn()
		}
	}
}

// Close stops all workers and waits for them to exit. Pending joins must
// have completed before Close is called.
func (p *Pool) Close() {
	close(p.stop)
	p.wg.Wait()
}

// Task is a joinable handle for one spawned unit of work.
type Task[T any] struct {
	done     chan struct{}
	result   T
	panicked any
}

// Spawn submits fn to the pool and returns its handle. Spawn blocks while
// every worker is busy, which only throttles dispatch: workers never spawn
// tasks themselves, so this cannot deadlock.
func Spawn[T any](p *Pool, fn func() T) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	p.work <- func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.panicked = r
			}
		}()
		t.result = fn()
	}
	return t
}

// Join blocks until the task completes and returns its result. A panic
// inside the task is re-raised here, on the joining goroutine: a generation
// that panics is fatal, never silently absorbed.
func (t *Task[T]) Join() T {
	<-t.done
	if t.panicked != nil {
		panic(t.panicked)
	}
	return t.result
}
