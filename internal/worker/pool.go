// internal/worker/pool.go
package worker

import "sync"

type Job[T any] func() T

type Result[T any] struct {
	JobID  string
	Output T
}

// Pool runs submitted jobs on a fixed set of goroutines. Results arrive in
// completion order, not submission order.
type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]
	wg      sync.WaitGroup
}

type jobWrapper[T any] struct {
	id string
	fn Job[T]
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.results <- Result[T]{
			JobID:  job.id,
			Output: job.fn(),
		}
	}
}

// Submit queues a job. It blocks while the job buffer is full, so callers
// submitting more than bufferSize jobs must drain Results concurrently.
func (p *Pool[T]) Submit(id string, fn Job[T]) {
	p.jobs <- jobWrapper[T]{id: id, fn: fn}
}

// Close stops accepting jobs. Results is closed once every queued job has
// finished.
func (p *Pool[T]) Close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}
