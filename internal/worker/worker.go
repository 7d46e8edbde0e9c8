// Package worker provides a bounded worker pool for extraction jobs. Each
// individual extraction stays strictly sequential; the pool only bounds
// how many requests run extractions at once service-wide.
package worker

import (
	"context"
	"log"

	"sift/internal/extractor"
)

// Result carries the outcome of one extraction job.
type Result struct {
	Extraction *extractor.ContentExtraction
	Err        error
}

// Job represents a task to be executed by a worker.
type Job struct {
	URL        string
	ResultChan chan Result
	Context    context.Context
}

// Pool manages a set of workers and a queue of jobs.
type Pool struct {
	JobQueue   chan Job
	Dispatcher *extractor.Dispatcher
	PoolSize   int
}

// NewPool creates a new worker pool.
func NewPool(dispatcher *extractor.Dispatcher, poolSize, queueSize int) *Pool {
	return &Pool{
		JobQueue:   make(chan Job, queueSize),
		Dispatcher: dispatcher,
		PoolSize:   poolSize,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.PoolSize; i++ {
		go func(workerID int) {
			log.Printf("Worker %d started", workerID)
			for job := range p.JobQueue {
				if job.Context != nil && job.Context.Err() != nil {
					job.ResultChan <- Result{Err: job.Context.Err()}
					continue
				}
				log.Printf("Worker %d processing job for URL: %s", workerID, job.URL)
				extraction, err := p.Dispatcher.DispatchAndExtract(job.URL)
				job.ResultChan <- Result{Extraction: extraction, Err: err}
			}
			log.Printf("Worker %d stopped", workerID)
		}(i)
	}
}

// Stop gracefully shuts down the worker pool.
func (p *Pool) Stop() {
	log.Println("Stopping worker pool...")
	close(p.JobQueue)
}
