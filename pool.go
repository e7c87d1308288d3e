package main

import (
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// #############################################################################

func NewWorkerPool(nJobs uint64, bar *progressbar.ProgressBar) *WorkerPool {
	return &WorkerPool{
		make(InputChannel, nJobs),
		make(OutputChannel, nJobs),
		nJobs,
		bar,
	}
}

func StartWorker(fn WorkerFunc, ctx WorkerCtx, InChan InputChannel, OutChan OutputChannel, bar *progressbar.ProgressBar) {
	for job := range InChan {
		OutChan <- WorkerOutput{job.id, fn(ctx, job.data)}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
}

// Run drains every queued job with nWorkers goroutines (NumCPU when zero)
// and returns the outputs in completion order.
func (p *WorkerPool) Run(fn WorkerFunc, ctx WorkerCtx, nWorkers int) []WorkerOutput {
	l := nWorkers
	if l <= 0 {
		l = runtime.NumCPU()
	}
	var wg sync.WaitGroup
	for i := 0; i < l; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			StartWorker(fn, ctx, p.InChan, p.OutChan, p.bar)
		}()
	}

	close(p.InChan)
	wg.Wait()
	out := make([]WorkerOutput, p.nJobs)
	for i := uint64(0); i < p.nJobs; i++ {
		out[i] = <-p.OutChan
	}

	close(p.OutChan)
	if p.bar != nil {
		_ = p.bar.Finish()
	}
	return out
}

// #############################################################################
