package qsim

import (
	"fmt"
	"log"
	"time"
)

/*
Worker owns one contiguous block of run ids and executes them sequentially
against its own sampler draws. Everything a worker mutates -- its records,
its timing, its error -- is private until the orchestrator's join barrier,
so the parallel phase needs no locking.
*/
type Worker struct {
	id      int
	block   Block
	sampler *TrajectorySampler
	seed    uint64

	records []TrajectoryRecord
	elapsed time.Duration
	err     error
}

// run executes the assigned block to completion. On a state-engine
// allocation failure the remaining runs are abandoned; the orchestrator
// treats the whole invocation as failed.
func (w *Worker) run() {
	start := time.Now()
	w.records = make([]TrajectoryRecord, 0, w.block.Count)

	for runID := w.block.Start; runID < w.block.Start+w.block.Count; runID++ {
		record, err := w.sampler.Run(w.seed, runID, true)
		if err != nil {
			w.err = fmt.Errorf("worker %d: %w", w.id, err)
			log.Printf("Worker %d abandoning %d remaining runs: %v",
				w.id, w.block.Start+w.block.Count-runID-1, err)
			return
		}
		w.records = append(w.records, record)
	}

	w.elapsed = time.Since(start)
}
