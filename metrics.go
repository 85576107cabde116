package qsim

import (
	"strconv"
	"sync"
	"time"
)

/*
Metrics is the write-once statistics aggregate of a stochastic invocation.
It is populated after all workers complete; the mutex guards readers that
poll while a later invocation is running.
*/
type Metrics struct {
	mu sync.RWMutex

	Runs              uint64
	ApproximationRuns uint64
	PerfectRunTime    time.Duration
	StochRunTime      time.Duration
	MeanStochTime     time.Duration
	WorkerCount       int
	StepFidelity      float64
}

func newMetrics(stepFidelity float64) *Metrics {
	return &Metrics{StepFidelity: stepFidelity}
}

func (m *Metrics) record(runs, approximations uint64, perfect, wall, mean time.Duration, workers int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Runs = runs
	m.ApproximationRuns = approximations
	m.PerfectRunTime = perfect
	m.StochRunTime = wall
	m.MeanStochTime = mean
	m.WorkerCount = workers
}

// Export renders the statistics under their stable reporting keys.
func (m *Metrics) Export() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]string{
		"step_fidelity":       strconv.FormatFloat(m.StepFidelity, 'f', -1, 64),
		"approximation_runs":  strconv.FormatUint(m.ApproximationRuns, 10),
		"perfect_run_time":    strconv.FormatFloat(m.PerfectRunTime.Seconds(), 'f', -1, 64),
		"stoch_wall_time":     strconv.FormatFloat(m.StochRunTime.Seconds(), 'f', -1, 64),
		"mean_stoch_run_time": strconv.FormatFloat(m.MeanStochTime.Seconds(), 'f', -1, 64),
		"parallel_instances":  strconv.Itoa(m.WorkerCount),
	}
}
