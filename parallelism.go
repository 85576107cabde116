package qsim

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// defaultReservation is the number of hardware threads held back from the
// worker pool so the rest of the process (and machine) keeps breathing room.
const defaultReservation = 4

// availableParallelism returns the worker budget: hardware threads minus the
// reservation, floored at 1. Hardware discovery goes through gopsutil with a
// runtime.NumCPU fallback.
func availableParallelism(reservation int) int {
	if reservation < 0 {
		reservation = defaultReservation
	}

	count, err := cpu.Counts(true)
	if err != nil || count <= 0 {
		count = runtime.NumCPU()
	}

	if count-reservation < 1 {
		return 1
	}
	return count - reservation
}
