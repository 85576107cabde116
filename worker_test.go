package qsim

import (
	"bytes"
	"errors"
	"log"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWorkerRun(t *testing.T) {
	Convey("Given a worker owning a contiguous block", t, func() {
		circuit := NewCircuit("h", 1).H(0)

		Convey("It should execute every run id in its block", func() {
			sampler := NewTrajectorySampler(circuit, mustNoiseModel(0, ""), nil, 1, 1.0, NewStateEngine)
			w := &Worker{id: 0, block: Block{Start: 2, Count: 3}, sampler: sampler, seed: 11}
			w.run()
			So(w.err, ShouldBeNil)
			So(len(w.records), ShouldEqual, 3)
			So(w.records[0].RunID, ShouldEqual, 2)
			So(w.records[2].RunID, ShouldEqual, 4)
		})

		Convey("An allocation failure mid-block should abandon the rest", func() {
			var allocations int64
			flaky := func(qubits int) (StateEngine, error) {
				if atomic.AddInt64(&allocations, 1) == 2 {
					return nil, errors.New("allocation refused")
				}
				return NewStateEngine(qubits)
			}
			sampler := NewTrajectorySampler(circuit, mustNoiseModel(0, ""), nil, 1, 1.0, flaky)
			w := &Worker{id: 3, block: Block{Start: 0, Count: 3}, sampler: sampler, seed: 11}

			var buf bytes.Buffer
			prev := log.Writer()
			log.SetOutput(&buf)
			defer log.SetOutput(prev)
			w.run()

			So(w.err, ShouldNotBeNil)
			So(len(w.records), ShouldEqual, 1)
			// Run id 1 of [0,3) failed, so exactly one run was abandoned.
			So(buf.String(), ShouldContainSubstring, "Worker 3 abandoning 1 remaining runs")
		})
	})
}
