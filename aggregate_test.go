package qsim

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	. "github.com/smartystreets/goconvey/convey"
)

// sortedSpew matches spew's default dump format but walks map keys in a
// deterministic order, so equal maps always produce equal dumps.
var sortedSpew = spew.ConfigState{Indent: " ", SortKeys: true}

func testProperties() []Property {
	return []Property{
		{Ordinal: 0, Index: 0, Label: "00"},
		{Ordinal: 1, Index: 3, Label: "11"},
	}
}

func TestAggregateMerge(t *testing.T) {
	Convey("Given a set of trajectory records", t, func() {
		// Exactly representable values, so permuted sums stay bit-identical.
		records := []TrajectoryRecord{
			{RunID: 0, Properties: []float64{0.5, 0.5}, Outcome: "00"},
			{RunID: 1, Properties: []float64{0.25, 0.75}, Outcome: "11"},
			{RunID: 2, Properties: []float64{1.0, 0.0}, Outcome: "00"},
			{RunID: 3, Properties: []float64{0.125, 0.875}, Outcome: "11", Approximations: 2},
		}

		Convey("Means should be the per-ordinal sums divided by the run count", func() {
			agg := NewAggregate(testProperties())
			for _, r := range records {
				agg.Add(r)
			}

			means := agg.MeanProperties()
			So(means["00"], ShouldAlmostEqual, (0.5+0.25+1.0+0.125)/4)
			So(means["11"], ShouldAlmostEqual, (0.5+0.75+0.0+0.875)/4)
			So(agg.Runs(), ShouldEqual, 4)
			So(agg.Approximations(), ShouldEqual, 2)
		})

		Convey("Outcome counts should union keys and sum occurrences", func() {
			agg := NewAggregate(testProperties())
			for _, r := range records {
				agg.Add(r)
			}
			So(agg.Distribution(), ShouldResemble, map[string]uint64{"00": 2, "11": 2})
		})

		Convey("Aggregating any permutation should yield an identical result", func() {
			reference := NewAggregate(testProperties())
			for _, r := range records {
				reference.Add(r)
			}

			permutations := [][]int{
				{3, 2, 1, 0},
				{1, 3, 0, 2},
				{2, 0, 3, 1},
			}
			for _, order := range permutations {
				agg := NewAggregate(testProperties())
				for _, i := range order {
					agg.Add(records[i])
				}
				So(sortedSpew.Sdump(agg.MeanProperties()), ShouldEqual, sortedSpew.Sdump(reference.MeanProperties()))
				So(agg.Distribution(), ShouldResemble, reference.Distribution())
			}
		})

		Convey("A record with a diverging property count should panic", func() {
			agg := NewAggregate(testProperties())
			So(func() {
				agg.Add(TrajectoryRecord{Properties: []float64{0.5}, Outcome: "00"})
			}, ShouldPanic)
		})
	})
}

func TestAggregateSample(t *testing.T) {
	Convey("Given an aggregated measurement distribution", t, func() {
		agg := NewAggregate(nil)
		for i := 0; i < 750; i++ {
			agg.Add(TrajectoryRecord{RunID: uint64(i), Properties: nil, Outcome: "0"})
		}
		for i := 0; i < 250; i++ {
			agg.Add(TrajectoryRecord{RunID: uint64(750 + i), Properties: nil, Outcome: "1"})
		}

		Convey("Sampled counts should sum exactly to the requested shots", func() {
			counts := agg.Sample(1000, NewRNG(7, 0))
			total := uint64(0)
			for _, c := range counts {
				total += c
			}
			So(total, ShouldEqual, 1000)
		})

		Convey("Sampling should roughly follow the distribution", func() {
			counts := agg.Sample(10000, NewRNG(7, 0))
			So(float64(counts["0"])/10000, ShouldAlmostEqual, 0.75, 0.05)
			So(float64(counts["1"])/10000, ShouldAlmostEqual, 0.25, 0.05)
		})

		Convey("Sampling should be reproducible for a fixed stream", func() {
			a := agg.Sample(500, NewRNG(11, 3))
			b := agg.Sample(500, NewRNG(11, 3))
			So(a, ShouldResemble, b)
		})

		Convey("An empty aggregate should yield no samples", func() {
			empty := NewAggregate(nil)
			So(len(empty.Sample(10, NewRNG(1, 1))), ShouldEqual, 0)
		})
	})
}
