package qsim

import "fmt"

// ExampleSimulator estimates a noisy Bell-pair distribution.
func ExampleSimulator() {
	circuit := NewCircuit("bell", 2).H(0).CX(0, 1)

	config := NewConfig()
	config.NoiseEffects = "APD"
	config.BaseNoiseProbability = 0.01
	config.RunCount = 1000
	config.RecordedProperties = "0-3"

	sim, err := NewSimulator(circuit, config, WithSeed(1234))
	if err != nil {
		fmt.Println(err)
		return
	}

	means, err := sim.StochSimulate()
	if err != nil {
		fmt.Println(err)
		return
	}
	for label, mean := range means {
		fmt.Printf("P(|%s>) = %.3f\n", label, mean)
	}

	counts, err := sim.Simulate(100)
	if err != nil {
		fmt.Println(err)
		return
	}
	for bitstring, count := range counts {
		fmt.Printf("%s: %d\n", bitstring, count)
	}
}
