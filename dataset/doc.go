// Package dataset generates synthetic vector sequences with controlled
// correlation between consecutive vectors.
//
// All generators draw from a seeded RNG, so a run is reproducible:
//
//	rng := dataset.NewRNG(42)
//	drift := rng.ConversationalDrift(1000, 768, 0.05)
//	smooth := rng.TemporalSmoothing(1000, 768, 0.9)
//
// The standard experiment is available as named specs:
//
//	for _, s := range dataset.Standard() {
//	    vectors := s.Generate(rng, 1000, 768)
//	}
package dataset
