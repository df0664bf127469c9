// Package analysis measures how compressible a vector sequence is.
//
// It covers three groups of diagnostics:
//
//   - fidelity: consecutive cosine similarity, accuracy loss, max error
//   - deltas: distribution of cartesian and angular deltas, and the Shannon
//     entropy of int8-quantized deltas that bounds what delta-ans can reach
//   - dynamics: correlation dimension (Grassberger–Procaccia), the largest
//     Lyapunov exponent and principal-component explained variance
//
// Statistics are computed with gonum.
package analysis
