// Package testutil provides fixtures and assertions shared by the codec tests.
//
// This package is intended for use in tests and benchmarks only.
//
//	seq := testutil.ConstantStep(100, 10, 0.5, 0.01)
//	blob, _ := c.Encode(seq)
//	got, _ := c.Decode(blob)
//	testutil.RequireShape(t, got, 100, 10)
//	require.LessOrEqual(t, testutil.MaxAbsDiff(seq, got), bound)
package testutil
