// Package quantization provides the scalar quantization primitives used by the
// lossy delta codecs.
//
// Residuals are quantized against an explicit step:
//
//	q := quantization.Quantize(residual, quantization.Int8Step, 8) // clamp(round(r/step), ±127)
//	r := quantization.Dequantize(q, quantization.Int8Step)
//
// The step for a symmetric range follows from the bit width:
//
//	step := quantization.Step(math.Pi, 16) // π/32767
//
// # Scalar Quantizer
//
// ScalarQuantizer maps every dimension independently from its trained
// [min, max] range onto uint8, the classic SQ8 baseline:
//
//	sq := quantization.NewScalarQuantizer(dim)
//	_ = sq.Train(vectors)
//	code := sq.Encode(v)   // dim bytes
//	back := sq.Decode(code)
//
// Reconstruction error per dimension is bounded by half a step, (max-min)/510.
package quantization
