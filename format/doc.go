// Package format holds the little-endian wire primitives shared by every codec.
//
// A Writer appends fixed-width fields to a growing byte slice. A Reader walks a
// blob with explicit bounds checks and reports every violation as a
// *MalformedBlobError, so decoders never read past a declared length.
//
//	w := format.NewWriter(64)
//	w.Header(format.Header{N: 2, Dim: 3})
//	w.Float32s(anchor)
//	w.Section(payload)
//
//	r := format.NewReader(blob)
//	h, err := r.Header()
//	anchor, err := r.Float32s("anchor", int(h.Dim))
//	payload, err := r.Section("payload")
package format
