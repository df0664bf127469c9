// Package blobstore provides storage for benchmark artifacts: compressed
// sequences and run reports.
//
// BlobStore is the interface for reading and writing named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, atomic writes via temp file + rename
//   - MemoryStore: in-memory, for tests
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Usage
//
//	store := blobstore.NewLocalStore("./artifacts")
//	_ = store.Put(ctx, "run-1/delta.bin", blob)
//	data, _ := blobstore.ReadAll(ctx, store, "run-1/delta.bin")
package blobstore
