// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and any other S3-compatible storage (Ceph, SeaweedFS,
// Garage, AWS S3) and is the remote archive target of vecbench.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "benchmarks", "vecpress/")
//	if err := store.EnsureBucket(ctx, ""); err != nil {
//	    log.Fatal(err)
//	}
//	_ = store.Put(ctx, "run-1/report.json", report)
package minio
