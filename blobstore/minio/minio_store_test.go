package minio

import (
	"context"
	"io"
	"testing"

	"github.com/hupe1980/vecpress/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-vecpress"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	_, err = client.ListBuckets(ctx)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	store := NewStore(client, bucket, "test-prefix/")
	require.NoError(t, store.EnsureBucket(ctx, ""))

	// Put and Open
	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "run/test.bin", data))

	blob, err := store.Open(ctx, "run/test.bin")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)

	// ReadRange
	rc, err := blob.ReadRange(ctx, 6, 5)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	got, err := blobstore.ReadAll(ctx, store, "run/test.bin")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// List
	names, err := store.List(ctx, "run/")
	require.NoError(t, err)
	assert.Contains(t, names, "run/test.bin")

	// Delete, twice
	require.NoError(t, store.Delete(ctx, "run/test.bin"))
	require.NoError(t, store.Delete(ctx, "run/test.bin"))

	_, err = store.Open(ctx, "run/test.bin")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStore_Key(t *testing.T) {
	s := NewStore(nil, "bucket", "vectors/")
	assert.Equal(t, "vectors/run/delta.bin", s.key("run/delta.bin"))

	s = NewStore(nil, "bucket", "")
	assert.Equal(t, "delta.bin", s.key("delta.bin"))
}

var _ blobstore.BlobStore = (*Store)(nil)
