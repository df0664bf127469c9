package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/vecpress/blobstore"
	minioblob "github.com/hupe1980/vecpress/blobstore/minio"
	"github.com/hupe1980/vecpress/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// openStore returns the archive store described by a, or nil for kind none.
func openStore(ctx context.Context, a config.ArchiveConfig) (blobstore.BlobStore, error) {
	switch strings.ToLower(a.Kind) {
	case "", config.ArchiveNone:
		return nil, nil
	case config.ArchiveLocal:
		return blobstore.NewLocalStore(a.Path), nil
	case config.ArchiveMinio:
		client, err := minio.New(a.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(a.AccessKey, a.SecretKey, ""),
			Secure: a.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		store := minioblob.NewStore(client, a.Bucket, "")
		if err := store.EnsureBucket(ctx, ""); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket %q: %w", a.Bucket, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: kind %q", config.ErrInvalidArchive, a.Kind)
	}
}
