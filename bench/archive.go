package bench

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/hupe1980/vecpress/blobstore"
	"github.com/hupe1980/vecpress/format"
)

// ReportName is the blob name of an archived report inside its run prefix.
const ReportName = "report.json"

// Archiver stores reports and encoded blobs under <prefix>/<run>/.
type Archiver struct {
	store  blobstore.BlobStore
	prefix string
	blobs  bool
}

// NewArchiver returns an Archiver writing to store under prefix/run. If
// withBlobs is false StoreBlob is a no-op and only reports are archived.
func NewArchiver(store blobstore.BlobStore, prefix, run string, withBlobs bool) *Archiver {
	return &Archiver{
		store:  store,
		prefix: path.Join(prefix, run),
		blobs:  withBlobs,
	}
}

// Prefix returns the blob name prefix of this run.
func (a *Archiver) Prefix() string { return a.prefix }

// BlobName returns the name under which the blob of dataset/method is stored.
func (a *Archiver) BlobName(dataset, method string) string {
	return path.Join(a.prefix, dataset, method+".bin")
}

// StoreBlob implements BlobSink.
func (a *Archiver) StoreBlob(ctx context.Context, dataset, method string, blob []byte) error {
	if !a.blobs {
		return nil
	}
	return a.store.Put(ctx, a.BlobName(dataset, method), blob)
}

// ArchiveReport stores the JSON report and returns its blob name.
func (a *Archiver) ArchiveReport(ctx context.Context, r *Report) (string, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, r); err != nil {
		return "", err
	}
	name := path.Join(a.prefix, ReportName)
	return name, a.store.Put(ctx, name, buf.Bytes())
}

// LoadReport reads an archived report.
func LoadReport(ctx context.Context, store blobstore.BlobStore, name string) (*Report, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}
	return ReadJSON(data)
}

// Runs returns the run prefixes under prefix that hold a report. Run names
// are UTC timestamps, so the result is ordered oldest first.
func Runs(ctx context.Context, store blobstore.BlobStore, prefix string) ([]string, error) {
	names, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	var runs []string
	for _, name := range names {
		if path.Base(name) == ReportName && path.Dir(name) != "." {
			runs = append(runs, path.Dir(name))
		}
	}
	slices.Sort(runs)
	return runs, nil
}

// PruneRuns deletes every blob of all but the newest keep runs under prefix
// and returns the removed run prefixes.
func PruneRuns(ctx context.Context, store blobstore.BlobStore, prefix string, keep int) ([]string, error) {
	runs, err := Runs(ctx, store, prefix)
	if err != nil {
		return nil, err
	}
	if len(runs) <= keep {
		return nil, nil
	}
	stale := runs[:len(runs)-max(keep, 0)]
	for _, run := range stale {
		names, err := store.List(ctx, run+"/")
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if err := store.Delete(ctx, name); err != nil {
				return nil, err
			}
		}
	}
	return stale, nil
}

// BlobInfo describes an archived encoded blob.
type BlobInfo struct {
	Name   string
	Size   int64
	Header format.Header
}

// InspectBlobs returns the archived blobs of run without loading their
// payloads: only the (n, dim) header of each is read.
func InspectBlobs(ctx context.Context, store blobstore.BlobStore, run string) ([]BlobInfo, error) {
	names, err := store.List(ctx, strings.TrimSuffix(run, "/")+"/")
	if err != nil {
		return nil, err
	}
	var infos []BlobInfo
	for _, name := range names {
		if path.Ext(name) != ".bin" {
			continue
		}
		info, err := inspectBlob(ctx, store, name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func inspectBlob(ctx context.Context, store blobstore.BlobStore, name string) (BlobInfo, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return BlobInfo{}, err
	}
	defer blob.Close()

	buf := make([]byte, format.HeaderSize)
	n, err := blob.ReadAt(ctx, buf, 0)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(buf)) {
		if errors.Is(err, io.EOF) {
			return BlobInfo{}, format.Malformed("header", 0, format.HeaderSize, n, nil)
		}
		return BlobInfo{}, err
	}
	h, err := format.NewReader(buf).Header()
	if err != nil {
		return BlobInfo{}, err
	}
	return BlobInfo{Name: name, Size: blob.Size(), Header: h}, nil
}
