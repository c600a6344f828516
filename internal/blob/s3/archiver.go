package s3blob

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
)

// multipartThreshold is the file size above which uploads go through the
// multipart manager.
const multipartThreshold int64 = 16 * 1024 * 1024

// maxParallelUploads bounds concurrent file uploads per run.
const maxParallelUploads = 4

// RunArchiver implements domain.Archiver by uploading each output file to
// "<prefix>/<runID>/<basename>".
type RunArchiver struct {
	writer domain.BlobWriter
	prefix string
}

// NewRunArchiver creates a RunArchiver. prefix defaults to "runs".
func NewRunArchiver(writer domain.BlobWriter, prefix string) *RunArchiver {
	if prefix == "" {
		prefix = "runs"
	}
	return &RunArchiver{writer: writer, prefix: prefix}
}

// ArchiveRun uploads files concurrently. Missing files are skipped. The count
// of uploaded files is returned together with the first upload error.
func (a *RunArchiver) ArchiveRun(ctx context.Context, runID string, files []string) (int, error) {
	var uploaded atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)

	for _, name := range files {
		name := name
		g.Go(func() error {
			ok, err := a.upload(ctx, runID, name)
			if ok {
				uploaded.Add(1)
			}
			return err
		})
	}

	err := g.Wait()
	return int(uploaded.Load()), err
}

func (a *RunArchiver) upload(ctx context.Context, runID, name string) (bool, error) {
	f, err := os.Open(name)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("s3blob: open %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("s3blob: stat %s: %w", name, err)
	}

	key := ObjectKey(a.prefix, runID, name)
	if info.Size() > multipartThreshold {
		err = a.writer.PutMultipart(ctx, key, f, minPartSize)
	} else {
		err = a.writer.Put(ctx, key, f, "text/plain")
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ObjectKey builds the object key for a run's output file.
//
//	runs/3f2a.../positions.txt
func ObjectKey(prefix, runID, file string) string {
	return path.Join(prefix, runID, filepath.Base(file))
}
