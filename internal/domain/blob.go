package domain

import (
	"context"
	"io"
)

// BlobWriter uploads data to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, partSize int64) error
}

// Archiver ships the output files of a finished run to object storage and
// returns how many were uploaded.
type Archiver interface {
	ArchiveRun(ctx context.Context, runID string, files []string) (int, error)
}
