package s3blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBlob struct {
	mu      sync.Mutex
	objects map[string]string
	err     error
}

func (m *memBlob) Put(_ context.Context, path string, data io.Reader, _ string) error {
	if m.err != nil {
		return m.err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = string(b)
	return nil
}

func (m *memBlob) PutMultipart(ctx context.Context, path string, data io.Reader, _ int64) error {
	return m.Put(ctx, path, data, "")
}

func TestArchiveRunUploadsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{"positions.txt": "p\n", "risk.txt": "r\n"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	blob := &memBlob{objects: map[string]string{}}
	a := NewRunArchiver(blob, "")

	n, err := a.ArchiveRun(context.Background(), "run-9", []string{
		filepath.Join(dir, "positions.txt"),
		filepath.Join(dir, "risk.txt"),
		filepath.Join(dir, "missing.txt"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	keys := make([]string, 0, len(blob.objects))
	for k := range blob.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"runs/run-9/positions.txt", "runs/run-9/risk.txt"}, keys)
	assert.Equal(t, "r\n", blob.objects["runs/run-9/risk.txt"])
}

func TestArchiveRunReportsUploadError(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "gui.txt")
	require.NoError(t, os.WriteFile(name, []byte("g"), 0o644))
	boom := errors.New("access denied")

	n, err := NewRunArchiver(&memBlob{err: boom}, "x").ArchiveRun(context.Background(), "r", []string{name})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "archive/abc/streaming.txt", ObjectKey("archive", "abc", "/tmp/out/streaming.txt"))
}

func TestNormaliseEndpoint(t *testing.T) {
	assert.Equal(t, "https://minio:9000", normaliseEndpoint("minio:9000", true))
	assert.Equal(t, "http://minio:9000", normaliseEndpoint("minio:9000", false))
	assert.Equal(t, "https://r2.example.com", normaliseEndpoint("https://r2.example.com", false))
}
