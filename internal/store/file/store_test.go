package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
)

func TestAppendWritesOneFilePerStream(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{Dir: filepath.Join(dir, "out"), Files: map[string]string{"risk": "risk.txt"}})
	require.NoError(t, err)

	ts := time.Date(2024, 5, 6, 7, 8, 9, 10*int(time.Millisecond), time.UTC)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, domain.HistoricalRecord{Stream: "risk", Line: "a", Timestamp: ts}))
	require.NoError(t, s.Append(ctx, domain.HistoricalRecord{Stream: "risk", Line: "b", Timestamp: ts}))
	require.NoError(t, s.Append(ctx, domain.HistoricalRecord{Stream: "gui", Line: "c", Timestamp: ts}))
	require.NoError(t, s.Close())

	risk, err := os.ReadFile(filepath.Join(dir, "out", "risk.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06 07:08:09:010, a\n2024-05-06 07:08:09:010, b\n", string(risk))

	gui, err := os.ReadFile(filepath.Join(dir, "out", "gui.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06 07:08:09:010, c\n", string(gui))

	assert.Equal(t, []string{
		filepath.Join(dir, "out", "gui.txt"),
		filepath.Join(dir, "out", "risk.txt"),
	}, s.Paths())
}
