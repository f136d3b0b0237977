package snapshot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"GroundwaterDash/internal/reporting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu      sync.Mutex
	entries []reporting.FileEntry
	err     error
	calls   int
}

func (s *stubSource) ListFileEntries(ctx context.Context) ([]reporting.FileEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.entries, s.err
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	src := &stubSource{entries: []reporting.FileEntry{{FileNo: "A"}}}
	c := NewCache(src)

	require.NoError(t, c.Refresh(context.Background()))
	entries, loadedAt, version := c.Snapshot()
	assert.Len(t, entries, 1)
	assert.False(t, loadedAt.IsZero())
	assert.Equal(t, 1, version)

	held := entries
	src.entries = []reporting.FileEntry{{FileNo: "B"}, {FileNo: "C"}}
	require.NoError(t, c.Refresh(context.Background()))
	entries, _, version = c.Snapshot()
	assert.Len(t, entries, 2)
	assert.Equal(t, 2, version)
	assert.Equal(t, "A", held[0].FileNo, "earlier readers keep their snapshot")
}

func TestRefreshKeepsSnapshotOnError(t *testing.T) {
	src := &stubSource{entries: []reporting.FileEntry{{FileNo: "A"}}}
	c := NewCache(src)
	require.NoError(t, c.Refresh(context.Background()))

	src.err = errors.New("connection refused")
	assert.Error(t, c.Refresh(context.Background()))
	entries, _, version := c.Snapshot()
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, version)
}

func TestRefreshUnchangedKeepsVersion(t *testing.T) {
	src := &stubSource{entries: []reporting.FileEntry{{FileNo: "A"}}}
	c := NewCache(src)
	require.NoError(t, c.Refresh(context.Background()))
	fp := c.Fingerprint()
	assert.Len(t, fp, 64)

	src.entries = []reporting.FileEntry{{FileNo: "A"}}
	require.NoError(t, c.Refresh(context.Background()))
	_, _, version := c.Snapshot()
	assert.Equal(t, 1, version)
	assert.Equal(t, fp, c.Fingerprint())
	assert.Equal(t, 2, src.calls)

	assert.Equal(t, 2, c.Replace([]reporting.FileEntry{{FileNo: "B"}}))
	assert.NotEqual(t, fp, c.Fingerprint())
}

func TestRefreshWithoutSource(t *testing.T) {
	assert.ErrorIs(t, NewCache(nil).Refresh(context.Background()), ErrNoSource)
}

func TestSnapshotServiceOptions(t *testing.T) {
	svc := NewSnapshotService(map[string]interface{}{"heartbeat_interval": "30s", "refresh_timeout": float64(5)}, &stubSource{})
	c, ok := svc.(*Cache)
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, c.heartbeatInterval)
	assert.Equal(t, 5*time.Second, c.refreshTimeout)
	assert.Equal(t, "snapshot", svc.Name())

	require.NoError(t, svc.Start())
	require.NoError(t, svc.Stop())
	assert.NotPanics(t, func() { assert.NoError(t, svc.Stop()) }, "second stop is a no-op")
}
