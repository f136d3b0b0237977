package logger

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerServiceWritesAuditLines(t *testing.T) {
	dir := t.TempDir()
	l := NewLoggerService(map[string]interface{}{"folder_path": dir, "max_file_mb": 1, "retention_days": float64(3)})
	assert.Equal(t, int64(1024*1024), l.maxFileBytes)
	assert.Equal(t, 3, l.retentionDays)

	require.NoError(t, l.Start())
	l.LogAudit("report computed")
	current := l.CurrentFile()
	require.NoError(t, l.Stop())
	assert.NotPanics(t, func() { assert.NoError(t, l.Stop()) })
	log.SetOutput(os.Stderr)

	data, err := os.ReadFile(current)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[AUDIT] report computed")
}

func TestArchiveOldLogs(t *testing.T) {
	dir := t.TempDir()
	l := NewLoggerService(map[string]interface{}{"folder_path": dir, "retention_days": 7})

	oldFile := filepath.Join(dir, "gwdash_old.log")
	freshFile := filepath.Join(dir, "gwdash_fresh.log")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0644))
	require.NoError(t, os.WriteFile(freshFile, []byte("fresh"), 0644))
	now := time.Now()
	require.NoError(t, os.Chtimes(oldFile, now.AddDate(0, 0, -10), now.AddDate(0, 0, -10)))

	assert.Equal(t, 1, l.archiveOldLogs(now))
	_, err := os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(freshFile)
	assert.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var zips int
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".zip") {
			zips++
		}
	}
	assert.Equal(t, 1, zips)
}

func TestArchiveDisabledWithoutRetention(t *testing.T) {
	l := NewLoggerService(map[string]interface{}{"folder_path": t.TempDir()})
	assert.Equal(t, 0, l.archiveOldLogs(time.Now()))
}
