package hotfolder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWatcher(t *testing.T, ingestURL string) (*Watcher, Config) {
	t.Helper()
	base := t.TempDir()
	cfg := Config{
		Dir:          filepath.Join(base, "hotfolder"),
		ProcessedDir: filepath.Join(base, "processed"),
		ErrorDir:     filepath.Join(base, "error"),
		IngestURL:    ingestURL,
	}
	for _, dir := range []string{cfg.Dir, cfg.ProcessedDir, cfg.ErrorDir} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	return NewWatcher(cfg, zap.NewNop()), cfg
}

func dropFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestProcessFile(t *testing.T) {
	t.Run("AcceptedMovesToProcessed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))
			rw.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		w, cfg := newTestWatcher(t, srv.URL)
		path := dropFile(t, cfg.Dir, "message.xml", "<OdfBody/>")

		w.ProcessFile(context.Background(), path)

		assert.NoFileExists(t, path)
		assert.Equal(t, []string{"message.xml"}, listDir(t, cfg.ProcessedDir))
		assert.Empty(t, listDir(t, cfg.ErrorDir))
	})

	t.Run("RejectedMovesToError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rw.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		w, cfg := newTestWatcher(t, srv.URL)
		path := dropFile(t, cfg.Dir, "broken.xml", "<OdfBody/>")

		w.ProcessFile(context.Background(), path)

		assert.NoFileExists(t, path)
		assert.Equal(t, []string{"broken.xml"}, listDir(t, cfg.ErrorDir))
		assert.Empty(t, listDir(t, cfg.ProcessedDir))
	})

	t.Run("ConnectionErrorLeavesFileInPlace", func(t *testing.T) {
		// Nothing listens on this port.
		w, cfg := newTestWatcher(t, "http://127.0.0.1:1/ingest-odf")
		path := dropFile(t, cfg.Dir, "retry.xml", "<OdfBody/>")

		w.ProcessFile(context.Background(), path)

		assert.FileExists(t, path)
		assert.Empty(t, listDir(t, cfg.ProcessedDir))
		assert.Empty(t, listDir(t, cfg.ErrorDir))
	})
}

func TestSafeMoveCollision(t *testing.T) {
	w, cfg := newTestWatcher(t, "http://127.0.0.1:1")
	dropFile(t, cfg.ProcessedDir, "dup.xml", "old")
	path := dropFile(t, cfg.Dir, "dup.xml", "new")

	w.safeMove(path, cfg.ProcessedDir)

	names := listDir(t, cfg.ProcessedDir)
	require.Len(t, names, 2)
	assert.Contains(t, names, "dup.xml")
	for _, name := range names {
		if name != "dup.xml" {
			assert.Regexp(t, `^dup_\d{8}_\d{6}\.xml$`, name)
		}
	}
}

func TestScanExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w, cfg := newTestWatcher(t, srv.URL)
	dropFile(t, cfg.Dir, "a.xml", "<OdfBody/>")
	dropFile(t, cfg.Dir, "b.xml", "<OdfBody/>")
	dropFile(t, cfg.Dir, "notes.txt", "ignored")

	require.NoError(t, w.scanExisting(context.Background()))

	assert.ElementsMatch(t, []string{"a.xml", "b.xml"}, listDir(t, cfg.ProcessedDir))
	assert.Equal(t, []string{"notes.txt"}, listDir(t, cfg.Dir))
}
