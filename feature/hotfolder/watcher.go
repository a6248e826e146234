package hotfolder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher delivers feed files from a hotfolder to the ingestion
// endpoint. Files the backend accepts move to the processed directory,
// rejected files to the error directory; when the backend is
// unreachable the file stays in place for the next pass.
type Watcher struct {
	cfg    Config
	logger *zap.Logger
	client *http.Client
}

// NewWatcher creates a hotfolder watcher.
func NewWatcher(cfg Config, logger *zap.Logger) *Watcher {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &Watcher{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Run scans the hotfolder once for files that arrived while the watcher
// was down, then blocks watching for new ones until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	for _, dir := range []string{w.cfg.Dir, w.cfg.ProcessedDir, w.cfg.ErrorDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := w.scanExisting(ctx); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	w.logger.Info("watching hotfolder", zap.String("dir", w.cfg.Dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !isFeedFile(event.Name) {
				continue
			}
			// Writers may still be flushing when the create event fires.
			time.Sleep(500 * time.Millisecond)
			w.ProcessFile(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("hotfolder watch error", zap.Error(err))
		}
	}
}

func isFeedFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

func (w *Watcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", w.cfg.Dir, err)
	}
	found := 0
	for _, entry := range entries {
		if entry.IsDir() || !isFeedFile(entry.Name()) {
			continue
		}
		found++
		w.ProcessFile(ctx, filepath.Join(w.cfg.Dir, entry.Name()))
	}
	if found == 0 {
		w.logger.Info("no existing files in hotfolder")
	}
	return nil
}

// ProcessFile posts one file to the ingestion endpoint and files it
// away by outcome.
func (w *Watcher) ProcessFile(ctx context.Context, path string) {
	name := filepath.Base(path)
	log := w.logger.With(zap.String("file", name))

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("file vanished before processing")
			return
		}
		log.Error("file unreadable, moving to error", zap.Error(err))
		w.safeMove(path, w.cfg.ErrorDir)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.IngestURL, bytes.NewReader(raw))
	if err != nil {
		log.Error("building ingest request failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := w.client.Do(req)
	if err != nil {
		if isConnectionError(err) {
			// Leave the file in place so the next scan retries it.
			log.Error("ingestion endpoint unreachable, leaving file for retry",
				zap.String("url", w.cfg.IngestURL), zap.Error(err))
			return
		}
		log.Error("posting file failed, moving to error", zap.Error(err))
		w.safeMove(path, w.cfg.ErrorDir)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode == http.StatusOK {
		log.Info("file ingested, moving to processed")
		w.safeMove(path, w.cfg.ProcessedDir)
		return
	}
	log.Error("backend rejected file, moving to error",
		zap.Int("status", resp.StatusCode), zap.ByteString("response", body))
	w.safeMove(path, w.cfg.ErrorDir)
}

func isConnectionError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// safeMove moves a file into destDir, appending a timestamp to the name
// when the destination already exists.
func (w *Watcher) safeMove(path, destDir string) {
	name := filepath.Base(path)
	dest := filepath.Join(destDir, name)

	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		renamed := fmt.Sprintf("%s_%s%s", stem, time.Now().Format("20060102_150405"), ext)
		w.logger.Warn("destination exists, renaming",
			zap.String("file", name), zap.String("renamed", renamed))
		dest = filepath.Join(destDir, renamed)
	}

	if err := os.Rename(path, dest); err != nil {
		w.logger.Error("failed to move file",
			zap.String("from", path), zap.String("to", dest), zap.Error(err))
		return
	}
	w.logger.Info("file moved", zap.String("to", dest))
}
