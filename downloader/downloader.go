package downloader

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

const DefaultConcurrency = 8

var ErrChecksumMismatch = errors.New("checksum mismatch")

// Task downloads Url into Path. Sha1 and Size are optional, when both are
// empty an existing file is always trusted.
type Task struct {
	Url  string
	Path string
	Sha1 string
	Size int64
}

type Stats struct {
	Downloaded int64
	Skipped    int64
	Bytes      int64
}

type Downloader struct {
	client      *http.Client
	concurrency int
	logger      *zap.SugaredLogger
}

func New(client *http.Client, concurrency int, logger *zap.SugaredLogger) *Downloader {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Downloader{client: client, concurrency: concurrency, logger: logger}
}

// FetchAll runs the tasks on a bounded pool, the first failure cancels the
// remaining downloads. Tasks sharing a path are only run once.
func (d *Downloader) FetchAll(ctx context.Context, tasks []Task) (Stats, error) {
	var downloaded, skipped, total atomic.Int64
	seen := mapset.NewThreadUnsafeSet[string]()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, t := range tasks {
		if !seen.Add(t.Path) {
			continue
		}
		t := t
		g.Go(func() error {
			n, fetched, err := d.fetch(gCtx, t)
			if err != nil {
				return err
			}
			if fetched {
				downloaded.Add(1)
				total.Add(n)
			} else {
				skipped.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()
	stats := Stats{Downloaded: downloaded.Load(), Skipped: skipped.Load(), Bytes: total.Load()}
	if err != nil {
		return stats, err
	}
	d.logger.Debugw("Downloads finished", "downloaded", stats.Downloaded, "skipped", stats.Skipped, "bytes", stats.Bytes)
	return stats, nil
}

func (d *Downloader) Fetch(ctx context.Context, t Task) error {
	_, _, err := d.fetch(ctx, t)
	return err
}

func (d *Downloader) fetch(ctx context.Context, t Task) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	ok, err := Verify(t.Path, t.Sha1, t.Size)
	if err != nil {
		return 0, false, err
	}
	if ok {
		return 0, false, nil
	}
	if t.Url == "" {
		return 0, false, fmt.Errorf("download %s: missing url", filepath.Base(t.Path))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.Url, nil)
	if err != nil {
		return 0, false, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("download %s: unexpected status %s", t.Url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(t.Path), 0755); err != nil {
		return 0, false, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(t.Path), "."+filepath.Base(t.Path)+"-*.part")
	if err != nil {
		return 0, false, err
	}
	defer os.Remove(tmp.Name())

	h := sha1.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), resp.Body)
	if err != nil {
		_ = tmp.Close()
		return 0, false, fmt.Errorf("download %s: %w", t.Url, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, false, err
	}
	if t.Sha1 != "" && !strings.EqualFold(hex.EncodeToString(h.Sum(nil)), t.Sha1) {
		return 0, false, fmt.Errorf("download %s: %w", t.Url, ErrChecksumMismatch)
	}
	if t.Size > 0 && n != t.Size {
		return 0, false, fmt.Errorf("download %s: expected %d bytes got %d: %w", t.Url, t.Size, n, ErrChecksumMismatch)
	}
	if err := os.Rename(tmp.Name(), t.Path); err != nil {
		return 0, false, err
	}
	d.logger.Debugw("Downloaded", "url", t.Url, "bytes", n)
	return n, true, nil
}

// Verify reports whether the file at p exists and matches the sha1 or the
// size, whichever is given.
func Verify(p, sum string, size int64) (bool, error) {
	stat, err := os.Stat(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	case stat.IsDir():
		return false, fmt.Errorf("%s is a directory", p)
	}
	if sum == "" {
		return size <= 0 || stat.Size() == size, nil
	}
	if size > 0 && stat.Size() != size {
		return false, nil
	}
	open, err := os.Open(p)
	if err != nil {
		return false, err
	}
	defer open.Close()
	h := sha1.New()
	if _, err := io.Copy(h, open); err != nil {
		return false, err
	}
	return strings.EqualFold(hex.EncodeToString(h.Sum(nil)), sum), nil
}
