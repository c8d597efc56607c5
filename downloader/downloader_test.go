package downloader

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"github.com/mrmelon54/mc-launcher/test"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"testing"
)

func sum(b []byte) string {
	h := sha1.Sum(b)
	return hex.EncodeToString(h[:])
}

func TestDownloader_FetchAll(t *testing.T) {
	a := []byte("lwjgl")
	b := []byte("client jar")
	client, hits := test.StaticFiles(map[string][]byte{
		"https://libraries.example.com/a.jar": a,
		"https://libraries.example.com/b.jar": b,
	})
	dir := t.TempDir()
	d := New(client, 2, zap.NewNop().Sugar())

	tasks := []Task{
		{Url: "https://libraries.example.com/a.jar", Path: filepath.Join(dir, "org", "a.jar"), Sha1: sum(a), Size: int64(len(a))},
		{Url: "https://libraries.example.com/b.jar", Path: filepath.Join(dir, "b.jar"), Sha1: sum(b)},
		{Url: "https://libraries.example.com/a.jar", Path: filepath.Join(dir, "org", "a.jar"), Sha1: sum(a)},
	}
	stats, err := d.FetchAll(context.Background(), tasks)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.Downloaded)
	assert.Equal(t, int64(len(a)+len(b)), stats.Bytes)
	assert.Equal(t, int64(2), hits.Load())

	got, err := os.ReadFile(filepath.Join(dir, "org", "a.jar"))
	assert.NoError(t, err)
	assert.Equal(t, a, got)

	// second run only verifies
	stats, err = d.FetchAll(context.Background(), tasks)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), stats.Downloaded)
	assert.Equal(t, int64(2), stats.Skipped)
	assert.Equal(t, int64(2), hits.Load())
}

func TestDownloader_ChecksumMismatch(t *testing.T) {
	client, _ := test.StaticFiles(map[string][]byte{"https://example.com/x": []byte("tampered")})
	p := filepath.Join(t.TempDir(), "x")
	d := New(client, 0, zap.NewNop().Sugar())
	err := d.Fetch(context.Background(), Task{Url: "https://example.com/x", Path: p, Sha1: sum([]byte("original"))})
	assert.ErrorIs(t, err, ErrChecksumMismatch)
	assert.NoFileExists(t, p)
}

func TestDownloader_NotFound(t *testing.T) {
	client, _ := test.StaticFiles(nil)
	d := New(client, 0, zap.NewNop().Sugar())
	_, err := d.FetchAll(context.Background(), []Task{{Url: "https://example.com/missing", Path: filepath.Join(t.TempDir(), "m")}})
	assert.Error(t, err)
}

func TestDownloader_Cancelled(t *testing.T) {
	client, _ := test.StaticFiles(map[string][]byte{"https://example.com/x": []byte("x")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := New(client, 0, zap.NewNop().Sugar())
	err := d.Fetch(ctx, Task{Url: "https://example.com/x", Path: filepath.Join(t.TempDir(), "x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerify(t *testing.T) {
	p := filepath.Join(t.TempDir(), "f")
	ok, err := Verify(p, "", 0)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, os.WriteFile(p, []byte("abc"), 0644))
	ok, _ = Verify(p, "", 0)
	assert.True(t, ok)
	ok, _ = Verify(p, "", 4)
	assert.False(t, ok)
	ok, _ = Verify(p, sum([]byte("abc")), 3)
	assert.True(t, ok)
	ok, _ = Verify(p, sum([]byte("abd")), 0)
	assert.False(t, ok)
}
