package modrinth

import (
	"context"
	"github.com/mrmelon54/mc-launcher/test"
	"github.com/stretchr/testify/assert"
	"net/http"
	"path/filepath"
	"testing"
)

const testVersions = `[
  {
    "id": "AANobbMI", "project_id": "sodium", "name": "Sodium 0.5.5", "version_number": "mc1.20.4-0.5.5",
    "version_type": "release", "game_versions": ["1.20.4"], "loaders": ["fabric", "quilt"],
    "files": [
      {"hashes": {"sha1": "aa"}, "url": "https://cdn.example.com/sodium-sources.jar", "filename": "sodium-sources.jar", "primary": false, "size": 10},
      {"hashes": {"sha1": "bb", "sha512": "cc"}, "url": "https://cdn.example.com/sodium-fabric-0.5.5.jar", "filename": "sodium-fabric-0.5.5.jar", "primary": true, "size": 20}
    ]
  },
  {"id": "old", "project_id": "sodium", "version_number": "0.5.3", "files": []}
]`

func newTestModrinth(t *testing.T, body string, status int) *Modrinth {
	r := http.NewServeMux()
	r.HandleFunc("/v2/project/sodium/version", func(rw http.ResponseWriter, req *http.Request) {
		assert.Equal(t, `["fabric"]`, req.URL.Query().Get("loaders"))
		assert.Equal(t, `["1.20.4"]`, req.URL.Query().Get("game_versions"))
		assert.Equal(t, "mc-launcher/test", req.Header.Get("User-Agent"))
		rw.WriteHeader(status)
		_, _ = rw.Write([]byte(body))
	})
	return NewModrinth(ModrinthConfig{Endpoint: "https://api.example.com/v2/", UserAgent: "mc-launcher/test"}, test.NewTestServer(r))
}

func TestModrinth_InstallTask(t *testing.T) {
	m := newTestModrinth(t, testVersions, http.StatusOK)
	v, task, err := m.InstallTask(context.Background(), "sodium", "1.20.4", "fabric", "/games/mods")
	assert.NoError(t, err)
	assert.Equal(t, "mc1.20.4-0.5.5", v.VersionNumber)
	assert.Equal(t, "https://cdn.example.com/sodium-fabric-0.5.5.jar", task.Url)
	assert.Equal(t, filepath.Join("/games/mods", "sodium-fabric-0.5.5.jar"), task.Path)
	assert.Equal(t, "bb", task.Sha1)
	assert.Equal(t, int64(20), task.Size)

	_, _, err = m.InstallTask(context.Background(), "sodium", "", "fabric", "/games/mods")
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestModrinth_InstallTask_Errors(t *testing.T) {
	m := newTestModrinth(t, `[]`, http.StatusOK)
	_, _, err := m.InstallTask(context.Background(), "sodium", "1.20.4", "fabric", "/games/mods")
	assert.ErrorIs(t, err, ErrNoVersion)

	m = newTestModrinth(t, `[{"id": "x", "files": [{"url": "https://cdn.example.com/x.jar", "filename": "../x.jar"}]}]`, http.StatusOK)
	_, _, err = m.InstallTask(context.Background(), "sodium", "1.20.4", "fabric", "/games/mods")
	assert.ErrorIs(t, err, ErrInvalidFile)

	m = newTestModrinth(t, `{"error": "not_found", "description": "the requested route does not exist"}`, http.StatusNotFound)
	_, _, err = m.InstallTask(context.Background(), "sodium", "1.20.4", "fabric", "/games/mods")
	assert.EqualError(t, err, "modrinth remote error: not_found -- the requested route does not exist")
}

func TestVersion_PrimaryFile(t *testing.T) {
	_, ok := Version{}.PrimaryFile()
	assert.False(t, ok)
	f, ok := Version{Files: []File{{Filename: "a.jar"}, {Filename: "b.jar"}}}.PrimaryFile()
	assert.True(t, ok)
	assert.Equal(t, "a.jar", f.Filename)
}
