package launch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"github.com/mrmelon54/mc-launcher/database"
	"github.com/mrmelon54/mc-launcher/downloader"
	launcherProfile "github.com/mrmelon54/mc-launcher/launcher-profile"
	resolveVersions "github.com/mrmelon54/mc-launcher/resolve-versions"
	"github.com/mrmelon54/mc-launcher/test"
	versionJson "github.com/mrmelon54/mc-launcher/version-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

type noManifest struct{}

func (noManifest) Lookup(string) (resolveVersions.ManifestVersion, error) {
	return resolveVersions.ManifestVersion{}, resolveVersions.ErrUnknownVersion
}

type lastVersionResolver struct{}

func (lastVersionResolver) ResolveProfileVersion(p launcherProfile.LaunchProfile) (string, error) {
	if p.GetLastVersionId() == "" {
		return "", resolveVersions.ErrNoMatchingVersion
	}
	return p.GetLastVersionId(), nil
}

var testIcon = []byte("not really a png")

func testLauncher(t *testing.T, script string) (*Launcher, *launcherProfile.Store, *database.Queries, Options) {
	if runtime.GOOS == "windows" {
		t.Skip("fake java is a shell script")
	}
	o := testOptions(t)
	o.JavaPath = filepath.Join(t.TempDir(), "java")
	require.NoError(t, os.WriteFile(o.JavaPath, []byte("#!/bin/sh\n"+script), 0755))

	iconHash := sha1.Sum(testIcon)
	iconHex := hex.EncodeToString(iconHash[:])
	client, _ := test.StaticFiles(map[string][]byte{
		"https://libraries.example.com/com/example/lib/1.0/lib-1.0.jar": []byte("lib"),
		"https://meta.example.com/legacy.json":                           []byte(fmt.Sprintf(`{"virtual": true, "objects": {"icons/icon_16x16.png": {"hash": %q, "size": %d}}}`, iconHex, len(testIcon))),
		"https://resources.example.com/" + iconHex[:2] + "/" + iconHex:   testIcon,
	})
	o.ResourcesUrl = "https://resources.example.com/"

	versionDir := filepath.Join(o.VersionsDir, "test-1.0")
	require.NoError(t, os.MkdirAll(versionDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(versionDir, "test-1.0.json"), []byte(`{
  "id": "test-1.0",
  "type": "release",
  "mainClass": "com.example.Main",
  "assetIndex": {"id": "legacy", "url": "https://meta.example.com/legacy.json"},
  "minecraftArguments": "--username ${auth_player_name} --uuid ${auth_uuid} --assetsDir ${game_assets}",
  "libraries": [
    {"name": "com.example:lib:1.0", "downloads": {"artifact": {"path": "com/example/lib/1.0/lib-1.0.jar", "url": "https://libraries.example.com/com/example/lib/1.0/lib-1.0.jar"}}}
  ]
}`), 0644))

	db, err := database.Open(filepath.Join(t.TempDir(), "launcher.sqlite3.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	queries := database.New(db)

	profiles, err := launcherProfile.NewStore(filepath.Join(o.GameDir, "launcher_profiles.json"))
	require.NoError(t, err)
	versionId := "test-1.0"
	javaArgs := "-Xmx1G"
	require.NoError(t, profiles.PutProfile("test", launcherProfile.LaunchProfile{Name: "Test", LastVersionId: &versionId, JavaArgs: &javaArgs}))

	logger := zap.NewNop().Sugar()
	dl := downloader.New(client, 2, logger)
	l := New(o, profiles, lastVersionResolver{}, versionJson.NewStore(o.VersionsDir, noManifest{}, dl), dl, queries, logger)
	return l, profiles, queries, o
}

func waitDone(t *testing.T, s *Session) {
	select {
	case <-s.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for the game to exit")
	}
}

func TestLauncher_Launch(t *testing.T) {
	l, profiles, queries, o := testLauncher(t, "echo \"$@\" > args.txt\necho starting\nexit 3\n")
	closed := 0
	l.OnClose = func() { closed++ }

	s, err := l.Launch(context.Background(), Request{ProfileKey: "test", Username: "Notch"})
	require.NoError(t, err)
	assert.Equal(t, "test", s.Profile)
	assert.Equal(t, "test-1.0", s.Version)
	assert.NotZero(t, s.PID)
	assert.Equal(t, 1, closed)

	waitDone(t, s)
	assert.Equal(t, 3, s.ExitCode())
	assert.Empty(t, l.Running())

	args, err := os.ReadFile(filepath.Join(o.GameDir, "args.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(args), "-Xmx1G -Djava.library.path=")
	assert.Contains(t, string(args), "com.example.Main --username Notch --uuid b50ad385829d3141a2167e7d7539ba7f")
	assert.Contains(t, string(args), filepath.Join(o.AssetsDir, "virtual", "legacy"))

	assert.FileExists(t, filepath.Join(o.LibrariesDir, "com", "example", "lib", "1.0", "lib-1.0.jar"))
	icon, err := os.ReadFile(filepath.Join(o.AssetsDir, "virtual", "legacy", "icons", "icon_16x16.png"))
	require.NoError(t, err)
	assert.Equal(t, testIcon, icon)

	row, err := queries.GetLaunch(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(s.PID), row.Pid)
	assert.Equal(t, int64(3), row.ExitCode.Int64)
	assert.True(t, row.EndedAt.Valid)
	assert.Equal(t, "Notch", row.Meta.Username)
	assert.True(t, row.Meta.Offline)
	assert.Equal(t, 2, row.Meta.Classpath)
	assert.NoDirExists(t, row.Meta.NativesDir)

	p, ok := profiles.Profile("test")
	require.True(t, ok)
	assert.NotNil(t, p.LastUsed)
}

func TestLauncher_Kill(t *testing.T) {
	l, profiles, _, _ := testLauncher(t, "exec sleep 30\n")
	require.NoError(t, profiles.SelectProfile("test"))
	require.NoError(t, profiles.PutUser("user", launcherProfile.AuthenticationDatabaseEntry{DisplayName: "Alex", Username: "alex@example.com"}))

	s, err := l.Launch(context.Background(), Request{})
	require.NoError(t, err)
	running := l.Running()
	require.Len(t, running, 1)
	assert.Equal(t, s.ID, running[0].ID)
	_, ok := l.Get(s.ID)
	assert.True(t, ok)

	assert.NoError(t, l.Kill(s.ID))
	waitDone(t, s)
	assert.Equal(t, -1, s.ExitCode())
	assert.ErrorIs(t, l.Kill(s.ID), ErrNotRunning)
}

func TestLauncher_KillExited(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses the sh binary")
	}
	cmd := exec.Command("sh", "-c", "exit 0")
	require.NoError(t, cmd.Run())

	// exited but not yet removed from running
	l := New(Options{}, nil, nil, nil, nil, nil, zap.NewNop().Sugar())
	l.running[7] = &Session{ID: 7, cmd: cmd, done: make(chan struct{})}
	assert.ErrorIs(t, l.Kill(7), ErrNotRunning)
}

func TestLauncher_LaunchErrors(t *testing.T) {
	l, _, queries, _ := testLauncher(t, "exit 0\n")

	_, err := l.Launch(context.Background(), Request{ProfileKey: "missing", Username: "Notch"})
	assert.ErrorIs(t, err, launcherProfile.ErrProfileNotFound)

	_, err = l.Launch(context.Background(), Request{ProfileKey: "test"})
	assert.ErrorIs(t, err, ErrNoAccount)

	_, err = l.Launch(context.Background(), Request{Username: "Notch"})
	assert.ErrorIs(t, err, launcherProfile.ErrProfileNotFound)

	launches, err := queries.ListLaunches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, launches)
}

func TestLauncher_Recover(t *testing.T) {
	l, _, queries, _ := testLauncher(t, "exit 0\n")
	ctx := context.Background()
	id, err := queries.CreateLaunch(ctx, database.CreateLaunchParams{Profile: "test", Version: "test-1.0", StartedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, l.Recover(ctx))
	row, err := queries.GetLaunch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), row.ExitCode.Int64)
	assert.True(t, strings.HasPrefix(row.Version, "test"))
}
