package modrinth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/mrmelon54/mc-launcher/downloader"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

const DefaultEndpoint = "https://api.modrinth.com/v2"

var (
	ErrNoVersion    = errors.New("no modrinth version matches the game version and loader")
	ErrNoFile       = errors.New("modrinth version has no files")
	ErrInvalidFile  = errors.New("invalid modrinth file name")
	ErrMissingInput = errors.New("project, game version and loader are required")
)

type ModrinthConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Token     string `yaml:"token"`
	UserAgent string `yaml:"userAgent"`
}

// Modrinth finds mod versions on a Modrinth compatible API and turns them
// into downloads for a mods folder.
type Modrinth struct {
	conf   ModrinthConfig
	client *http.Client
}

func NewModrinth(config ModrinthConfig, client *http.Client) *Modrinth {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	return &Modrinth{config, client}
}

type Version struct {
	Id            string   `json:"id"`
	ProjectId     string   `json:"project_id"`
	Name          string   `json:"name"`
	VersionNumber string   `json:"version_number"`
	VersionType   string   `json:"version_type"`
	GameVersions  []string `json:"game_versions"`
	Loaders       []string `json:"loaders"`
	Files         []File   `json:"files"`
}

type File struct {
	Hashes   map[string]string `json:"hashes"`
	Url      string            `json:"url"`
	Filename string            `json:"filename"`
	Primary  bool              `json:"primary"`
	Size     int64             `json:"size"`
}

type modrinthError struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}

// PrimaryFile is the file flagged primary, or the first one.
func (v Version) PrimaryFile() (File, bool) {
	for _, i := range v.Files {
		if i.Primary {
			return i, true
		}
	}
	if len(v.Files) == 0 {
		return File{}, false
	}
	return v.Files[0], true
}

// ProjectVersions lists the versions of a project for one game version and
// loader, newest first.
func (m *Modrinth) ProjectVersions(ctx context.Context, projectId, gameVersion, loader string) ([]Version, error) {
	loaders, err := json.Marshal([]string{loader})
	if err != nil {
		return nil, err
	}
	gameVersions, err := json.Marshal([]string{gameVersion})
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("loaders", string(loaders))
	q.Set("game_versions", string(gameVersions))

	u := fmt.Sprintf("%s/project/%s/version?%s", strings.TrimSuffix(m.conf.Endpoint, "/"), url.PathEscape(projectId), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if m.conf.UserAgent != "" {
		req.Header.Set("User-Agent", m.conf.UserAgent)
	}
	if m.conf.Token != "" {
		req.Header.Set("Authorization", m.conf.Token)
	}

	do, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(do.Body)
	if do.StatusCode != http.StatusOK {
		var errData modrinthError
		if err := json.NewDecoder(do.Body).Decode(&errData); err != nil {
			return nil, fmt.Errorf("modrinth remote error: %s", do.Status)
		}
		return nil, fmt.Errorf("modrinth remote error: %s -- %s", errData.Error, errData.Description)
	}

	var versions []Version
	if err := json.NewDecoder(do.Body).Decode(&versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// InstallTask picks the newest matching version and returns the download of
// its primary file into modsDir.
func (m *Modrinth) InstallTask(ctx context.Context, projectId, gameVersion, loader, modsDir string) (Version, downloader.Task, error) {
	if projectId == "" || gameVersion == "" || loader == "" {
		return Version{}, downloader.Task{}, ErrMissingInput
	}
	versions, err := m.ProjectVersions(ctx, projectId, gameVersion, loader)
	if err != nil {
		return Version{}, downloader.Task{}, err
	}
	if len(versions) == 0 {
		return Version{}, downloader.Task{}, ErrNoVersion
	}
	v := versions[0]
	f, ok := v.PrimaryFile()
	if !ok {
		return Version{}, downloader.Task{}, ErrNoFile
	}
	name := filepath.Base(f.Filename)
	if name != f.Filename || name == "." || name == ".." || !strings.HasSuffix(strings.ToLower(name), ".jar") {
		return Version{}, downloader.Task{}, fmt.Errorf("%w: %q", ErrInvalidFile, f.Filename)
	}
	return v, downloader.Task{
		Url:  f.Url,
		Path: filepath.Join(modsDir, name),
		Sha1: f.Hashes["sha1"],
		Size: f.Size,
	}, nil
}
