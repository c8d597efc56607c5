package version_json

import (
	"context"
	"errors"
	"fmt"
	"github.com/mrmelon54/mc-launcher/downloader"
	resolveVersions "github.com/mrmelon54/mc-launcher/resolve-versions"
	"os"
	"path/filepath"
)

var ErrInheritanceCycle = errors.New("version inheritance cycle")

type manifestLookup interface {
	Lookup(id string) (resolveVersions.ManifestVersion, error)
}

type fetcher interface {
	Fetch(ctx context.Context, t downloader.Task) error
}

// Store reads version json files from versions/<id>/<id>.json and downloads
// missing vanilla versions through the manifest.
type Store struct {
	versionsDir string
	manifest    manifestLookup
	dl          fetcher
}

func NewStore(versionsDir string, manifest manifestLookup, dl fetcher) *Store {
	return &Store{versionsDir: versionsDir, manifest: manifest, dl: dl}
}

func (s *Store) jsonPath(id string) string {
	return filepath.Join(s.versionsDir, id, id+".json")
}

// Raw returns the version json for id without applying inheritsFrom.
func (s *Store) Raw(ctx context.Context, id string) (*VersionJson, error) {
	p := s.jsonPath(id)
	_, err := os.Stat(p)
	switch {
	case err == nil:
		// a local copy of a vanilla version is checked against the manifest hash
		if m, err := s.manifest.Lookup(id); err == nil {
			if err := s.dl.Fetch(ctx, downloader.Task{Url: m.Url, Path: p, Sha1: m.Sha1}); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, os.ErrNotExist):
		m, err := s.manifest.Lookup(id)
		if err != nil {
			return nil, err
		}
		if err := s.dl.Fetch(ctx, downloader.Task{Url: m.Url, Path: p, Sha1: m.Sha1}); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return Load(p)
}

// Resolve returns the version json for id with its inheritsFrom chain merged.
func (s *Store) Resolve(ctx context.Context, id string) (*VersionJson, error) {
	return s.resolve(ctx, id, map[string]bool{})
}

func (s *Store) resolve(ctx context.Context, id string, seen map[string]bool) (*VersionJson, error) {
	if seen[id] {
		return nil, fmt.Errorf("%w: %s", ErrInheritanceCycle, id)
	}
	seen[id] = true
	v, err := s.Raw(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("version %s: %w", id, err)
	}
	if v.InheritsFrom == "" {
		return v, nil
	}
	parent, err := s.resolve(ctx, v.InheritsFrom, seen)
	if err != nil {
		return nil, err
	}
	return Merge(v, parent), nil
}

// Installed lists the ids that have a version json in the versions directory.
func (s *Store) Installed() ([]string, error) {
	dir, err := os.ReadDir(s.versionsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	a := make([]string, 0, len(dir))
	for _, i := range dir {
		if !i.IsDir() {
			continue
		}
		if _, err := os.Stat(s.jsonPath(i.Name())); err == nil {
			a = append(a, i.Name())
		}
	}
	return a, nil
}
