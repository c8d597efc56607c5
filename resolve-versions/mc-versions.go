package resolve_versions

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/Masterminds/semver/v3"
	launcherProfile "github.com/mrmelon54/mc-launcher/launcher-profile"
	"github.com/mrmelon54/rescheduler"
	"go.uber.org/zap"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"
)

const McVersionManifest = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

var (
	ErrUnknownVersion    = errors.New("unknown game version")
	ErrNoMatchingVersion = errors.New("no version matches the allowed release types")
	ErrManifestMissing   = errors.New("version manifest unavailable")
)

func toMcVersion(ver *semver.Version) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprint(ver.Major()))
	sb.WriteByte('.')
	sb.WriteString(fmt.Sprint(ver.Minor()))
	if ver.Patch() > 0 {
		sb.WriteByte('.')
		sb.WriteString(fmt.Sprint(ver.Patch()))
	}
	return sb.String()
}

type PistonMetaManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []ManifestVersion `json:"versions"`
}

type ManifestVersion struct {
	Id              string                      `json:"id"`
	Type            launcherProfile.VersionType `json:"type"`
	Url             string                      `json:"url"`
	Time            time.Time                   `json:"time"`
	ReleaseTime     time.Time                   `json:"releaseTime"`
	Sha1            string                      `json:"sha1"`
	ComplianceLevel int                         `json:"complianceLevel"`
}

// McVersions caches the piston-meta version manifest. Entries keep the
// manifest order, newest release time first.
type McVersions struct {
	client      *http.Client
	manifestUrl string
	logger      *zap.SugaredLogger

	// version cache
	r        *rescheduler.Rescheduler
	cacheMu  *sync.RWMutex
	expires  time.Time
	manifest *PistonMetaManifest
	releases []*semver.Version
}

func NewMcVersionCache(client *http.Client, manifestUrl string, logger *zap.SugaredLogger) *McVersions {
	if manifestUrl == "" {
		manifestUrl = McVersionManifest
	}
	v := &McVersions{
		client:      client,
		manifestUrl: manifestUrl,
		logger:      logger,
		cacheMu:     new(sync.RWMutex),
	}
	v.r = rescheduler.NewRescheduler(v.generateCache)
	return v
}

var regexGameVersionId = regexp.MustCompile(`^[0-9]+\.[0-9]+(?:\.[0-9]+)?$`)

func (v *McVersions) fetchManifest() (*PistonMetaManifest, error) {
	req, err := http.NewRequest(http.MethodGet, v.manifestUrl, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("version manifest: unexpected status %s", resp.Status)
	}

	var manifest PistonMetaManifest
	err = json.NewDecoder(resp.Body).Decode(&manifest)
	if err != nil {
		return nil, err
	}
	return &manifest, nil
}

// releaseVersions picks the plain x.y[.z] ids out of the manifest.
func releaseVersions(manifest *PistonMetaManifest) ([]*semver.Version, error) {
	a := make([]*semver.Version, 0)
	for _, i := range manifest.Versions {
		if regexGameVersionId.MatchString(i.Id) {
			v, err := semver.NewVersion(i.Id)
			if err != nil {
				return nil, err
			}
			a = append(a, v)
		}
	}
	slices.SortFunc(a, func(a, b *semver.Version) int {
		return a.Compare(b)
	})
	return a, nil
}

func (v *McVersions) generateCache() {
	v.cacheMu.RLock()
	isValid := v.manifest != nil && v.expires.After(time.Now())
	v.cacheMu.RUnlock()
	if isValid {
		return
	}
	manifest, err := v.fetchManifest()
	if err != nil {
		v.logger.Errorw("Failed to fetch version manifest", "url", v.manifestUrl, "err", err)
		return
	}
	releases, err := releaseVersions(manifest)
	if err != nil {
		v.logger.Errorw("Failed to parse release versions", "err", err)
		return
	}
	v.cacheMu.Lock()
	v.manifest = manifest
	v.releases = releases
	v.expires = time.Now().AddDate(0, 0, 1)
	v.cacheMu.Unlock()
	v.logger.Infow("Version manifest updated", "versions", len(manifest.Versions), "release", manifest.Latest.Release)
}

// refresh runs the cache generator and waits for it to finish, concurrent
// callers share the same run
func (v *McVersions) refresh() (*PistonMetaManifest, error) {
	v.r.Run()
	v.r.Wait()
	v.cacheMu.RLock()
	defer v.cacheMu.RUnlock()
	if v.manifest == nil {
		return nil, ErrManifestMissing
	}
	return v.manifest, nil
}

func (v *McVersions) Manifest() (*PistonMetaManifest, error) {
	return v.refresh()
}

func (v *McVersions) Lookup(id string) (ManifestVersion, error) {
	manifest, err := v.refresh()
	if err != nil {
		return ManifestVersion{}, err
	}
	n := slices.IndexFunc(manifest.Versions, func(a ManifestVersion) bool { return a.Id == id })
	if n == -1 {
		return ManifestVersion{}, fmt.Errorf("%w: %s", ErrUnknownVersion, id)
	}
	return manifest.Versions[n], nil
}

// Latest returns the newest version with one of the allowed types.
func (v *McVersions) Latest(allowed []launcherProfile.VersionType) (ManifestVersion, error) {
	manifest, err := v.refresh()
	if err != nil {
		return ManifestVersion{}, err
	}
	for _, i := range manifest.Versions {
		if slices.Contains(allowed, i.Type) {
			return i, nil
		}
	}
	return ManifestVersion{}, ErrNoMatchingVersion
}

// List returns every version with one of the given types, all versions when
// types is empty.
func (v *McVersions) List(types []launcherProfile.VersionType) ([]ManifestVersion, error) {
	manifest, err := v.refresh()
	if err != nil {
		return nil, err
	}
	a := make([]ManifestVersion, 0, len(manifest.Versions))
	for _, i := range manifest.Versions {
		if len(types) == 0 || slices.Contains(types, i.Type) {
			a = append(a, i)
		}
	}
	return a, nil
}

// ResolveProfileVersion returns the version id a profile launches. Profiles
// without lastVersionId follow the latest allowed release type. Ids missing
// from the manifest (custom or modded versions) are returned unchecked.
func (v *McVersions) ResolveProfileVersion(p launcherProfile.LaunchProfile) (string, error) {
	if id := p.GetLastVersionId(); id != "" {
		return id, nil
	}
	latest, err := v.Latest(p.GetAllowedReleaseTypes())
	if err != nil {
		return "", err
	}
	return latest.Id, nil
}

func (v *McVersions) MatchingConstraints(c *semver.Constraints) []string {
	if _, err := v.refresh(); err != nil {
		return []string{}
	}
	v.cacheMu.RLock()
	defer v.cacheMu.RUnlock()
	a := make([]string, 0)
	for _, i := range v.releases {
		if c.Check(i) {
			a = append(a, toMcVersion(i))
		}
	}
	return a
}
