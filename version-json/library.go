package version_json

import (
	"errors"
	"path"
	"strings"
)

const DefaultLibrariesUrl = "https://libraries.minecraft.net/"

var ErrInvalidCoordinate = errors.New("invalid maven coordinate")

type Library struct {
	Name      string            `json:"name"`
	Downloads *LibraryDownloads `json:"downloads,omitempty"`
	Url       string            `json:"url,omitempty"`
	Natives   map[string]string `json:"natives,omitempty"`
	Extract   *Extract          `json:"extract,omitempty"`
	Rules     []Rule            `json:"rules,omitempty"`
}

type LibraryDownloads struct {
	Artifact    *Download           `json:"artifact,omitempty"`
	Classifiers map[string]Download `json:"classifiers,omitempty"`
}

type Extract struct {
	Exclude []string `json:"exclude"`
}

type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
	Extension  string
}

// ParseCoordinate parses group:artifact:version[:classifier][@extension]
func ParseCoordinate(name string) (Coordinate, error) {
	var c Coordinate
	name, c.Extension, _ = strings.Cut(name, "@")
	if c.Extension == "" {
		c.Extension = "jar"
	}
	parts := strings.Split(name, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Coordinate{}, ErrInvalidCoordinate
	}
	for _, i := range parts {
		if i == "" {
			return Coordinate{}, ErrInvalidCoordinate
		}
	}
	c.Group, c.Artifact, c.Version = parts[0], parts[1], parts[2]
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

// Key identifies the library ignoring its version.
func (c Coordinate) Key() string {
	if c.Classifier != "" {
		return c.Group + ":" + c.Artifact + ":" + c.Classifier
	}
	return c.Group + ":" + c.Artifact
}

func (c Coordinate) WithClassifier(classifier string) Coordinate {
	c.Classifier = classifier
	return c
}

// Path is the repository layout path using forward slashes.
func (c Coordinate) Path() string {
	file := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		file += "-" + c.Classifier
	}
	file += "." + c.Extension
	return path.Join(strings.ReplaceAll(c.Group, ".", "/"), c.Artifact, c.Version, file)
}

func MavenPath(name string) (string, error) {
	c, err := ParseCoordinate(name)
	if err != nil {
		return "", err
	}
	return c.Path(), nil
}

// NativeClassifier returns the natives classifier for env, if the library
// has one.
func (l Library) NativeClassifier(env Environment) (string, bool) {
	if l.Natives == nil {
		return "", false
	}
	c, ok := l.Natives[env.OS]
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(c, "${arch}", env.Bits()), true
}

// Artifact returns the main jar download. Libraries without download info
// are resolved against their maven repository url.
func (l Library) Artifact(defaultBase string) (Download, bool, error) {
	if l.Downloads != nil {
		if l.Downloads.Artifact == nil {
			return Download{}, false, nil
		}
		a := *l.Downloads.Artifact
		if a.Path == "" {
			p, err := MavenPath(l.Name)
			if err != nil {
				return Download{}, false, err
			}
			a.Path = p
		}
		return a, true, nil
	}
	p, err := MavenPath(l.Name)
	if err != nil {
		return Download{}, false, err
	}
	return Download{Path: p, Url: joinUrl(l.baseUrl(defaultBase), p)}, true, nil
}

// Native returns the natives jar download for env.
func (l Library) Native(env Environment, defaultBase string) (Download, bool, error) {
	classifier, ok := l.NativeClassifier(env)
	if !ok {
		return Download{}, false, nil
	}
	if l.Downloads != nil && l.Downloads.Classifiers != nil {
		d, ok := l.Downloads.Classifiers[classifier]
		if !ok {
			return Download{}, false, nil
		}
		if d.Path == "" {
			c, err := ParseCoordinate(l.Name)
			if err != nil {
				return Download{}, false, err
			}
			d.Path = c.WithClassifier(classifier).Path()
		}
		return d, true, nil
	}
	c, err := ParseCoordinate(l.Name)
	if err != nil {
		return Download{}, false, err
	}
	p := c.WithClassifier(classifier).Path()
	return Download{Path: p, Url: joinUrl(l.baseUrl(defaultBase), p)}, true, nil
}

func (l Library) NativesOnly() bool {
	return l.Natives != nil && l.Downloads == nil
}

func (l Library) baseUrl(defaultBase string) string {
	if l.Url != "" {
		return l.Url
	}
	if defaultBase != "" {
		return defaultBase
	}
	return DefaultLibrariesUrl
}

func joinUrl(base, p string) string {
	return strings.TrimSuffix(base, "/") + "/" + p
}
