package version_json

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type VersionJson struct {
	Id                 string              `json:"id"`
	InheritsFrom       string              `json:"inheritsFrom,omitempty"`
	Type               string              `json:"type"`
	MainClass          string              `json:"mainClass"`
	MinecraftArguments string              `json:"minecraftArguments,omitempty"`
	Arguments          *Arguments          `json:"arguments,omitempty"`
	AssetIndex         *AssetIndexRef      `json:"assetIndex,omitempty"`
	Assets             string              `json:"assets,omitempty"`
	Downloads          map[string]Download `json:"downloads,omitempty"`
	Libraries          []Library           `json:"libraries"`
	JavaVersion        *JavaVersion        `json:"javaVersion,omitempty"`
	Logging            *Logging            `json:"logging,omitempty"`
	ReleaseTime        Timestamp           `json:"releaseTime"`
	Time               Timestamp           `json:"time"`
	ComplianceLevel    int                 `json:"complianceLevel,omitempty"`
	Jar                string              `json:"jar,omitempty"`
}

type Arguments struct {
	Game []Argument `json:"game"`
	Jvm  []Argument `json:"jvm"`
}

type AssetIndexRef struct {
	Id        string `json:"id"`
	Sha1      string `json:"sha1"`
	Size      int64  `json:"size"`
	TotalSize int64  `json:"totalSize"`
	Url       string `json:"url"`
}

type Download struct {
	Path string `json:"path,omitempty"`
	Sha1 string `json:"sha1"`
	Size int64  `json:"size"`
	Url  string `json:"url"`
}

type JavaVersion struct {
	Component    string `json:"component"`
	MajorVersion int    `json:"majorVersion"`
}

type Logging struct {
	Client *LoggingConfig `json:"client,omitempty"`
}

type LoggingConfig struct {
	Argument string `json:"argument"`
	File     struct {
		Id   string `json:"id"`
		Sha1 string `json:"sha1"`
		Size int64  `json:"size"`
		Url  string `json:"url"`
	} `json:"file"`
	Type string `json:"type"`
}

// Timestamp also accepts the "+0000" offsets written by fabric meta.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05-0700"} {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp: %q", s)
}

func Load(p string) (*VersionJson, error) {
	open, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer open.Close()
	var v VersionJson
	if err := json.NewDecoder(open).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode version json: %w", err)
	}
	return &v, nil
}

// AssetsId is the asset index id, legacy versions only name it in "assets".
func (v *VersionJson) AssetsId() string {
	if v.AssetIndex != nil && v.AssetIndex.Id != "" {
		return v.AssetIndex.Id
	}
	if v.Assets != "" {
		return v.Assets
	}
	return "legacy"
}

// JarId is the version whose client jar is used on the classpath.
func (v *VersionJson) JarId() string {
	if v.Jar != "" {
		return v.Jar
	}
	return v.Id
}

// Merge applies inheritsFrom, the child takes precedence over the parent.
func Merge(child, parent *VersionJson) *VersionJson {
	m := *parent
	m.Id = child.Id
	m.InheritsFrom = ""
	if child.Type != "" {
		m.Type = child.Type
	}
	if child.MainClass != "" {
		m.MainClass = child.MainClass
	}
	if child.MinecraftArguments != "" {
		m.MinecraftArguments = child.MinecraftArguments
	}
	if child.AssetIndex != nil {
		m.AssetIndex = child.AssetIndex
	}
	if child.Assets != "" {
		m.Assets = child.Assets
	}
	if child.JavaVersion != nil {
		m.JavaVersion = child.JavaVersion
	}
	if child.Logging != nil {
		m.Logging = child.Logging
	}
	if !child.ReleaseTime.IsZero() {
		m.ReleaseTime = child.ReleaseTime
	}
	if !child.Time.IsZero() {
		m.Time = child.Time
	}
	if child.Jar != "" {
		m.Jar = child.Jar
	} else if m.Jar == "" {
		m.Jar = parent.Id
	}

	m.Downloads = make(map[string]Download, len(parent.Downloads)+len(child.Downloads))
	for k, d := range parent.Downloads {
		m.Downloads[k] = d
	}
	for k, d := range child.Downloads {
		m.Downloads[k] = d
	}

	m.Libraries = make([]Library, 0, len(child.Libraries)+len(parent.Libraries))
	m.Libraries = append(m.Libraries, child.Libraries...)
	m.Libraries = append(m.Libraries, parent.Libraries...)

	if child.Arguments != nil || parent.Arguments != nil {
		args := &Arguments{}
		if parent.Arguments != nil {
			args.Game = append(args.Game, parent.Arguments.Game...)
			args.Jvm = append(args.Jvm, parent.Arguments.Jvm...)
		}
		if child.Arguments != nil {
			args.Game = append(args.Game, child.Arguments.Game...)
			args.Jvm = append(args.Jvm, child.Arguments.Jvm...)
		}
		m.Arguments = args
	}
	return &m
}
