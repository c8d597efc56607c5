package launcher_profile

import (
	"encoding/json"
	"fmt"
	"time"
)

type VersionType string

const (
	VersionRelease  VersionType = "release"
	VersionSnapshot VersionType = "snapshot"
	VersionOldBeta  VersionType = "old_beta"
	VersionOldAlpha VersionType = "old_alpha"
)

func (v VersionType) Valid() bool {
	switch v {
	case VersionRelease, VersionSnapshot, VersionOldBeta, VersionOldAlpha:
		return true
	}
	return false
}

type LauncherVisibility int

const (
	CloseOnGameStart LauncherVisibility = iota
	HideUntilGameClose
	KeepOpen
)

var launcherVisibilityNames = map[LauncherVisibility]string{
	CloseOnGameStart:   "close launcher when game starts",
	HideUntilGameClose: "hide launcher and re-open when game closes",
	KeepOpen:           "keep the launcher open",
}

func (v LauncherVisibility) String() string {
	return launcherVisibilityNames[v]
}

func (v LauncherVisibility) MarshalJSON() ([]byte, error) {
	s, ok := launcherVisibilityNames[v]
	if !ok {
		return nil, fmt.Errorf("invalid launcher visibility: %d", v)
	}
	return json.Marshal(s)
}

func (v *LauncherVisibility) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for k, name := range launcherVisibilityNames {
		if name == s {
			*v = k
			return nil
		}
	}
	return fmt.Errorf("invalid launcher visibility: %q", s)
}

// LaunchProfile is a single entry in the profiles map. Optional fields are nil
// when absent so that writing the file back keeps them absent.
type LaunchProfile struct {
	Name string `json:"name"`
	// LastVersionId is nil when "Use Latest Version" is set
	LastVersionId                 *string             `json:"lastVersionId,omitempty"`
	GameDir                       *string             `json:"gameDir,omitempty"`
	JavaDir                       *string             `json:"javaDir,omitempty"`
	JavaArgs                      *string             `json:"javaArgs,omitempty"`
	AllowedReleaseTypes           []VersionType       `json:"allowedReleaseTypes,omitempty"`
	LauncherVisibilityOnGameClose *LauncherVisibility `json:"launcherVisibilityOnGameClose,omitempty"`
	Type                          string              `json:"type,omitempty"`
	Icon                          string              `json:"icon,omitempty"`
	Created                       *time.Time          `json:"created,omitempty"`
	LastUsed                      *time.Time          `json:"lastUsed,omitempty"`
}

func (p LaunchProfile) GetAllowedReleaseTypes() []VersionType {
	if len(p.AllowedReleaseTypes) == 0 {
		return []VersionType{VersionRelease}
	}
	return p.AllowedReleaseTypes
}

func (p LaunchProfile) AllowsReleaseType(t VersionType) bool {
	for _, i := range p.GetAllowedReleaseTypes() {
		if i == t {
			return true
		}
	}
	return false
}

func (p LaunchProfile) GetLauncherVisibilityOnGameClose() LauncherVisibility {
	if p.LauncherVisibilityOnGameClose == nil {
		return CloseOnGameStart
	}
	return *p.LauncherVisibilityOnGameClose
}

func (p LaunchProfile) Validate() error {
	if p.Name == "" {
		return ErrMissingName
	}
	for _, i := range p.AllowedReleaseTypes {
		if !i.Valid() {
			return fmt.Errorf("invalid release type: %q", i)
		}
	}
	return nil
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (p LaunchProfile) GetLastVersionId() string { return optString(p.LastVersionId) }
func (p LaunchProfile) GetGameDir() string       { return optString(p.GameDir) }
func (p LaunchProfile) GetJavaDir() string       { return optString(p.JavaDir) }
func (p LaunchProfile) GetJavaArgs() string      { return optString(p.JavaArgs) }
