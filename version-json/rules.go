package version_json

import (
	"regexp"
	"runtime"
)

type Rule struct {
	Action   string          `json:"action"`
	Os       *OsRule         `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

type OsRule struct {
	Name    string `json:"name,omitempty"`
	Arch    string `json:"arch,omitempty"`
	Version string `json:"version,omitempty"`
}

// Environment is what rules are checked against. OS uses the launcher names
// windows, osx and linux.
type Environment struct {
	OS        string
	Arch      string
	OSVersion string
	Features  map[string]bool
}

func CurrentEnvironment() Environment {
	return Environment{
		OS:       osName(runtime.GOOS),
		Arch:     archName(runtime.GOARCH),
		Features: map[string]bool{},
	}
}

func osName(goos string) string {
	switch goos {
	case "darwin":
		return "osx"
	case "windows":
		return "windows"
	}
	return "linux"
}

func archName(goarch string) string {
	switch goarch {
	case "386", "arm":
		return "x86"
	case "arm64":
		return "arm64"
	}
	return "x86_64"
}

// Bits is substituted for ${arch} in native classifiers
func (e Environment) Bits() string {
	if e.Arch == "x86" {
		return "32"
	}
	return "64"
}

func (r Rule) matches(env Environment) bool {
	if r.Os != nil {
		if r.Os.Name != "" && r.Os.Name != env.OS {
			return false
		}
		if r.Os.Arch != "" && r.Os.Arch != env.Arch {
			return false
		}
		if r.Os.Version != "" {
			re, err := regexp.Compile(r.Os.Version)
			if err != nil || !re.MatchString(env.OSVersion) {
				return false
			}
		}
	}
	for k, v := range r.Features {
		if env.Features[k] != v {
			return false
		}
	}
	return true
}

// Allowed evaluates a rule list, an empty list allows everything and
// otherwise the last matching rule decides.
func Allowed(rules []Rule, env Environment) bool {
	if len(rules) == 0 {
		return true
	}
	allowed := false
	for _, r := range rules {
		if r.matches(env) {
			allowed = r.Action == "allow"
		}
	}
	return allowed
}
