package launch

import (
	versionJson "github.com/mrmelon54/mc-launcher/version-json"
	"path/filepath"
)

const (
	DefaultLauncherName    = "mc-launcher"
	DefaultLauncherVersion = "1.0.0"
	DefaultJavaPath        = "java"
)

// DefaultJavaArgs are used when the profile does not set its own.
var DefaultJavaArgs = []string{"-Xmx2G", "-XX:+UnlockExperimentalVMOptions", "-XX:+UseG1GC"}

// Options describes the game directory layout and the values passed to the
// game that do not come from the profile.
type Options struct {
	GameDir         string
	VersionsDir     string
	LibrariesDir    string
	AssetsDir       string
	JavaPath        string
	LauncherName    string
	LauncherVersion string
	LibrariesUrl    string
	ResourcesUrl    string
	Env             versionJson.Environment
}

// DefaultOptions lays out versions, libraries and assets below gameDir the
// same way the vanilla launcher does.
func DefaultOptions(gameDir string) Options {
	return Options{
		GameDir:         gameDir,
		VersionsDir:     filepath.Join(gameDir, "versions"),
		LibrariesDir:    filepath.Join(gameDir, "libraries"),
		AssetsDir:       filepath.Join(gameDir, "assets"),
		JavaPath:        DefaultJavaPath,
		LauncherName:    DefaultLauncherName,
		LauncherVersion: DefaultLauncherVersion,
		LibrariesUrl:    versionJson.DefaultLibrariesUrl,
		ResourcesUrl:    versionJson.DefaultResourcesUrl,
		Env:             versionJson.CurrentEnvironment(),
	}
}

func (o Options) javaPath() string {
	if o.JavaPath == "" {
		return DefaultJavaPath
	}
	return o.JavaPath
}

func (o Options) launcherName() string {
	if o.LauncherName == "" {
		return DefaultLauncherName
	}
	return o.LauncherName
}

func (o Options) launcherVersion() string {
	if o.LauncherVersion == "" {
		return DefaultLauncherVersion
	}
	return o.LauncherVersion
}
