package mc_launcher

import (
	"github.com/mrmelon54/mc-launcher/modrinth"
	"path/filepath"
	"time"
)

type Config struct {
	Listen          string                  `yaml:"listen"`
	Token           string                  `yaml:"token"`
	GameDir         string                  `yaml:"gameDir"`
	JavaPath        string                  `yaml:"javaPath"`
	LauncherName    string                  `yaml:"launcherName"`
	LauncherVersion string                  `yaml:"launcherVersion"`
	Downloads       DownloadsConfig         `yaml:"downloads"`
	Modrinth        modrinth.ModrinthConfig `yaml:"modrinth"`
	ExitOnGameStart bool                    `yaml:"exitOnGameStart"`
	Debug           bool                    `yaml:"debug"`
}

type DownloadsConfig struct {
	Concurrency  int           `yaml:"concurrency"`
	Timeout      time.Duration `yaml:"timeout"`
	ManifestUrl  string        `yaml:"manifestUrl"`
	LibrariesUrl string        `yaml:"librariesUrl"`
	ResourcesUrl string        `yaml:"resourcesUrl"`
}

// ProfilesPath is launcher_profiles.json in the game directory
func (c Config) ProfilesPath() string {
	return filepath.Join(c.GameDir, "launcher_profiles.json")
}

func (c Config) ServersPath() string {
	return filepath.Join(c.GameDir, "servers.dat")
}

func (c Config) DatabasePath() string {
	return filepath.Join(c.GameDir, "launcher.sqlite3.db")
}

func (c Config) ModsDir(gameDir string) string {
	if gameDir == "" {
		gameDir = c.GameDir
	}
	return filepath.Join(gameDir, "mods")
}
