package launch

import (
	"fmt"
	mapset "github.com/deckarep/golang-set/v2"
	versionJson "github.com/mrmelon54/mc-launcher/version-json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var regexPlaceholder = regexp.MustCompile(`\$\{([a-zA-Z_]+)\}`)

// legacy versions only carry minecraftArguments
var legacyJvmArgs = []string{"-Djava.library.path=${natives_directory}", "-cp", "${classpath}"}

// Inputs holds everything a single launch substitutes into the arguments.
type Inputs struct {
	Version    *versionJson.VersionJson
	Account    Account
	JavaArgs   string
	GameDir    string
	NativesDir string
	Classpath  []string
	ClientId   string
	// LoggingConfig is the downloaded log4j config, if any
	LoggingConfig string
}

// Expand replaces ${name} placeholders with values from vars. Unknown
// placeholders are kept as they are.
func Expand(s string, vars map[string]string) string {
	return regexPlaceholder.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := vars[m[2:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

func expandAll(args []string, vars map[string]string) []string {
	a := make([]string, len(args))
	for i := range args {
		a[i] = Expand(args[i], vars)
	}
	return a
}

// GameAssetsDir is where versions with a virtual or resource mapped asset
// index expect their files.
func (o Options) GameAssetsDir(index *versionJson.AssetIndex, assetsId, gameDir string) string {
	switch {
	case index == nil:
		return o.AssetsDir
	case index.MapToResources:
		return filepath.Join(gameDir, "resources")
	case index.Virtual:
		return filepath.Join(o.AssetsDir, "virtual", assetsId)
	}
	return o.AssetsDir
}

func (o Options) placeholders(in Inputs, gameAssets string) map[string]string {
	sep := string(os.PathListSeparator)
	return map[string]string{
		"auth_player_name":    in.Account.Name,
		"version_name":        in.Version.Id,
		"game_directory":      in.GameDir,
		"assets_root":         o.AssetsDir,
		"game_assets":         gameAssets,
		"assets_index_name":   in.Version.AssetsId(),
		"auth_uuid":           in.Account.UndashedUuid(),
		"auth_access_token":   in.Account.AccessToken,
		"auth_session":        fmt.Sprintf("token:%s:%s", in.Account.AccessToken, in.Account.UndashedUuid()),
		"auth_xuid":           in.Account.Xuid,
		"user_type":           in.Account.UserType,
		"user_properties":     "{}",
		"version_type":        in.Version.Type,
		"natives_directory":   in.NativesDir,
		"launcher_name":       o.launcherName(),
		"launcher_version":    o.launcherVersion(),
		"classpath":           strings.Join(in.Classpath, sep),
		"classpath_separator": sep,
		"library_directory":   o.LibrariesDir,
		"clientid":            in.ClientId,
	}
}

// CommandLine is the java invocation split into its parts.
type CommandLine struct {
	Jvm       []string
	MainClass string
	Game      []string
}

// Args joins the parts in the order java expects them.
func (c CommandLine) Args() []string {
	a := make([]string, 0, len(c.Jvm)+1+len(c.Game))
	a = append(a, c.Jvm...)
	a = append(a, c.MainClass)
	return append(a, c.Game...)
}

// BuildArguments puts the profile java args first, then the version jvm args
// and the logging config.
func (o Options) BuildArguments(in Inputs, gameAssets string) CommandLine {
	vars := o.placeholders(in, gameAssets)
	v := in.Version

	jvm := strings.Fields(in.JavaArgs)
	if len(jvm) == 0 {
		jvm = append(jvm, DefaultJavaArgs...)
	}

	var game []string
	if v.Arguments != nil {
		jvm = append(jvm, expandAll(versionJson.Resolve(v.Arguments.Jvm, o.Env), vars)...)
		game = expandAll(versionJson.Resolve(v.Arguments.Game, o.Env), vars)
	} else {
		jvm = append(jvm, expandAll(legacyJvmArgs, vars)...)
		game = expandAll(strings.Fields(v.MinecraftArguments), vars)
	}

	if in.LoggingConfig != "" && v.Logging != nil && v.Logging.Client != nil && v.Logging.Client.Argument != "" {
		jvm = append(jvm, Expand(v.Logging.Client.Argument, map[string]string{"path": in.LoggingConfig}))
	}
	return CommandLine{Jvm: jvm, MainClass: v.MainClass, Game: game}
}

// Classpath lists the library jars allowed in env followed by the client
// jar. A library appearing twice keeps its first position, which lets mod
// loaders override the vanilla copy.
func (o Options) Classpath(v *versionJson.VersionJson) ([]string, error) {
	seen := mapset.NewThreadUnsafeSet[string]()
	a := make([]string, 0, len(v.Libraries)+1)
	for _, l := range v.Libraries {
		if !versionJson.Allowed(l.Rules, o.Env) || l.NativesOnly() {
			continue
		}
		d, ok, err := l.Artifact(o.LibrariesUrl)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", l.Name, err)
		}
		if !ok {
			continue
		}
		c, err := versionJson.ParseCoordinate(l.Name)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", l.Name, err)
		}
		if !seen.Add(c.Key()) {
			continue
		}
		a = append(a, filepath.Join(o.LibrariesDir, filepath.FromSlash(d.Path)))
	}
	return append(a, versionJson.ClientJarPath(o.VersionsDir, v.JarId())), nil
}
