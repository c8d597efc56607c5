package launch

import (
	"encoding/json"
	versionJson "github.com/mrmelon54/mc-launcher/version-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testModernVersion = `{
  "id": "1.20.4",
  "type": "release",
  "mainClass": "net.minecraft.client.main.Main",
  "assetIndex": {"id": "12", "url": "https://meta.example.com/12.json"},
  "arguments": {
    "game": [
      "--username", "${auth_player_name}", "--version", "${version_name}",
      "--gameDir", "${game_directory}", "--assetIndex", "${assets_index_name}",
      "--uuid", "${auth_uuid}", "--clientId", "${clientid}", "--xuid", "${auth_xuid}",
      {"rules": [{"action": "allow", "features": {"is_demo_user": true}}], "value": "--demo"},
      "${unknown_value}"
    ],
    "jvm": [
      {"rules": [{"action": "allow", "os": {"name": "osx"}}], "value": ["-XstartOnFirstThread"]},
      "-Djava.library.path=${natives_directory}",
      "-Dminecraft.launcher.brand=${launcher_name}",
      "-cp", "${classpath}"
    ]
  },
  "logging": {"client": {"argument": "-Dlog4j.configurationFile=${path}", "file": {"id": "client-1.12.xml", "url": "https://meta.example.com/client-1.12.xml"}, "type": "log4j2-xml"}},
  "libraries": [
    {"name": "com.mojang:brigadier:1.2.9", "downloads": {"artifact": {"path": "com/mojang/brigadier/1.2.9/brigadier-1.2.9.jar", "url": "https://libraries.example.com/com/mojang/brigadier/1.2.9/brigadier-1.2.9.jar"}}},
    {"name": "org.lwjgl:lwjgl:3.3.2", "downloads": {"artifact": {"path": "org/lwjgl/lwjgl/3.3.2/lwjgl-3.3.2.jar", "url": "https://libraries.example.com/org/lwjgl/lwjgl/3.3.2/lwjgl-3.3.2.jar"}}},
    {"name": "org.lwjgl:lwjgl:3.3.2:natives-linux", "rules": [{"action": "allow", "os": {"name": "linux"}}], "downloads": {"artifact": {"path": "org/lwjgl/lwjgl/3.3.2/lwjgl-3.3.2-natives-linux.jar", "url": "https://libraries.example.com/org/lwjgl/lwjgl/3.3.2/lwjgl-3.3.2-natives-linux.jar"}}},
    {"name": "org.lwjgl:lwjgl:3.3.2:natives-windows", "rules": [{"action": "allow", "os": {"name": "windows"}}], "downloads": {"artifact": {"path": "org/lwjgl/lwjgl/3.3.2/lwjgl-3.3.2-natives-windows.jar", "url": "https://libraries.example.com/org/lwjgl/lwjgl/3.3.2/lwjgl-3.3.2-natives-windows.jar"}}},
    {"name": "com.mojang:brigadier:1.0.18", "downloads": {"artifact": {"path": "com/mojang/brigadier/1.0.18/brigadier-1.0.18.jar", "url": "https://libraries.example.com/com/mojang/brigadier/1.0.18/brigadier-1.0.18.jar"}}}
  ]
}`

func testOptions(t *testing.T) Options {
	o := DefaultOptions(t.TempDir())
	o.Env = versionJson.Environment{OS: "linux", Arch: "x86_64", Features: map[string]bool{}}
	o.LauncherVersion = "2.1.0"
	return o
}

func parseVersion(t *testing.T, s string) *versionJson.VersionJson {
	var v versionJson.VersionJson
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return &v
}

func TestOfflineUuid(t *testing.T) {
	assert.Equal(t, "b50ad385-829d-3141-a216-7e7d7539ba7f", OfflineUuid("Notch").String())
	a := OfflineAccount("Steve")
	assert.Equal(t, "5627dd98e6be3c21b8a8e92344183641", a.UndashedUuid())
	assert.Equal(t, "0", a.AccessToken)
	assert.True(t, a.Offline)
}

func TestExpand(t *testing.T) {
	vars := map[string]string{"a": "1", "b_c": "two"}
	assert.Equal(t, "1-two", Expand("${a}-${b_c}", vars))
	assert.Equal(t, "${missing}", Expand("${missing}", vars))
	assert.Equal(t, "$a ${", Expand("$a ${", vars))
}

func TestOptions_Classpath(t *testing.T) {
	o := testOptions(t)
	cp, err := o.Classpath(parseVersion(t, testModernVersion))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(o.LibrariesDir, "com", "mojang", "brigadier", "1.2.9", "brigadier-1.2.9.jar"),
		filepath.Join(o.LibrariesDir, "org", "lwjgl", "lwjgl", "3.3.2", "lwjgl-3.3.2.jar"),
		filepath.Join(o.LibrariesDir, "org", "lwjgl", "lwjgl", "3.3.2", "lwjgl-3.3.2-natives-linux.jar"),
		filepath.Join(o.VersionsDir, "1.20.4", "1.20.4.jar"),
	}, cp)
}

func TestOptions_BuildArguments_Modern(t *testing.T) {
	o := testOptions(t)
	v := parseVersion(t, testModernVersion)
	cmd := o.BuildArguments(Inputs{
		Version:       v,
		Account:       OfflineAccount("Notch"),
		JavaArgs:      "  -Xmx4G   -XX:+UseZGC ",
		GameDir:       "/games/mc",
		NativesDir:    "/tmp/natives",
		Classpath:     []string{"a.jar", "b.jar"},
		ClientId:      "client-token",
		LoggingConfig: "/assets/log_configs/client-1.12.xml",
	}, o.AssetsDir)

	sep := string(os.PathListSeparator)
	assert.Equal(t, []string{
		"-Xmx4G", "-XX:+UseZGC",
		"-Djava.library.path=/tmp/natives",
		"-Dminecraft.launcher.brand=mc-launcher",
		"-cp", "a.jar" + sep + "b.jar",
		"-Dlog4j.configurationFile=/assets/log_configs/client-1.12.xml",
	}, cmd.Jvm)
	assert.Equal(t, "net.minecraft.client.main.Main", cmd.MainClass)
	assert.Equal(t, []string{
		"--username", "Notch", "--version", "1.20.4",
		"--gameDir", "/games/mc", "--assetIndex", "12",
		"--uuid", "b50ad385829d3141a2167e7d7539ba7f", "--clientId", "client-token", "--xuid", "0",
		"${unknown_value}",
	}, cmd.Game)

	args := cmd.Args()
	assert.Equal(t, len(cmd.Jvm)+1+len(cmd.Game), len(args))
	assert.Equal(t, "net.minecraft.client.main.Main", args[len(cmd.Jvm)])
}

func TestOptions_BuildArguments_Legacy(t *testing.T) {
	o := testOptions(t)
	v := parseVersion(t, `{
  "id": "1.7.10",
  "type": "release",
  "mainClass": "net.minecraft.client.main.Main",
  "assets": "1.7.10",
  "minecraftArguments": "--username ${auth_player_name} --gameDir ${game_directory} --assetsDir ${game_assets} --session ${auth_session} --userType ${user_type} --userProperties ${user_properties}",
  "libraries": []
}`)
	index := &versionJson.AssetIndex{Virtual: true}
	assets := o.GameAssetsDir(index, v.AssetsId(), "/games/old")
	cmd := o.BuildArguments(Inputs{
		Version:    v,
		Account:    OfflineAccount("Steve"),
		GameDir:    "/games/old dir",
		NativesDir: "/tmp/n",
		Classpath:  []string{"x.jar"},
	}, assets)

	assert.Equal(t, []string{"-Xmx2G", "-XX:+UnlockExperimentalVMOptions", "-XX:+UseG1GC", "-Djava.library.path=/tmp/n", "-cp", "x.jar"}, cmd.Jvm)
	assert.Equal(t, []string{
		"--username", "Steve",
		"--gameDir", "/games/old dir",
		"--assetsDir", filepath.Join(o.AssetsDir, "virtual", "1.7.10"),
		"--session", "token:0:5627dd98e6be3c21b8a8e92344183641",
		"--userType", "legacy",
		"--userProperties", "{}",
	}, cmd.Game)
	assert.False(t, strings.Contains(strings.Join(cmd.Jvm, " "), "log4j"))
}

func TestOptions_GameAssetsDir(t *testing.T) {
	o := testOptions(t)
	assert.Equal(t, o.AssetsDir, o.GameAssetsDir(nil, "12", "/g"))
	assert.Equal(t, o.AssetsDir, o.GameAssetsDir(&versionJson.AssetIndex{}, "12", "/g"))
	assert.Equal(t, filepath.Join("/g", "resources"), o.GameAssetsDir(&versionJson.AssetIndex{MapToResources: true}, "pre-1.6", "/g"))
}
