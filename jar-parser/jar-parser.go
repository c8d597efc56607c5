package jar_parser

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrNoModMetadata = errors.New("no mod metadata found")

type ModMetadata struct {
	Id           string
	Name         string
	Version      string
	Loaders      []string
	Environment  string
	GameVersions []*semver.Constraints
}

// JarParser reads the fabric, quilt and forge/neoforge metadata files from a
// mod jar. Jars can carry metadata for more than one loader.
func JarParser(r io.ReaderAt, size int64) (ModMetadata, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return ModMetadata{}, err
	}

	var meta ModMetadata
	for _, i := range zr.File {
		switch i.Name {
		case "fabric.mod.json":
			var fabricJson FabricJson
			if err := decodeEntry(i, func(r io.Reader) error { return json.NewDecoder(r).Decode(&fabricJson) }); err != nil {
				return ModMetadata{}, fmt.Errorf("fabric.mod.json: %w", err)
			}
			meta.setIdentity(fabricJson.Id, fabricJson.Name, fabricJson.Version)
			meta.Loaders = append(meta.Loaders, "fabric")
			meta.Environment = fabricJson.Environment
			c, err := minecraftRange(fabricJson.Depends["minecraft"])
			if err != nil {
				return ModMetadata{}, fmt.Errorf("fabric.mod.json: minecraft version range: %w", err)
			}
			if c != nil {
				meta.GameVersions = append(meta.GameVersions, c)
			}
		case "quilt.mod.json":
			var quiltJson QuiltJson
			if err := decodeEntry(i, func(r io.Reader) error { return json.NewDecoder(r).Decode(&quiltJson) }); err != nil {
				return ModMetadata{}, fmt.Errorf("quilt.mod.json: %w", err)
			}
			meta.setIdentity(quiltJson.QuiltLoader.Id, quiltJson.QuiltLoader.Metadata.Name, quiltJson.QuiltLoader.Version)
			meta.Loaders = append(meta.Loaders, "quilt")
			meta.Environment = quiltJson.Minecraft.Environment
			for _, j := range quiltJson.QuiltLoader.Depends {
				if j.Id != "minecraft" {
					continue
				}
				c, err := minecraftRange(j.Versions)
				if err != nil {
					return ModMetadata{}, fmt.Errorf("quilt.mod.json: minecraft version range: %w", err)
				}
				if c != nil {
					meta.GameVersions = append(meta.GameVersions, c)
				}
			}
		case "META-INF/mods.toml", "META-INF/neoforge.mods.toml":
			var forgeToml ForgeToml
			if err := decodeEntry(i, func(r io.Reader) error { _, err := toml.NewDecoder(r).Decode(&forgeToml); return err }); err != nil {
				return ModMetadata{}, fmt.Errorf("%s: %w", i.Name, err)
			}
			if err := meta.addForge(forgeToml, i.Name == "META-INF/neoforge.mods.toml"); err != nil {
				return ModMetadata{}, err
			}
		}
	}
	if len(meta.Loaders) == 0 {
		return ModMetadata{}, ErrNoModMetadata
	}
	return meta, nil
}

// minecraftRange decodes a fabric or quilt version range, nil when absent
func minecraftRange(raw json.RawMessage) (*semver.Constraints, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var r FabricVersionRange
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return r.C, nil
}

func decodeEntry(f *zip.File, decode func(r io.Reader) error) error {
	open, err := f.Open()
	if err != nil {
		return err
	}
	defer open.Close()
	return decode(open)
}

func (m *ModMetadata) setIdentity(id, name, version string) {
	if m.Id == "" {
		m.Id = id
	}
	if m.Name == "" {
		m.Name = name
	}
	if m.Version == "" {
		m.Version = version
	}
}

func (m *ModMetadata) addForge(forgeToml ForgeToml, neoforgeFile bool) error {
	if len(forgeToml.Mods) == 0 {
		return nil
	}
	mod := forgeToml.Mods[0]
	m.setIdentity(mod.ModID, mod.DisplayName, mod.Version)

	loader := "forge"
	if neoforgeFile {
		loader = "neoforge"
	}
	for _, j := range forgeToml.Dependencies[mod.ModID] {
		switch j.ModID {
		case "neoforge":
			loader = "neoforge"
		case "minecraft":
			if !j.Required() {
				continue
			}
			versionRange, err := ForgeVersionRange(j.VersionRange)
			if err != nil {
				return fmt.Errorf("minecraft version range %q: %w", j.VersionRange, err)
			}
			m.GameVersions = append(m.GameVersions, versionRange)
		}
	}
	m.Loaders = append(m.Loaders, loader)
	return nil
}

// Compatible reports whether the mod accepts the game version. Mods without a
// minecraft dependency are assumed to work on any version, as are game
// versions that are not semver (snapshots).
func (m ModMetadata) Compatible(gameVersion string) bool {
	if len(m.GameVersions) == 0 {
		return true
	}
	v, err := semver.NewVersion(gameVersion)
	if err != nil {
		return true
	}
	for _, c := range m.GameVersions {
		if c.Check(v) {
			return true
		}
	}
	return false
}

// SupportsLoader reports whether the mod was built for the loader. Quilt
// also loads fabric mods.
func (m ModMetadata) SupportsLoader(loader string) bool {
	for _, i := range m.Loaders {
		if i == loader || (loader == "quilt" && i == "fabric") {
			return true
		}
	}
	return false
}

type ScannedMod struct {
	Filename string
	Meta     ModMetadata
	Err      error
}

// ScanMods parses every jar in dir. Broken jars are reported in the result
// instead of failing the whole scan.
func ScanMods(dir string) ([]ScannedMod, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []ScannedMod{}, nil
		}
		return nil, err
	}
	a := make([]ScannedMod, 0, len(entries))
	for _, i := range entries {
		if i.IsDir() || !strings.EqualFold(filepath.Ext(i.Name()), ".jar") {
			continue
		}
		meta, err := parseFile(filepath.Join(dir, i.Name()))
		a = append(a, ScannedMod{Filename: i.Name(), Meta: meta, Err: err})
	}
	sort.Slice(a, func(x, y int) bool { return a[x].Filename < a[y].Filename })
	return a, nil
}

func parseFile(p string) (ModMetadata, error) {
	open, err := os.Open(p)
	if err != nil {
		return ModMetadata{}, err
	}
	defer open.Close()
	stat, err := open.Stat()
	if err != nil {
		return ModMetadata{}, err
	}
	return JarParser(open, stat.Size())
}
