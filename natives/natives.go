package natives

import (
	"archive/zip"
	"errors"
	"fmt"
	versionJson "github.com/mrmelon54/mc-launcher/version-json"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrIllegalPath = errors.New("zip entry escapes destination")

// Extract unpacks a natives jar into destDir, skipping entries that start
// with one of the exclude prefixes.
func Extract(jarPath, destDir string, exclude []string) (int, error) {
	zr, err := zip.OpenReader(jarPath)
	if err != nil {
		return 0, err
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, err
	}
	n := 0
outer:
	for _, f := range zr.File {
		for _, i := range exclude {
			if strings.HasPrefix(f.Name, i) {
				continue outer
			}
		}
		if f.FileInfo().IsDir() {
			continue
		}
		target := filepath.Join(destDir, filepath.FromSlash(f.Name))
		rel, err := filepath.Rel(destDir, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return n, fmt.Errorf("%s: %w", f.Name, ErrIllegalPath)
		}
		if err := extractFile(f, target); err != nil {
			return n, fmt.Errorf("%s: %w", f.Name, err)
		}
		n++
	}
	return n, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	open, err := f.Open()
	if err != nil {
		return err
	}
	defer open.Close()
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, open); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// ExtractAll extracts the natives of every library allowed in env. The jars
// must already be present in librariesDir.
func ExtractAll(v *versionJson.VersionJson, env versionJson.Environment, librariesDir, destDir string) (int, error) {
	total := 0
	for _, l := range v.Libraries {
		if !versionJson.Allowed(l.Rules, env) {
			continue
		}
		d, ok, err := l.Native(env, "")
		if err != nil {
			return total, err
		}
		if !ok {
			continue
		}
		var exclude []string
		if l.Extract != nil {
			exclude = l.Extract.Exclude
		}
		n, err := Extract(filepath.Join(librariesDir, filepath.FromSlash(d.Path)), destDir, exclude)
		if err != nil {
			return total, fmt.Errorf("extract %s: %w", l.Name, err)
		}
		total += n
	}
	return total, nil
}
