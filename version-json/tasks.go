package version_json

import (
	"fmt"
	"github.com/mrmelon54/mc-launcher/downloader"
	"path/filepath"
	"strings"
)

const DefaultResourcesUrl = "https://resources.download.minecraft.net/"

// LibraryTasks lists the artifact and native downloads for every library
// allowed in env.
func LibraryTasks(v *VersionJson, env Environment, librariesDir, defaultBase string) ([]downloader.Task, error) {
	tasks := make([]downloader.Task, 0, len(v.Libraries))
	for _, l := range v.Libraries {
		if !Allowed(l.Rules, env) {
			continue
		}
		artifact, ok, err := l.Artifact(defaultBase)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", l.Name, err)
		}
		// legacy natives-only libraries have no main jar
		if ok && !l.NativesOnly() {
			tasks = append(tasks, libraryTask(artifact, librariesDir))
		}
		native, ok, err := l.Native(env, defaultBase)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", l.Name, err)
		}
		if ok {
			tasks = append(tasks, libraryTask(native, librariesDir))
		}
	}
	return tasks, nil
}

func libraryTask(d Download, librariesDir string) downloader.Task {
	return downloader.Task{
		Url:  d.Url,
		Path: filepath.Join(librariesDir, filepath.FromSlash(d.Path)),
		Sha1: d.Sha1,
		Size: d.Size,
	}
}

// ClientJarPath is versions/<id>/<id>.jar
func ClientJarPath(versionsDir, id string) string {
	return filepath.Join(versionsDir, id, id+".jar")
}

func ClientTask(v *VersionJson, versionsDir string) (downloader.Task, bool) {
	client, ok := v.Downloads["client"]
	if !ok {
		return downloader.Task{}, false
	}
	return downloader.Task{
		Url:  client.Url,
		Path: ClientJarPath(versionsDir, v.JarId()),
		Sha1: client.Sha1,
		Size: client.Size,
	}, true
}

func AssetIndexPath(assetsDir, id string) string {
	return filepath.Join(assetsDir, "indexes", id+".json")
}

func AssetIndexTask(v *VersionJson, assetsDir string) (downloader.Task, bool) {
	if v.AssetIndex == nil || v.AssetIndex.Url == "" {
		return downloader.Task{}, false
	}
	return downloader.Task{
		Url:  v.AssetIndex.Url,
		Path: AssetIndexPath(assetsDir, v.AssetIndex.Id),
		Sha1: v.AssetIndex.Sha1,
		Size: v.AssetIndex.Size,
	}, true
}

func AssetTasks(index *AssetIndex, assetsDir, resourcesBase string) []downloader.Task {
	if resourcesBase == "" {
		resourcesBase = DefaultResourcesUrl
	}
	resourcesBase = strings.TrimSuffix(resourcesBase, "/")
	tasks := make([]downloader.Task, 0, len(index.Objects))
	for _, o := range index.Objects {
		tasks = append(tasks, downloader.Task{
			Url:  resourcesBase + "/" + o.ObjectPath(),
			Path: filepath.Join(assetsDir, "objects", filepath.FromSlash(o.ObjectPath())),
			Sha1: o.Hash,
			Size: o.Size,
		})
	}
	return tasks
}
