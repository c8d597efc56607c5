package launch

import (
	"context"
	"fmt"
	"github.com/mrmelon54/mc-launcher/downloader"
	versionJson "github.com/mrmelon54/mc-launcher/version-json"
	"io"
	"os"
	"path/filepath"
)

// installAssets downloads the asset index and its objects. Virtual and
// resource mapped indexes are also copied to the names the game reads.
func (l *Launcher) installAssets(ctx context.Context, v *versionJson.VersionJson, gameDir string) (*versionJson.AssetIndex, error) {
	task, ok := versionJson.AssetIndexTask(v, l.opts.AssetsDir)
	if !ok {
		return nil, nil
	}
	if _, err := l.dl.FetchAll(ctx, []downloader.Task{task}); err != nil {
		return nil, fmt.Errorf("asset index: %w", err)
	}
	index, err := versionJson.LoadAssetIndex(task.Path)
	if err != nil {
		return nil, err
	}
	stats, err := l.dl.FetchAll(ctx, versionJson.AssetTasks(index, l.opts.AssetsDir, l.opts.ResourcesUrl))
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	l.logger.Debugw("Assets ready", "index", v.AssetsId(), "downloaded", stats.Downloaded, "skipped", stats.Skipped)

	if !index.Virtual && !index.MapToResources {
		return index, nil
	}
	dest := l.opts.GameAssetsDir(index, v.AssetsId(), gameDir)
	for name, o := range index.Objects {
		src := filepath.Join(l.opts.AssetsDir, "objects", filepath.FromSlash(o.ObjectPath()))
		if err := copyAsset(src, filepath.Join(dest, filepath.FromSlash(name)), o.Size); err != nil {
			return nil, fmt.Errorf("copy asset %s: %w", name, err)
		}
	}
	return index, nil
}

func copyAsset(src, dst string, size int64) error {
	if stat, err := os.Stat(dst); err == nil && stat.Size() == size {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
