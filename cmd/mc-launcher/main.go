package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	exitReload "github.com/mrmelon54/exit-reload"
	"github.com/mrmelon54/mc-launcher"
	"github.com/mrmelon54/mc-launcher/cmd/mc-launcher/routes"
	"github.com/mrmelon54/mc-launcher/database"
	"github.com/mrmelon54/mc-launcher/downloader"
	"github.com/mrmelon54/mc-launcher/launch"
	launcherProfile "github.com/mrmelon54/mc-launcher/launcher-profile"
	"github.com/mrmelon54/mc-launcher/modrinth"
	resolveVersions "github.com/mrmelon54/mc-launcher/resolve-versions"
	versionJson "github.com/mrmelon54/mc-launcher/version-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

func main() {
	var configYmlPath string

	flag.StringVar(&configYmlPath, "conf", "", "Path to the config file")
	flag.Parse()

	var configYml = new(atomic.Pointer[mc_launcher.Config])
	if err := loadConfig[mc_launcher.Config](configYml, configYmlPath); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}
	conf := configYml.Load()

	logger, err := newLogger(conf.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialise logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()
	sugar.Info("Starting up MC Launcher")

	if conf.GameDir == "" {
		conf.GameDir = filepath.Join(filepath.Dir(configYmlPath), "minecraft")
	}
	opts := launch.DefaultOptions(conf.GameDir)
	for _, dir := range []string{opts.GameDir, opts.VersionsDir, opts.LibrariesDir, opts.AssetsDir, conf.ModsDir("")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			sugar.Fatalw("Failed to create game directory", "dir", dir, "err", err)
		}
	}
	if conf.JavaPath != "" {
		opts.JavaPath = conf.JavaPath
	}
	if conf.LauncherName != "" {
		opts.LauncherName = conf.LauncherName
	}
	if conf.LauncherVersion != "" {
		opts.LauncherVersion = conf.LauncherVersion
	}
	if conf.Downloads.LibrariesUrl != "" {
		opts.LibrariesUrl = conf.Downloads.LibrariesUrl
	}
	if conf.Downloads.ResourcesUrl != "" {
		opts.ResourcesUrl = conf.Downloads.ResourcesUrl
	}

	db, err := database.Open(conf.DatabasePath())
	if err != nil {
		sugar.Fatalw("Failed to open database", "err", err)
	}
	queries := database.New(db)

	profiles, err := launcherProfile.NewStore(conf.ProfilesPath())
	if err != nil {
		sugar.Fatalw("Failed to load launcher profiles", "path", conf.ProfilesPath(), "err", err)
	}

	client := &http.Client{Timeout: conf.Downloads.Timeout}
	mcVersions := resolveVersions.NewMcVersionCache(client, conf.Downloads.ManifestUrl, sugar.Named("versions"))
	dl := downloader.New(client, conf.Downloads.Concurrency, sugar.Named("downloader"))
	versionStore := versionJson.NewStore(opts.VersionsDir, mcVersions, dl)
	mr := modrinth.NewModrinth(conf.Modrinth, client)
	launcher := launch.New(opts, profiles, mcVersions, versionStore, dl, queries, sugar.Named("launch"))
	if err := launcher.Recover(context.Background()); err != nil {
		sugar.Fatalw("Failed to recover launch history", "err", err)
	}
	launcher.OnClose = func() {
		if !configYml.Load().ExitOnGameStart {
			return
		}
		sugar.Info("Game started, closing launcher")
		if p, err := os.FindProcess(os.Getpid()); err == nil {
			if err := p.Signal(os.Interrupt); err != nil {
				sugar.Warnw("Failed to close launcher", "err", err)
			}
		}
	}

	srv := &http.Server{
		Addr:              conf.Listen,
		Handler:           routes.Router(configYml, queries, profiles, mcVersions, launcher, mr, dl, sugar.Named("routes")),
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: time.Minute,
		WriteTimeout:      15 * time.Minute,
		IdleTimeout:       time.Minute,
		MaxHeaderBytes:    5000,
	}
	go func() {
		sugar.Infow("Serving HTTP", "listen", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Errorw("Serve HTTP Error", "err", err)
		}
	}()

	exitReload.ExitReload("MC Launcher", func() {
		next := new(atomic.Pointer[mc_launcher.Config])
		if err := loadConfig[mc_launcher.Config](next, configYmlPath); err != nil {
			sugar.Errorw("Failed to load config", "err", err)
			return
		}
		// the game directory cannot move while running
		c := next.Load()
		c.GameDir = conf.GameDir
		configYml.Store(c)
		if err := profiles.Reload(); err != nil {
			sugar.Errorw("Failed to reload launcher profiles", "err", err)
		}
	}, func() {
		if err := srv.Close(); err != nil {
			sugar.Error(err)
		}
		if err := db.Close(); err != nil {
			sugar.Error(err)
		}
	})
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
		return z.Build()
	}
	return zap.NewProduction()
}

func loadConfig[T any](ptr *atomic.Pointer[T], p string) error {
	var c T
	file, err := os.Open(p)
	if err != nil {
		return err
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	err = decoder.Decode(&c)
	if err != nil {
		return err
	}
	ptr.Store(&c)
	return nil
}
