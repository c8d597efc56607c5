package routes

import (
	"encoding/json"
	"errors"
	"github.com/julienschmidt/httprouter"
	jarParser "github.com/mrmelon54/mc-launcher/jar-parser"
	"github.com/mrmelon54/mc-launcher/modrinth"
	resolveVersions "github.com/mrmelon54/mc-launcher/resolve-versions"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

type modInfo struct {
	Filename     string   `json:"filename"`
	Id           string   `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Version      string   `json:"version,omitempty"`
	Loaders      []string `json:"loaders,omitempty"`
	Environment  string   `json:"environment,omitempty"`
	GameVersions []string `json:"game_versions,omitempty"`
	Compatible   *bool    `json:"compatible,omitempty"`
	Error        string   `json:"error,omitempty"`
}

func (r routeCtx) profileModsGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	profile, ok := r.profiles.Profile(params.ByName("key"))
	if !ok {
		http.Error(rw, "404 Not Found", http.StatusNotFound)
		return
	}
	mods, err := jarParser.ScanMods(r.conf.Load().ModsDir(profile.GetGameDir()))
	if err != nil {
		r.logger.Errorw("Failed to scan mods", "err", err)
		http.Error(rw, "Failed to scan mods", http.StatusInternalServerError)
		return
	}
	// an unresolvable version only disables the compatibility check
	gameVersion, _ := r.mcVersions.ResolveProfileVersion(profile)

	a := make([]modInfo, 0, len(mods))
	for _, i := range mods {
		info := modInfo{Filename: i.Filename}
		if i.Err != nil {
			info.Error = i.Err.Error()
			a = append(a, info)
			continue
		}
		info.Id = i.Meta.Id
		info.Name = i.Meta.Name
		info.Version = i.Meta.Version
		info.Loaders = i.Meta.Loaders
		info.Environment = i.Meta.Environment
		info.GameVersions = resolveVersions.ResolveGameVersions(i.Meta.GameVersions, r.mcVersions)
		if gameVersion != "" {
			compatible := i.Meta.Compatible(gameVersion)
			info.Compatible = &compatible
		}
		a = append(a, info)
	}
	writeJson(rw, http.StatusOK, a)
}

type modInstallRequest struct {
	Loader      string `json:"loader"`
	GameVersion string `json:"game_version,omitempty"`
}

type modInstalled struct {
	Filename string           `json:"filename"`
	Version  modrinth.Version `json:"version"`
}

// profileModsInstall downloads the newest Modrinth version of a project into
// the profile's mods folder. The game version defaults to the profile's.
func (r routeCtx) profileModsInstall(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	profile, ok := r.profiles.Profile(params.ByName("key"))
	if !ok {
		http.Error(rw, "404 Not Found", http.StatusNotFound)
		return
	}
	var installReq modInstallRequest
	if err := json.NewDecoder(req.Body).Decode(&installReq); err != nil && !errors.Is(err, io.EOF) {
		http.Error(rw, "Invalid install request", http.StatusBadRequest)
		return
	}
	if installReq.GameVersion == "" {
		gameVersion, err := r.mcVersions.ResolveProfileVersion(profile)
		if err != nil {
			http.Error(rw, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		installReq.GameVersion = gameVersion
	}

	modsDir := r.conf.Load().ModsDir(profile.GetGameDir())
	v, task, err := r.modrinth.InstallTask(req.Context(), params.ByName("project"), installReq.GameVersion, installReq.Loader, modsDir)
	switch {
	case err == nil:
	case errors.Is(err, modrinth.ErrMissingInput):
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, modrinth.ErrNoVersion), errors.Is(err, modrinth.ErrNoFile), errors.Is(err, modrinth.ErrInvalidFile):
		http.Error(rw, err.Error(), http.StatusNotFound)
		return
	default:
		r.logger.Errorw("Failed to query modrinth", "project", params.ByName("project"), "err", err)
		http.Error(rw, "Failed to query modrinth", http.StatusBadGateway)
		return
	}

	if err := os.MkdirAll(modsDir, 0755); err != nil {
		r.logger.Errorw("Failed to create mods folder", "err", err)
		http.Error(rw, "Failed to create mods folder", http.StatusInternalServerError)
		return
	}
	if err := r.dl.Fetch(req.Context(), task); err != nil {
		r.logger.Errorw("Failed to download mod", "url", task.Url, "err", err)
		http.Error(rw, "Failed to download mod", http.StatusBadGateway)
		return
	}
	writeJson(rw, http.StatusCreated, modInstalled{Filename: filepath.Base(task.Path), Version: v})
}
