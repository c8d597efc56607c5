package routes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"github.com/julienschmidt/httprouter"
	"github.com/mrmelon54/mc-launcher/database"
	"github.com/mrmelon54/mc-launcher/database/types"
	"github.com/mrmelon54/mc-launcher/launch"
	launcherProfile "github.com/mrmelon54/mc-launcher/launcher-profile"
	resolveVersions "github.com/mrmelon54/mc-launcher/resolve-versions"
	"io"
	"net/http"
	"strconv"
	"time"
)

type launchInfo struct {
	ID        int64            `json:"id"`
	Profile   string           `json:"profile"`
	Version   string           `json:"version"`
	Meta      types.LaunchMeta `json:"meta"`
	Pid       int64            `json:"pid"`
	StartedAt time.Time        `json:"started_at"`
	EndedAt   *time.Time       `json:"ended_at,omitempty"`
	ExitCode  *int64           `json:"exit_code,omitempty"`
	Running   bool             `json:"running"`
}

func (r routeCtx) toLaunchInfo(row database.Launch) launchInfo {
	info := launchInfo{
		ID:        row.ID,
		Profile:   row.Profile,
		Version:   row.Version,
		Meta:      row.Meta,
		Pid:       row.Pid,
		StartedAt: row.StartedAt,
	}
	if row.EndedAt.Valid {
		info.EndedAt = &row.EndedAt.Time
	}
	if row.ExitCode.Valid {
		info.ExitCode = &row.ExitCode.Int64
	}
	_, info.Running = r.launcher.Get(row.ID)
	return info
}

func (r routeCtx) launchPost(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	var launchReq launch.Request
	if err := json.NewDecoder(req.Body).Decode(&launchReq); err != nil && !errors.Is(err, io.EOF) {
		http.Error(rw, "Invalid launch request", http.StatusBadRequest)
		return
	}
	launchReq.ProfileKey = params.ByName("key")

	s, err := r.launcher.Launch(req.Context(), launchReq)
	switch {
	case err == nil:
	case errors.Is(err, launcherProfile.ErrProfileNotFound):
		http.Error(rw, "404 Not Found", http.StatusNotFound)
		return
	case errors.Is(err, launch.ErrNoAccount):
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, resolveVersions.ErrUnknownVersion), errors.Is(err, resolveVersions.ErrNoMatchingVersion):
		http.Error(rw, err.Error(), http.StatusUnprocessableEntity)
		return
	default:
		r.logger.Errorw("Failed to launch", "profile", launchReq.ProfileKey, "err", err)
		http.Error(rw, "Failed to launch", http.StatusInternalServerError)
		return
	}
	writeJson(rw, http.StatusCreated, s)
}

func (r routeCtx) launchesGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	var rows []database.Launch
	var err error
	if profile := req.URL.Query().Get("profile"); profile != "" {
		rows, err = r.db.ListProfileLaunches(req.Context(), profile)
	} else {
		rows, err = r.db.ListLaunches(req.Context())
	}
	if err != nil {
		r.logger.Errorw("Database Error", "err", err)
		http.Error(rw, "Database Error", http.StatusInternalServerError)
		return
	}
	a := make([]launchInfo, 0, len(rows))
	for _, i := range rows {
		a = append(a, r.toLaunchInfo(i))
	}
	writeJson(rw, http.StatusOK, a)
}

func parseLaunchId(params httprouter.Params) (int64, bool) {
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	return id, err == nil
}

func (r routeCtx) launchGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	id, ok := parseLaunchId(params)
	if !ok {
		http.Error(rw, "404 Not Found", http.StatusNotFound)
		return
	}
	row, err := r.db.GetLaunch(req.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(rw, "404 Not Found", http.StatusNotFound)
			return
		}
		r.logger.Errorw("Database Error", "err", err)
		http.Error(rw, "Database Error", http.StatusInternalServerError)
		return
	}
	writeJson(rw, http.StatusOK, r.toLaunchInfo(row))
}

func (r routeCtx) launchKill(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	id, ok := parseLaunchId(params)
	if !ok {
		http.Error(rw, "404 Not Found", http.StatusNotFound)
		return
	}
	if err := r.launcher.Kill(id); err != nil {
		if errors.Is(err, launch.ErrNotRunning) {
			http.Error(rw, err.Error(), http.StatusConflict)
			return
		}
		r.logger.Errorw("Failed to kill launch", "id", id, "err", err)
		http.Error(rw, "Failed to kill launch", http.StatusInternalServerError)
		return
	}
	http.Error(rw, "OK", http.StatusOK)
}
