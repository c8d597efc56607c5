package routes

import (
	"encoding/json"
	"errors"
	"github.com/julienschmidt/httprouter"
	launcherProfile "github.com/mrmelon54/mc-launcher/launcher-profile"
	"net/http"
)

func (r routeCtx) profilesGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	writeJson(rw, http.StatusOK, r.profiles.Profiles())
}

func (r routeCtx) profileGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	profile, ok := r.profiles.Profile(params.ByName("key"))
	if !ok {
		http.Error(rw, "404 Not Found", http.StatusNotFound)
		return
	}
	writeJson(rw, http.StatusOK, profile)
}

func (r routeCtx) profilePut(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	key := params.ByName("key")
	var profile launcherProfile.LaunchProfile
	if err := json.NewDecoder(req.Body).Decode(&profile); err != nil {
		http.Error(rw, "Invalid profile", http.StatusBadRequest)
		return
	}
	if err := profile.Validate(); err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.profiles.PutProfile(key, profile); err != nil {
		r.logger.Errorw("Failed to save profile", "key", key, "err", err)
		http.Error(rw, "Failed to save profile", http.StatusInternalServerError)
		return
	}
	stored, _ := r.profiles.Profile(key)
	writeJson(rw, http.StatusOK, stored)
}

func (r routeCtx) profileDelete(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	key := params.ByName("key")
	if err := r.profiles.DeleteProfile(key); err != nil {
		if errors.Is(err, launcherProfile.ErrProfileNotFound) {
			http.Error(rw, "404 Not Found", http.StatusNotFound)
			return
		}
		r.logger.Errorw("Failed to delete profile", "key", key, "err", err)
		http.Error(rw, "Failed to delete profile", http.StatusInternalServerError)
		return
	}
	http.Error(rw, "OK", http.StatusOK)
}

func (r routeCtx) profileSelect(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	key := params.ByName("key")
	if err := r.profiles.SelectProfile(key); err != nil {
		if errors.Is(err, launcherProfile.ErrProfileNotFound) {
			http.Error(rw, "404 Not Found", http.StatusNotFound)
			return
		}
		r.logger.Errorw("Failed to select profile", "key", key, "err", err)
		http.Error(rw, "Failed to select profile", http.StatusInternalServerError)
		return
	}
	http.Error(rw, "OK", http.StatusOK)
}
