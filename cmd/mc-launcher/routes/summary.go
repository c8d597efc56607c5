package routes

import (
	"github.com/julienschmidt/httprouter"
	"net/http"
)

type summary struct {
	LauncherName    string `json:"launcher_name"`
	LauncherVersion string `json:"launcher_version"`
	SelectedProfile string `json:"selected_profile,omitempty"`
	Profiles        int    `json:"profiles"`
	Running         int    `json:"running"`
}

func (r routeCtx) summaryGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	selected, _, _ := r.profiles.SelectedProfile()
	writeJson(rw, http.StatusOK, summary{
		LauncherName:    r.launcher.Name(),
		LauncherVersion: r.launcher.Version(),
		SelectedProfile: selected,
		Profiles:        len(r.profiles.ProfileKeys()),
		Running:         len(r.launcher.Running()),
	})
}
