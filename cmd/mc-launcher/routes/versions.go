package routes

import (
	"github.com/julienschmidt/httprouter"
	launcherProfile "github.com/mrmelon54/mc-launcher/launcher-profile"
	"net/http"
	"strings"
)

func (r routeCtx) versionsGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	var types []launcherProfile.VersionType
	if q := req.URL.Query().Get("type"); q != "" {
		for _, i := range strings.Split(q, ",") {
			t := launcherProfile.VersionType(strings.TrimSpace(i))
			if !t.Valid() {
				http.Error(rw, "Invalid version type", http.StatusBadRequest)
				return
			}
			types = append(types, t)
		}
	}
	versions, err := r.mcVersions.List(types)
	if err != nil {
		r.logger.Errorw("Failed to list versions", "err", err)
		http.Error(rw, "Failed to load version manifest", http.StatusBadGateway)
		return
	}
	writeJson(rw, http.StatusOK, versions)
}
