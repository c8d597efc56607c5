package routes

import (
	"encoding/json"
	"github.com/julienschmidt/httprouter"
	serverList "github.com/mrmelon54/mc-launcher/server-list"
	"net/http"
)

func (r routeCtx) serversGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	r.serversMu.Lock()
	defer r.serversMu.Unlock()
	list, err := serverList.Load(r.conf.Load().ServersPath())
	if err != nil {
		r.logger.Errorw("Failed to read server list", "err", err)
		http.Error(rw, "Failed to read server list", http.StatusInternalServerError)
		return
	}
	writeJson(rw, http.StatusOK, list.Servers)
}

func (r routeCtx) serversPut(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	var servers []serverList.Server
	if err := json.NewDecoder(req.Body).Decode(&servers); err != nil {
		http.Error(rw, "Invalid server list", http.StatusBadRequest)
		return
	}
	r.serversMu.Lock()
	defer r.serversMu.Unlock()
	p := r.conf.Load().ServersPath()
	list, err := serverList.Load(p)
	if err != nil {
		r.logger.Errorw("Failed to read server list", "err", err)
		http.Error(rw, "Failed to read server list", http.StatusInternalServerError)
		return
	}
	list.Replace(servers)
	if err := list.Save(p); err != nil {
		r.logger.Errorw("Failed to save server list", "err", err)
		http.Error(rw, "Failed to save server list", http.StatusInternalServerError)
		return
	}
	writeJson(rw, http.StatusOK, list.Servers)
}
