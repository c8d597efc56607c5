package routes

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"github.com/Masterminds/semver/v3"
	"github.com/julienschmidt/httprouter"
	"github.com/mrmelon54/mc-launcher"
	"github.com/mrmelon54/mc-launcher/database"
	"github.com/mrmelon54/mc-launcher/downloader"
	"github.com/mrmelon54/mc-launcher/launch"
	launcherProfile "github.com/mrmelon54/mc-launcher/launcher-profile"
	"github.com/mrmelon54/mc-launcher/modrinth"
	resolveVersions "github.com/mrmelon54/mc-launcher/resolve-versions"
	"go.uber.org/zap"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
)

type versionProvider interface {
	List(types []launcherProfile.VersionType) ([]resolveVersions.ManifestVersion, error)
	ResolveProfileVersion(p launcherProfile.LaunchProfile) (string, error)
	MatchingConstraints(c *semver.Constraints) []string
}

type fetcher interface {
	Fetch(ctx context.Context, t downloader.Task) error
}

type routeCtx struct {
	conf       *atomic.Pointer[mc_launcher.Config]
	db         *database.Queries
	profiles   *launcherProfile.Store
	mcVersions versionProvider
	launcher   *launch.Launcher
	modrinth   *modrinth.Modrinth
	dl         fetcher
	logger     *zap.SugaredLogger

	// serversMu serialises read-modify-write of servers.dat
	serversMu *sync.Mutex
}

func Router(conf *atomic.Pointer[mc_launcher.Config], db *database.Queries, profiles *launcherProfile.Store, mcVersions versionProvider, launcher *launch.Launcher, mr *modrinth.Modrinth, dl fetcher, logger *zap.SugaredLogger) http.Handler {
	base := routeCtx{conf, db, profiles, mcVersions, launcher, mr, dl, logger, new(sync.Mutex)}

	r := httprouter.New()
	r.GET("/summary", base.summaryGet)
	r.GET("/profiles", base.profilesGet)
	r.GET("/profiles/:key", base.profileGet)
	r.PUT("/profiles/:key", base.auth(base.profilePut))
	r.DELETE("/profiles/:key", base.auth(base.profileDelete))
	r.POST("/profiles/:key/select", base.auth(base.profileSelect))
	r.GET("/profiles/:key/mods", base.profileModsGet)
	r.POST("/profiles/:key/mods/modrinth/:project", base.auth(base.profileModsInstall))
	r.POST("/profiles/:key/launch", base.auth(base.launchPost))
	r.GET("/launches", base.launchesGet)
	r.GET("/launches/:id", base.launchGet)
	r.POST("/launches/:id/kill", base.auth(base.launchKill))
	r.GET("/versions", base.versionsGet)
	r.GET("/servers", base.serversGet)
	r.PUT("/servers", base.auth(base.serversPut))
	return r
}

func getBearer(req *http.Request) (string, bool) {
	auth := req.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return auth[len("Bearer "):], true
}

// auth rejects requests without the configured bearer token
func (r routeCtx) auth(next httprouter.Handle) httprouter.Handle {
	return func(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
		token := r.conf.Load().Token
		bearer, ok := getBearer(req)
		if !ok || token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(bearer)) != 1 {
			http.Error(rw, "403 Forbidden", http.StatusForbidden)
			return
		}
		next(rw, req, params)
	}
}

func writeJson(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
