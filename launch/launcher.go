package launch

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/mrmelon54/mc-launcher/database"
	"github.com/mrmelon54/mc-launcher/database/types"
	"github.com/mrmelon54/mc-launcher/downloader"
	launcherProfile "github.com/mrmelon54/mc-launcher/launcher-profile"
	"github.com/mrmelon54/mc-launcher/natives"
	versionJson "github.com/mrmelon54/mc-launcher/version-json"
	"go.uber.org/zap"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

var (
	ErrNoAccount  = errors.New("no user selected and no username given")
	ErrNotRunning = errors.New("launch is not running")
)

type versionResolver interface {
	ResolveProfileVersion(p launcherProfile.LaunchProfile) (string, error)
}

type versionSource interface {
	Resolve(ctx context.Context, id string) (*versionJson.VersionJson, error)
}

type fetcher interface {
	FetchAll(ctx context.Context, tasks []downloader.Task) (downloader.Stats, error)
}

// Request starts the profile ProfileKey, or the selected profile when empty.
// Username is only used when no user is selected.
type Request struct {
	ProfileKey string `json:"profile,omitempty"`
	Username   string `json:"username,omitempty"`
}

// Session is a running or finished game process.
type Session struct {
	ID        int64     `json:"id"`
	PID       int       `json:"pid"`
	Profile   string    `json:"profile"`
	Version   string    `json:"version"`
	StartedAt time.Time `json:"started_at"`

	cmd      *exec.Cmd
	done     chan struct{}
	exitCode int
}

// Done is closed once the process has exited and the launch is recorded.
func (s *Session) Done() <-chan struct{} { return s.done }

// ExitCode is only valid after Done is closed.
func (s *Session) ExitCode() int { return s.exitCode }

type Launcher struct {
	opts     Options
	profiles *launcherProfile.Store
	resolver versionResolver
	versions versionSource
	dl       fetcher
	db       *database.Queries
	logger   *zap.SugaredLogger

	// OnClose is called after starting a profile set to close the launcher
	OnClose func()

	mu      *sync.Mutex
	running map[int64]*Session
}

func New(opts Options, profiles *launcherProfile.Store, resolver versionResolver, versions versionSource, dl fetcher, db *database.Queries, logger *zap.SugaredLogger) *Launcher {
	return &Launcher{
		opts:     opts,
		profiles: profiles,
		resolver: resolver,
		versions: versions,
		dl:       dl,
		db:       db,
		logger:   logger,
		mu:       new(sync.Mutex),
		running:  make(map[int64]*Session),
	}
}

// Name is the launcher name passed to the game.
func (l *Launcher) Name() string { return l.opts.launcherName() }

// Version is the launcher version passed to the game.
func (l *Launcher) Version() string { return l.opts.launcherVersion() }

// Recover marks launches left open by a previous run as finished.
func (l *Launcher) Recover(ctx context.Context) error {
	n, err := l.db.CloseAbandonedLaunches(ctx, sql.NullTime{Time: time.Now().UTC(), Valid: true})
	if err != nil {
		return err
	}
	if n > 0 {
		l.logger.Infow("Closed abandoned launches", "count", n)
	}
	return nil
}

func (l *Launcher) account(username string) (Account, error) {
	if entry, ok := l.profiles.SelectedUser(); ok {
		return AccountFromEntry(entry), nil
	}
	if username == "" {
		return Account{}, ErrNoAccount
	}
	return OfflineAccount(username), nil
}

func (l *Launcher) Launch(ctx context.Context, req Request) (*Session, error) {
	key := req.ProfileKey
	var profile launcherProfile.LaunchProfile
	if key == "" {
		var ok bool
		key, profile, ok = l.profiles.SelectedProfile()
		if !ok {
			return nil, launcherProfile.ErrProfileNotFound
		}
	} else {
		var ok bool
		profile, ok = l.profiles.Profile(key)
		if !ok {
			return nil, launcherProfile.ErrProfileNotFound
		}
	}
	account, err := l.account(req.Username)
	if err != nil {
		return nil, err
	}

	versionId, err := l.resolver.ResolveProfileVersion(profile)
	if err != nil {
		return nil, fmt.Errorf("resolve version: %w", err)
	}
	v, err := l.versions.Resolve(ctx, versionId)
	if err != nil {
		return nil, err
	}

	gameDir := profile.GetGameDir()
	if gameDir == "" {
		gameDir = l.opts.GameDir
	}
	if err := os.MkdirAll(gameDir, 0755); err != nil {
		return nil, err
	}

	logger := l.logger.With("profile", key, "version", v.Id)
	logger.Infow("Preparing launch", "user", account.Name, "offline", account.Offline)

	tasks, err := versionJson.LibraryTasks(v, l.opts.Env, l.opts.LibrariesDir, l.opts.LibrariesUrl)
	if err != nil {
		return nil, err
	}
	if client, ok := versionJson.ClientTask(v, l.opts.VersionsDir); ok {
		tasks = append(tasks, client)
	}
	loggingConfig := ""
	if v.Logging != nil && v.Logging.Client != nil && v.Logging.Client.File.Url != "" {
		f := v.Logging.Client.File
		loggingConfig = filepath.Join(l.opts.AssetsDir, "log_configs", f.Id)
		tasks = append(tasks, downloader.Task{Url: f.Url, Path: loggingConfig, Sha1: f.Sha1, Size: f.Size})
	}
	stats, err := l.dl.FetchAll(ctx, tasks)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	logger.Debugw("Libraries ready", "downloaded", stats.Downloaded, "skipped", stats.Skipped, "bytes", stats.Bytes)

	index, err := l.installAssets(ctx, v, gameDir)
	if err != nil {
		return nil, err
	}

	classpath, err := l.opts.Classpath(v)
	if err != nil {
		return nil, err
	}

	nativesParent := filepath.Join(l.opts.VersionsDir, v.Id)
	if err := os.MkdirAll(nativesParent, 0755); err != nil {
		return nil, err
	}
	nativesDir, err := os.MkdirTemp(nativesParent, "natives-")
	if err != nil {
		return nil, err
	}
	if _, err := natives.ExtractAll(v, l.opts.Env, l.opts.LibrariesDir, nativesDir); err != nil {
		_ = os.RemoveAll(nativesDir)
		return nil, err
	}

	cmdLine := l.opts.BuildArguments(Inputs{
		Version:       v,
		Account:       account,
		JavaArgs:      profile.GetJavaArgs(),
		GameDir:       gameDir,
		NativesDir:    nativesDir,
		Classpath:     classpath,
		ClientId:      l.profiles.ClientToken(),
		LoggingConfig: loggingConfig,
	}, l.opts.GameAssetsDir(index, v.AssetsId(), gameDir))

	javaPath := profile.GetJavaDir()
	if javaPath == "" {
		javaPath = l.opts.javaPath()
	}

	startedAt := time.Now().UTC()
	id, err := l.db.CreateLaunch(ctx, database.CreateLaunchParams{
		Profile: key,
		Version: v.Id,
		Meta: types.LaunchMeta{
			Username:    account.Name,
			Offline:     account.Offline,
			JavaPath:    javaPath,
			JvmArgs:     len(cmdLine.Jvm),
			NativesDir:  nativesDir,
			GameDir:     gameDir,
			MainClass:   v.MainClass,
			Classpath:   len(classpath),
			AssetsIndex: v.AssetsId(),
		},
		StartedAt: startedAt,
	})
	if err != nil {
		_ = os.RemoveAll(nativesDir)
		return nil, fmt.Errorf("record launch: %w", err)
	}

	cmd := exec.Command(javaPath, cmdLine.Args()...)
	cmd.Dir = gameDir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		l.abort(id, nativesDir)
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		l.abort(id, nativesDir)
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		l.abort(id, nativesDir)
		return nil, fmt.Errorf("start java: %w", err)
	}

	s := &Session{
		ID:        id,
		PID:       cmd.Process.Pid,
		Profile:   key,
		Version:   v.Id,
		StartedAt: startedAt,
		cmd:       cmd,
		done:      make(chan struct{}),
	}
	if err := l.db.SetLaunchPid(ctx, database.SetLaunchPidParams{Pid: int64(s.PID), ID: id}); err != nil {
		logger.Warnw("Failed to record pid", "id", id, "err", err)
	}

	l.mu.Lock()
	l.running[id] = s
	l.mu.Unlock()

	logger = logger.With("id", id, "pid", s.PID)
	logger.Infow("Game started")

	pipes := new(sync.WaitGroup)
	pipes.Add(2)
	go l.pipeOutput(pipes, stdout, logger.Infow)
	go l.pipeOutput(pipes, stderr, logger.Warnw)
	go l.wait(s, pipes, nativesDir, logger)

	if err := l.profiles.MarkUsed(key); err != nil {
		logger.Warnw("Failed to mark profile used", "err", err)
	}
	if profile.GetLauncherVisibilityOnGameClose() == launcherProfile.CloseOnGameStart && l.OnClose != nil {
		l.OnClose()
	}
	return s, nil
}

func (l *Launcher) pipeOutput(wg *sync.WaitGroup, r io.Reader, log func(msg string, keysAndValues ...interface{})) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log(scanner.Text())
	}
}

func (l *Launcher) wait(s *Session, pipes *sync.WaitGroup, nativesDir string, logger *zap.SugaredLogger) {
	pipes.Wait()
	err := s.cmd.Wait()
	s.exitCode = s.cmd.ProcessState.ExitCode()
	if err != nil && s.exitCode == 0 {
		s.exitCode = -1
	}
	logger.Infow("Game exited", "code", s.exitCode)

	if err := l.db.FinishLaunch(context.Background(), database.FinishLaunchParams{
		EndedAt:  sql.NullTime{Time: time.Now().UTC(), Valid: true},
		ExitCode: sql.NullInt64{Int64: int64(s.exitCode), Valid: true},
		ID:       s.ID,
	}); err != nil {
		logger.Errorw("Failed to record exit", "err", err)
	}
	if err := os.RemoveAll(nativesDir); err != nil {
		logger.Warnw("Failed to remove natives", "dir", nativesDir, "err", err)
	}

	l.mu.Lock()
	delete(l.running, s.ID)
	l.mu.Unlock()
	close(s.done)
}

// abort finishes a launch row for a process that never started
func (l *Launcher) abort(id int64, nativesDir string) {
	_ = os.RemoveAll(nativesDir)
	err := l.db.FinishLaunch(context.Background(), database.FinishLaunchParams{
		EndedAt:  sql.NullTime{Time: time.Now().UTC(), Valid: true},
		ExitCode: sql.NullInt64{Int64: -1, Valid: true},
		ID:       id,
	})
	if err != nil {
		l.logger.Errorw("Failed to record aborted launch", "id", id, "err", err)
	}
}

func (l *Launcher) Kill(id int64) error {
	l.mu.Lock()
	s, ok := l.running[id]
	l.mu.Unlock()
	if !ok {
		return ErrNotRunning
	}
	// the process can exit before wait removes it from running
	if err := s.cmd.Process.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return ErrNotRunning
		}
		return err
	}
	return nil
}

// Running lists the sessions that have not exited yet, oldest first.
func (l *Launcher) Running() []*Session {
	l.mu.Lock()
	a := make([]*Session, 0, len(l.running))
	for _, s := range l.running {
		a = append(a, s)
	}
	l.mu.Unlock()
	sort.Slice(a, func(i, j int) bool { return a[i].ID < a[j].ID })
	return a
}

func (l *Launcher) Get(id int64) (*Session, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.running[id]
	return s, ok
}
