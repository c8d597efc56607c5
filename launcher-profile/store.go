package launcher_profile

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrMissingName     = errors.New("profile name is required")
)

// Store guards a LauncherProfile and writes it back to disk after every change.
type Store struct {
	path string
	mu   *sync.RWMutex
	lp   *LauncherProfile
	now  func() time.Time
}

func NewStore(p string) (*Store, error) {
	lp, err := LoadOrCreate(p)
	if err != nil {
		return nil, err
	}
	return &Store{path: p, mu: new(sync.RWMutex), lp: lp, now: time.Now}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) ClientToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lp.ClientToken.String()
}

// Reload discards the in-memory state and reads the file again.
func (s *Store) Reload() error {
	lp, err := LoadOrCreate(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lp = lp
	s.mu.Unlock()
	return nil
}

func (s *Store) Profile(key string) (LaunchProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.lp.Profiles[key]
	return p, ok
}

// Profiles returns a copy of the profiles map
func (s *Store) Profiles() map[string]LaunchProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a := make(map[string]LaunchProfile, len(s.lp.Profiles))
	for k, v := range s.lp.Profiles {
		a[k] = v
	}
	return a
}

func (s *Store) ProfileKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a := make([]string, 0, len(s.lp.Profiles))
	for k := range s.lp.Profiles {
		a = append(a, k)
	}
	sort.Strings(a)
	return a
}

// update applies fn to a copy of the profile file and only keeps the copy
// once it has been written, so a failed save leaves the store unchanged.
func (s *Store) update(fn func(lp *LauncherProfile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.lp.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := next.Save(s.path); err != nil {
		return err
	}
	s.lp = next
	return nil
}

// PutProfile creates or replaces a profile. New profiles get a created time.
func (s *Store) PutProfile(key string, p LaunchProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.update(func(lp *LauncherProfile) error {
		if old, ok := lp.Profiles[key]; ok && p.Created == nil {
			p.Created = old.Created
		}
		if p.Created == nil {
			t := s.now().UTC()
			p.Created = &t
		}
		lp.Profiles[key] = p
		return nil
	})
}

func (s *Store) DeleteProfile(key string) error {
	return s.update(func(lp *LauncherProfile) error {
		if _, ok := lp.Profiles[key]; !ok {
			return ErrProfileNotFound
		}
		delete(lp.Profiles, key)
		if lp.SelectedProfile == key {
			lp.SelectedProfile = ""
		}
		return nil
	})
}

func (s *Store) SelectProfile(key string) error {
	return s.update(func(lp *LauncherProfile) error {
		if _, ok := lp.Profiles[key]; !ok {
			return ErrProfileNotFound
		}
		lp.SelectedProfile = key
		return nil
	})
}

// SelectedProfile returns the selected profile key and the profile itself.
func (s *Store) SelectedProfile() (string, LaunchProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.lp.Profiles[s.lp.SelectedProfile]
	return s.lp.SelectedProfile, p, ok
}

// MarkUsed stamps lastUsed on the profile.
func (s *Store) MarkUsed(key string) error {
	return s.update(func(lp *LauncherProfile) error {
		p, ok := lp.Profiles[key]
		if !ok {
			return ErrProfileNotFound
		}
		t := s.now().UTC()
		p.LastUsed = &t
		lp.Profiles[key] = p
		return nil
	})
}

func (s *Store) PutUser(key string, entry AuthenticationDatabaseEntry) error {
	return s.update(func(lp *LauncherProfile) error {
		lp.AuthenticationDatabase[key] = entry
		if lp.SelectedUser == "" {
			lp.SelectedUser = key
		}
		return nil
	})
}

func (s *Store) DeleteUser(key string) error {
	return s.update(func(lp *LauncherProfile) error {
		if _, ok := lp.AuthenticationDatabase[key]; !ok {
			return ErrUserNotFound
		}
		delete(lp.AuthenticationDatabase, key)
		if lp.SelectedUser == key {
			lp.SelectedUser = ""
		}
		return nil
	})
}

func (s *Store) SelectUser(key string) error {
	return s.update(func(lp *LauncherProfile) error {
		if _, ok := lp.AuthenticationDatabase[key]; !ok {
			return ErrUserNotFound
		}
		lp.SelectedUser = key
		return nil
	})
}

func (s *Store) SelectedUser() (AuthenticationDatabaseEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.lp.AuthenticationDatabase[s.lp.SelectedUser]
	return u, ok
}
