package launcher_profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"os"
	"path/filepath"
)

// LauncherProfile is the contents of launcher_profiles.json as written by the
// Mojang java launcher 1.6.89-j (format 21, profilesFormat 1).
type LauncherProfile struct {
	ClientToken            uuid.UUID                              `json:"clientToken"`
	SelectedUser           string                                 `json:"selectedUser,omitempty"`
	SelectedProfile        string                                 `json:"selectedProfile,omitempty"`
	Profiles               map[string]LaunchProfile               `json:"profiles"`
	AuthenticationDatabase map[string]AuthenticationDatabaseEntry `json:"authenticationDatabase"`
	LauncherVersion        Version                                `json:"launcherVersion"`
}

type Version struct {
	Name           string `json:"name"`
	Format         int    `json:"format"`
	ProfilesFormat int    `json:"profilesFormat"`
}

var DefaultVersion = Version{
	Name:           "1.6.89-j",
	Format:         21,
	ProfilesFormat: 1,
}

type AuthenticationDatabaseEntry struct {
	DisplayName string    `json:"displayName"`
	AccessToken string    `json:"accessToken,omitempty"`
	UserId      string    `json:"userid"`
	Uuid        uuid.UUID `json:"uuid"`
	Username    string    `json:"username"`
}

func New() *LauncherProfile {
	return &LauncherProfile{
		ClientToken:            uuid.New(),
		Profiles:               make(map[string]LaunchProfile),
		AuthenticationDatabase: make(map[string]AuthenticationDatabaseEntry),
		LauncherVersion:        DefaultVersion,
	}
}

// clone copies the profile and auth maps. Map values are replaced, never
// changed in place, so a shallow copy of each entry is enough.
func (l *LauncherProfile) clone() *LauncherProfile {
	c := *l
	c.Profiles = make(map[string]LaunchProfile, len(l.Profiles))
	for k, v := range l.Profiles {
		c.Profiles[k] = v
	}
	c.AuthenticationDatabase = make(map[string]AuthenticationDatabaseEntry, len(l.AuthenticationDatabase))
	for k, v := range l.AuthenticationDatabase {
		c.AuthenticationDatabase[k] = v
	}
	return &c
}

// Load reads a launcher profile file, nil maps are replaced with empty ones
func Load(p string) (*LauncherProfile, error) {
	open, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer open.Close()

	var l LauncherProfile
	if err := json.NewDecoder(open).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(p), err)
	}
	if l.Profiles == nil {
		l.Profiles = make(map[string]LaunchProfile)
	}
	if l.AuthenticationDatabase == nil {
		l.AuthenticationDatabase = make(map[string]AuthenticationDatabaseEntry)
	}
	return &l, nil
}

// LoadOrCreate loads the file at p or writes a fresh one when it does not exist.
func LoadOrCreate(p string) (*LauncherProfile, error) {
	l, err := Load(p)
	switch {
	case err == nil:
		return l, nil
	case errors.Is(err, os.ErrNotExist):
		l = New()
		return l, l.Save(p)
	}
	return nil, err
}

// Save replaces the file at p through a temporary file in the same directory.
func (l *LauncherProfile) Save(p string) error {
	tmp, err := os.CreateTemp(filepath.Dir(p), ".launcher_profiles-*.json")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}
