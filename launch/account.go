package launch

import (
	"crypto/md5"
	"github.com/google/uuid"
	launcherProfile "github.com/mrmelon54/mc-launcher/launcher-profile"
	"strings"
)

type Account struct {
	Name        string
	Uuid        uuid.UUID
	AccessToken string
	UserType    string
	Xuid        string
	Offline     bool
}

// OfflineUuid matches the uuid the server assigns to an offline mode player.
func OfflineUuid(name string) uuid.UUID {
	h := md5.Sum([]byte("OfflinePlayer:" + name))
	h[6] = h[6]&0x0f | 0x30
	h[8] = h[8]&0x3f | 0x80
	return h
}

func OfflineAccount(name string) Account {
	return Account{
		Name:        name,
		Uuid:        OfflineUuid(name),
		AccessToken: "0",
		UserType:    "legacy",
		Xuid:        "0",
		Offline:     true,
	}
}

func AccountFromEntry(e launcherProfile.AuthenticationDatabaseEntry) Account {
	name := e.DisplayName
	if name == "" {
		name = e.Username
	}
	if e.AccessToken == "" {
		a := OfflineAccount(name)
		if e.Uuid != uuid.Nil {
			a.Uuid = e.Uuid
		}
		return a
	}
	return Account{
		Name:        name,
		Uuid:        e.Uuid,
		AccessToken: e.AccessToken,
		UserType:    "msa",
		Xuid:        "0",
	}
}

// UndashedUuid is the uuid form the game expects on the command line.
func (a Account) UndashedUuid() string {
	return strings.ReplaceAll(a.Uuid.String(), "-", "")
}
