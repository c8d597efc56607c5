package server_list

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"path/filepath"
	"testing"
)

func TestLoad_Missing(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "servers.dat"))
	assert.NoError(t, err)
	assert.Empty(t, l.Servers)
}

func TestServerList_SaveLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "servers.dat")
	l := &ServerList{}
	l.Add(Server{Name: "Hypixel", Ip: "mc.hypixel.net", AcceptTextures: ResourcePackEnabled})
	l.Add(Server{Name: "Local", Ip: "localhost:25565"})
	l.Add(Server{Name: "No packs", Ip: "example.org", AcceptTextures: ResourcePackDisabled, extra: map[string]any{"hidden": int8(1)}})
	assert.NoError(t, l.Save(p))

	l2, err := Load(p)
	assert.NoError(t, err)
	assert.Len(t, l2.Servers, 3)
	assert.Equal(t, "mc.hypixel.net", l2.Servers[0].Ip)
	assert.Equal(t, ResourcePackEnabled, l2.Servers[0].AcceptTextures)
	assert.Equal(t, ResourcePackPrompt, l2.Servers[1].AcceptTextures)
	assert.Equal(t, ResourcePackDisabled, l2.Servers[2].AcceptTextures)
	assert.Contains(t, l2.Servers[2].extra, "hidden")
}

func TestServerList_RemoveMove(t *testing.T) {
	l := &ServerList{Servers: []Server{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
	assert.NoError(t, l.Move(0, 2))
	assert.Equal(t, []string{"b", "c", "a"}, names(l))
	assert.NoError(t, l.Move(2, 0))
	assert.Equal(t, []string{"a", "b", "c"}, names(l))
	assert.ErrorIs(t, l.Move(0, 3), ErrIndexOutOfRange)

	assert.NoError(t, l.Remove(1))
	assert.Equal(t, []string{"a", "c"}, names(l))
	assert.ErrorIs(t, l.Remove(-1), ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Remove(2), ErrIndexOutOfRange)
}

func names(l *ServerList) []string {
	a := make([]string, 0, len(l.Servers))
	for _, i := range l.Servers {
		a = append(a, i.Name)
	}
	return a
}

func TestServerList_Replace(t *testing.T) {
	l := &ServerList{Servers: []Server{
		{Name: "a", Ip: "a.example.com", extra: map[string]any{"hidden": int8(1)}},
		{Name: "b", Ip: "b.example.com"},
	}}
	l.Replace([]Server{{Name: "renamed", Ip: "a.example.com"}, {Name: "c", Ip: "c.example.com"}})
	assert.Equal(t, []string{"renamed", "c"}, names(l))
	assert.Contains(t, l.Servers[0].extra, "hidden")
	assert.Nil(t, l.Servers[1].extra)
}

func TestServer_JSON(t *testing.T) {
	b, err := json.Marshal([]Server{
		{Name: "A", Ip: "a"},
		{Name: "B", Ip: "b", AcceptTextures: ResourcePackEnabled},
		{Name: "C", Ip: "c", AcceptTextures: ResourcePackDisabled},
	})
	assert.NoError(t, err)
	assert.JSONEq(t, `[
  {"name": "A", "ip": "a", "acceptTextures": "prompt"},
  {"name": "B", "ip": "b", "acceptTextures": "enabled"},
  {"name": "C", "ip": "c", "acceptTextures": "disabled"}
]`, string(b))

	var servers []Server
	assert.NoError(t, json.Unmarshal([]byte(`[{"name": "D", "ip": "d", "acceptTextures": "disabled"}, {"name": "E", "ip": "e"}]`), &servers))
	assert.Equal(t, ResourcePackDisabled, servers[0].AcceptTextures)
	assert.Equal(t, ResourcePackPrompt, servers[1].AcceptTextures)

	assert.Error(t, json.Unmarshal([]byte(`{"acceptTextures": 1}`), new(Server)))
	assert.Error(t, json.Unmarshal([]byte(`{"acceptTextures": "sometimes"}`), new(Server)))
	_, err = json.Marshal(Server{AcceptTextures: ResourcePackPolicy(9)})
	assert.Error(t, err)
}
