package server_list

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/Tnze/go-mc/nbt"
	"os"
	"path/filepath"
)

var ErrIndexOutOfRange = errors.New("server index out of range")

type ResourcePackPolicy int

const (
	ResourcePackPrompt ResourcePackPolicy = iota
	ResourcePackEnabled
	ResourcePackDisabled
)

var resourcePackPolicyNames = map[ResourcePackPolicy]string{
	ResourcePackPrompt:   "prompt",
	ResourcePackEnabled:  "enabled",
	ResourcePackDisabled: "disabled",
}

func (p ResourcePackPolicy) String() string {
	return resourcePackPolicyNames[p]
}

func (p ResourcePackPolicy) MarshalJSON() ([]byte, error) {
	s, ok := resourcePackPolicyNames[p]
	if !ok {
		return nil, fmt.Errorf("invalid resource pack policy: %d", p)
	}
	return json.Marshal(s)
}

func (p *ResourcePackPolicy) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for k, name := range resourcePackPolicyNames {
		if name == s {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("invalid resource pack policy: %q", s)
}

// Server is one multiplayer entry. Tags this launcher does not know about
// are kept in extra and written back unchanged.
type Server struct {
	Name           string             `json:"name"`
	Ip             string             `json:"ip"`
	Icon           string             `json:"icon,omitempty"`
	AcceptTextures ResourcePackPolicy `json:"acceptTextures"`

	extra map[string]any
}

type serversDat struct {
	Servers []map[string]any `nbt:"servers"`
}

type ServerList struct {
	Servers []Server
}

// Load reads servers.dat, a missing file is an empty list.
func Load(p string) (*ServerList, error) {
	open, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ServerList{Servers: []Server{}}, nil
		}
		return nil, err
	}
	defer open.Close()

	var dat serversDat
	if _, err := nbt.NewDecoder(bufio.NewReader(open)).Decode(&dat); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(p), err)
	}
	l := &ServerList{Servers: make([]Server, 0, len(dat.Servers))}
	for _, i := range dat.Servers {
		l.Servers = append(l.Servers, fromCompound(i))
	}
	return l, nil
}

func (l *ServerList) Save(p string) error {
	dat := serversDat{Servers: make([]map[string]any, 0, len(l.Servers))}
	for _, i := range l.Servers {
		dat.Servers = append(dat.Servers, i.toCompound())
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".servers-*.dat")
	if err != nil {
		return err
	}
	w := bufio.NewWriter(tmp)
	if err := nbt.NewEncoder(w).Encode(dat, ""); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := w.Flush(); err != nil {
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

func (l *ServerList) Add(s Server) {
	l.Servers = append(l.Servers, s)
}

func (l *ServerList) Remove(index int) error {
	if index < 0 || index >= len(l.Servers) {
		return ErrIndexOutOfRange
	}
	l.Servers = append(l.Servers[:index], l.Servers[index+1:]...)
	return nil
}

// Replace swaps in a new list. Servers whose ip matches an existing entry
// keep that entry's unknown tags.
func (l *ServerList) Replace(servers []Server) {
	extra := make(map[string]map[string]any, len(l.Servers))
	for _, i := range l.Servers {
		if i.extra != nil {
			extra[i.Ip] = i.extra
		}
	}
	a := make([]Server, len(servers))
	for i, s := range servers {
		if s.extra == nil {
			s.extra = extra[s.Ip]
		}
		a[i] = s
	}
	l.Servers = a
}

// Move shifts the server at from so it ends up at index to.
func (l *ServerList) Move(from, to int) error {
	if from < 0 || from >= len(l.Servers) || to < 0 || to >= len(l.Servers) {
		return ErrIndexOutOfRange
	}
	s := l.Servers[from]
	l.Servers = append(l.Servers[:from], l.Servers[from+1:]...)
	l.Servers = append(l.Servers[:to], append([]Server{s}, l.Servers[to:]...)...)
	return nil
}

func fromCompound(m map[string]any) Server {
	var s Server
	s.extra = make(map[string]any)
	for k, v := range m {
		switch k {
		case "name":
			s.Name, _ = v.(string)
		case "ip":
			s.Ip, _ = v.(string)
		case "icon":
			s.Icon, _ = v.(string)
		case "acceptTextures":
			if byteTrue(v) {
				s.AcceptTextures = ResourcePackEnabled
			} else {
				s.AcceptTextures = ResourcePackDisabled
			}
		default:
			s.extra[k] = v
		}
	}
	return s
}

func byteTrue(v any) bool {
	switch b := v.(type) {
	case int8:
		return b != 0
	case uint8:
		return b != 0
	case bool:
		return b
	case int32:
		return b != 0
	}
	return false
}

func (s Server) toCompound() map[string]any {
	m := make(map[string]any, len(s.extra)+4)
	for k, v := range s.extra {
		m[k] = v
	}
	m["name"] = s.Name
	m["ip"] = s.Ip
	if s.Icon != "" {
		m["icon"] = s.Icon
	}
	switch s.AcceptTextures {
	case ResourcePackEnabled:
		m["acceptTextures"] = int8(1)
	case ResourcePackDisabled:
		m["acceptTextures"] = int8(0)
	}
	return m
}
