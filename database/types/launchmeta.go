package types

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LaunchMeta is stored as a JSON column next to each launch row.
type LaunchMeta struct {
	Username    string `json:"username"`
	Offline     bool   `json:"offline"`
	JavaPath    string `json:"java"`
	JvmArgs     int    `json:"jvm_args"`
	NativesDir  string `json:"natives_dir"`
	GameDir     string `json:"game_dir"`
	MainClass   string `json:"main_class"`
	Classpath   int    `json:"classpath"`
	AssetsIndex string `json:"assets_index"`
}

var _ driver.Valuer = LaunchMeta{}

var _ sql.Scanner = &LaunchMeta{}

func (m LaunchMeta) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *LaunchMeta) Scan(src any) error {
	switch srcRaw := src.(type) {
	case string:
		return json.Unmarshal([]byte(srcRaw), m)
	case []byte:
		return json.Unmarshal(srcRaw, m)
	}
	return fmt.Errorf("invalid type")
}
