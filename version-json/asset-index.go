package version_json

import (
	"encoding/json"
	"fmt"
	"os"
)

type AssetIndex struct {
	Objects        map[string]AssetObject `json:"objects"`
	Virtual        bool                   `json:"virtual,omitempty"`
	MapToResources bool                   `json:"map_to_resources,omitempty"`
}

type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// ObjectPath is the path below assets/objects
func (a AssetObject) ObjectPath() string {
	if len(a.Hash) < 2 {
		return a.Hash
	}
	return a.Hash[:2] + "/" + a.Hash
}

func LoadAssetIndex(p string) (*AssetIndex, error) {
	open, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer open.Close()
	var a AssetIndex
	if err := json.NewDecoder(open).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode asset index: %w", err)
	}
	return &a, nil
}
