package jar_parser

import "encoding/json"

// FabricJson keeps dependency ranges raw. Only the minecraft range is parsed,
// other mods often use version schemes semver cannot read.
type FabricJson struct {
	SchemaVersion int                        `json:"schemaVersion"`
	Id            string                     `json:"id"`
	Version       string                     `json:"version"`
	Name          string                     `json:"name"`
	Description   string                     `json:"description"`
	Environment   string                     `json:"environment"`
	Depends       map[string]json.RawMessage `json:"depends"`
}
