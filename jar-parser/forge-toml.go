package jar_parser

type ForgeToml struct {
	ModLoader     string `toml:"modLoader"`
	LoaderVersion string `toml:"loaderVersion"`
	License       string `toml:"license"`
	Mods          []struct {
		ModID       string `toml:"modId"`
		Version     string `toml:"version"`
		DisplayName string `toml:"displayName"`
		Description string `toml:"description"`
	} `toml:"mods"`
	Dependencies map[string][]ForgeDependency `toml:"dependencies"`
}

type ForgeDependency struct {
	ModID        string `toml:"modId"`
	Mandatory    bool   `toml:"mandatory"`
	Type         string `toml:"type"`
	VersionRange string `toml:"versionRange"`
	Side         string `toml:"side"`
}

// Required handles both the forge "mandatory" flag and the neoforge "type" field.
func (d ForgeDependency) Required() bool {
	if d.Type != "" {
		return d.Type == "required"
	}
	return d.Mandatory
}
