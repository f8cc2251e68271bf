package language

import (
	_ "embed"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var builtinMetadata []byte

// Info describes a language for display and graph metadata.
type Info struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Script      string `yaml:"script"`
	RightToLeft bool   `yaml:"rtl"`
}

var (
	metadataOnce sync.Once
	metadata     map[string]Info
)

func loadMetadata() {
	var infos []Info
	if err := yaml.Unmarshal(builtinMetadata, &infos); err != nil {
		panic("language: malformed built-in metadata: " + err.Error())
	}
	metadata = make(map[string]Info, len(infos))
	for _, info := range infos {
		metadata[info.Code] = info
	}
}

// Lookup returns metadata for code. Unknown codes yield an Info carrying
// only the code, with the name set to the code and an unknown script.
func Lookup(code string) (Info, bool) {
	metadataOnce.Do(loadMetadata)
	if info, ok := metadata[code]; ok {
		return info, true
	}
	return Info{Code: code, Name: code, Script: "Unknown"}, false
}

// Known returns metadata for every language with a built-in entry, sorted
// by code.
func Known() []Info {
	metadataOnce.Do(loadMetadata)
	out := make([]Info, 0, len(metadata))
	for _, info := range metadata {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
