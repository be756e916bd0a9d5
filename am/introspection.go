package am

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/decross/decross.toml
	SourceUser        ConfigSource = "user"        // ~/.decross/decross.toml
	SourceProject     ConfigSource = "project"     // decross.toml found upward from the working directory
	SourceEnvironment ConfigSource = "environment" // DECROSS_* env vars
	SourceFlag        ConfigSource = "flag"        // command line
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource // The type of config source
	Path   string       // File path, environment variable or flag name
}

// ConfigSources maps each key read from a config file to that file.
// It is filled while the cascade is merged.
var ConfigSources = map[string]SourceInfo{}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	Cascade  []SourceInfo  `json:"cascade"`  // Files considered, lowest precedence first
	Settings []SettingInfo `json:"settings"` // All settings with sources
}

// GetConfigIntrospection returns every effective setting with the source
// that supplied it.
func GetConfigIntrospection() *ConfigIntrospection {
	v := GetViper()

	intro := &ConfigIntrospection{
		Cascade:  configCascade(),
		Settings: make([]SettingInfo, 0),
	}

	keys := v.AllKeys()
	sort.Strings(keys)

	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := ConfigSources[key]; ok {
			info = si
		}

		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, ok := os.LookupEnv(envKey); ok {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}
		if flag, ok := boundFlags[key]; ok && flag.Changed {
			info = SourceInfo{Source: SourceFlag, Path: "--" + flag.Name}
		}

		intro.Settings = append(intro.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}

	return intro
}

// GetConfigSummary counts settings by source
func GetConfigSummary() map[ConfigSource]int {
	summary := map[ConfigSource]int{}
	for _, setting := range GetConfigIntrospection().Settings {
		summary[setting.Source]++
	}
	return summary
}
