package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teranos/decross/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper
var boundFlags = map[string]*pflag.Flag{}

// Load reads the decross configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of the
// defaults, ignoring the cascade and the environment.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", configPath)
	}
	return config, nil
}

// BindFlag makes a command line flag the highest-precedence source for key.
// The flag only takes effect when it was set explicitly.
func BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return errors.Newf("no flag to bind for %s", key)
	}
	if err := initViper().BindPFlag(key, flag); err != nil {
		return errors.Wrapf(err, "failed to bind flag --%s", flag.Name)
	}
	boundFlags[key] = flag
	globalConfig = nil
	return nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
	boundFlags = map[string]*pflag.Flag{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// system -> user -> project, env vars and flags sit above all files
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig searches for decross.toml by walking up the directory tree
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// configCascade lists the candidate files in increasing precedence
func configCascade() []SourceInfo {
	cascade := []SourceInfo{{Source: SourceSystem, Path: SystemConfig}}

	if home, err := os.UserHomeDir(); err == nil {
		cascade = append(cascade, SourceInfo{Source: SourceUser, Path: filepath.Join(home, UserConfigDir, ConfigFileName)})
	}
	if project := findProjectConfig(); project != "" {
		cascade = append(cascade, SourceInfo{Source: SourceProject, Path: project})
	}
	return cascade
}

// mergeConfigFiles merges every existing file of the cascade into the config
// layer of v, below environment variables and flags, and records which file
// supplied each key.
func mergeConfigFiles(v *viper.Viper) {
	for _, candidate := range configCascade() {
		if _, err := os.Stat(candidate.Path); err != nil {
			continue
		}

		fileViper := viper.New()
		fileViper.SetConfigFile(candidate.Path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}

		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range fileViper.AllKeys() {
			ConfigSources[key] = candidate
		}
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}

// IsSet reports whether key is known to the configuration
func IsSet(key string) bool {
	return initViper().IsSet(key)
}
