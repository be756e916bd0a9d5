package am

import (
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/teranos/decross/errors"
)

// CheckResult is the outcome of a strict file check
type CheckResult struct {
	Path    string
	Config  *Config
	Unknown []string // keys present in the file that no setting reads
}

// CheckFile decodes a config file strictly: unknown keys are reported and the
// merged result (file over defaults) is validated.
func CheckFile(path string) (*CheckResult, error) {
	var probe Config
	md, err := toml.DecodeFile(path, &probe)
	if err != nil {
		return nil, errors.Wrapf(errors.Wrap(errors.ErrInvalidConfig, err.Error()), "failed to parse %s", path)
	}

	res := &CheckResult{Path: path}
	for _, key := range md.Undecoded() {
		res.Unknown = append(res.Unknown, key.String())
	}
	sort.Strings(res.Unknown)

	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	res.Config = cfg

	if len(res.Unknown) > 0 {
		return res, errors.WithHint(
			errors.NewInvalidConfigError("%s has unknown keys: %v", path, res.Unknown),
			"check spelling against 'decross am show'")
	}
	if err := cfg.Validate(); err != nil {
		return res, errors.Wrapf(err, "%s", path)
	}
	return res, nil
}
