// Package config loads the optional TOML configuration file and resolves
// named profiles into usable task directories.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DefaultProfile string             `toml:"default_profile"`
	Editor         string             `toml:"editor"`
	NoColor        bool               `toml:"no_color"`
	LogLevel       string             `toml:"log_level"`
	Profiles       map[string]Profile `toml:"profiles"`
}

type Profile struct {
	Dir    string `toml:"dir"`
	Editor string `toml:"editor"`
}

// ResolvedProfile is a profile with its directory expanded and verified.
type ResolvedProfile struct {
	Name   string
	Dir    string
	Editor string
}

type ProfileError struct {
	Profile string
	Field   string
	Err     error
}

func (e *ProfileError) Error() string {
	if e.Profile == "" {
		return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
	}
	if e.Field == "" {
		return fmt.Sprintf("profile %q: %v", e.Profile, e.Err)
	}
	return fmt.Sprintf("profile %q: %s: %v", e.Profile, e.Field, e.Err)
}

func (e *ProfileError) Unwrap() error { return e.Err }

var (
	ErrEmptyPath    = errors.New("path is empty")
	ErrPathNotExist = errors.New("path does not exist")
	ErrNotDirectory = errors.New("path is not a directory")
)

// Path returns the configuration file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "shibboleth", "config.toml"), nil
}

// Load reads the configuration file. A missing file is not an error; the
// zero Config applies.
func Load() (Config, string, error) {
	path, err := Path()
	if err != nil {
		return Config{}, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, path, nil
		}
		return Config{}, path, err
	}
	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, path, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

func validate(cfg Config) error {
	if cfg.DefaultProfile != "" {
		if _, ok := cfg.Profiles[cfg.DefaultProfile]; !ok {
			return &ProfileError{Field: "default_profile", Err: fmt.Errorf("profile %q not found", cfg.DefaultProfile)}
		}
	}
	return nil
}

// ResolveProfile picks the named profile (or the configured default when
// name is empty) and expands its directory. A nil result with nil error
// means no profile applies.
func ResolveProfile(name string, cfg Config) (*ResolvedProfile, error) {
	if name == "" {
		name = cfg.DefaultProfile
	}
	if name == "" {
		return nil, nil
	}
	p, ok := cfg.Profiles[name]
	if !ok {
		return nil, &ProfileError{Profile: name, Err: errors.New("profile not found")}
	}
	if strings.TrimSpace(p.Dir) == "" {
		return nil, &ProfileError{Profile: name, Field: "dir", Err: ErrEmptyPath}
	}
	dir, err := ExpandPath(p.Dir)
	if err != nil {
		return nil, &ProfileError{Profile: name, Field: "dir", Err: err}
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ProfileError{Profile: name, Field: "dir", Err: fmt.Errorf("%w: %s", ErrPathNotExist, dir)}
		}
		return nil, &ProfileError{Profile: name, Field: "dir", Err: err}
	}
	if !info.IsDir() {
		return nil, &ProfileError{Profile: name, Field: "dir", Err: fmt.Errorf("%w: %s", ErrNotDirectory, dir)}
	}
	return &ResolvedProfile{Name: name, Dir: dir, Editor: p.Editor}, nil
}

// Home returns the shibboleth state directory, ~/.shibboleth by default,
// overridable through SHIB_HOME.
func Home() (string, error) {
	if home := os.Getenv("SHIB_HOME"); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".shibboleth"), nil
}

// PluginsDir returns the directory scanned for plugin executables.
func PluginsDir() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "plugins"), nil
}

// ExpandPath expands environment variables and a leading tilde.
func ExpandPath(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return value, nil
	}
	expanded := os.ExpandEnv(value)
	if !strings.HasPrefix(expanded, "~") {
		return expanded, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if expanded == "~" {
		return homeDir, nil
	}
	if strings.HasPrefix(expanded, "~/") {
		return filepath.Join(homeDir, expanded[2:]), nil
	}
	return expanded, nil
}
