package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "shibboleth"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "shibboleth", "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path == "" {
		t.Error("path not reported for missing config")
	}
	if cfg.Editor != "" || cfg.NoColor {
		t.Errorf("missing config not zero: %+v", cfg)
	}
}

func TestLoad_Profiles(t *testing.T) {
	taskDir := t.TempDir()
	writeConfig(t, `
editor = "nvim"
default_profile = "work"

[profiles.work]
dir = "`+taskDir+`"
editor = "vi"
`)
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editor != "nvim" {
		t.Errorf("editor = %q, want nvim", cfg.Editor)
	}

	p, err := ResolveProfile("", cfg)
	if err != nil {
		t.Fatalf("ResolveProfile: %v", err)
	}
	if p == nil || p.Name != "work" {
		t.Fatalf("profile = %+v, want default work", p)
	}
	if p.Dir != taskDir {
		t.Errorf("dir = %q, want %q", p.Dir, taskDir)
	}
	if p.Editor != "vi" {
		t.Errorf("profile editor = %q, want vi", p.Editor)
	}
}

func TestLoad_BadDefaultProfile(t *testing.T) {
	writeConfig(t, `default_profile = "nope"`)
	_, _, err := Load()
	var perr *ProfileError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ProfileError", err)
	}
	if perr.Field != "default_profile" {
		t.Errorf("field = %q", perr.Field)
	}
}

func TestResolveProfile_NoneConfigured(t *testing.T) {
	p, err := ResolveProfile("", Config{})
	if err != nil {
		t.Fatalf("ResolveProfile: %v", err)
	}
	if p != nil {
		t.Errorf("profile = %+v, want nil", p)
	}
}

func TestResolveProfile_UnknownName(t *testing.T) {
	_, err := ResolveProfile("home", Config{})
	var perr *ProfileError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ProfileError", err)
	}
	if perr.Profile != "home" {
		t.Errorf("profile = %q, want home", perr.Profile)
	}
}

func TestResolveProfile_MissingDir(t *testing.T) {
	cfg := Config{Profiles: map[string]Profile{
		"work": {Dir: filepath.Join(t.TempDir(), "absent")},
	}}
	_, err := ResolveProfile("work", cfg)
	if !errors.Is(err, ErrPathNotExist) {
		t.Errorf("err = %v, want ErrPathNotExist", err)
	}
}

func TestHome_Override(t *testing.T) {
	t.Setenv("SHIB_HOME", "/tmp/shib-home")
	home, err := Home()
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if home != "/tmp/shib-home" {
		t.Errorf("home = %q", home)
	}
	plugins, err := PluginsDir()
	if err != nil {
		t.Fatalf("PluginsDir: %v", err)
	}
	if plugins != filepath.Join("/tmp/shib-home", "plugins") {
		t.Errorf("plugins = %q", plugins)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"~", home},
		{"~/tasks", filepath.Join(home, "tasks")},
		{"/abs/path", "/abs/path"},
	}
	for _, tt := range cases {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Errorf("ExpandPath(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
