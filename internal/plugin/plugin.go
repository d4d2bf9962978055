// Package plugin discovers and runs external command plugins. Any
// executable dropped into the plugins directory becomes a command; the
// loop state is handed over through the environment, and the plugin can
// hand state back through a result file.
package plugin

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kokistudios/shib/internal/run"
)

// Plugin is one executable command extension.
type Plugin struct {
	Name string
	Path string
}

// Registry maps command names to plugins.
type Registry map[string]Plugin

// Load scans dir for executables. The extension is stripped from the
// command name, so todoist.sh handles the todoist command. A missing
// directory yields an empty registry.
func Load(dir string) (Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Registry{}, nil
		}
		return nil, fmt.Errorf("scanning plugins: %w", err)
	}
	reg := Registry{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if name == "" {
			continue
		}
		reg[name] = Plugin{Name: name, Path: filepath.Join(dir, entry.Name())}
	}
	return reg, nil
}

// Context is the loop state snapshot a plugin sees in its environment.
type Context struct {
	Selection string // encoded filename of the selection, empty when none
	Dir       string
	Version   string
}

// Result is the optional state handoff a plugin writes as YAML to the file
// named by SHIB_RESULT before exiting.
type Result struct {
	Select   string `yaml:"select,omitempty"`
	Deselect bool   `yaml:"deselect,omitempty"`
	Dir      string `yaml:"dir,omitempty"`
}

// Run executes the plugin attached to the terminal. The returned Result is
// nil when the plugin left no handoff file.
func (p Plugin) Run(ctx Context, args []string) (*Result, error) {
	resultPath := filepath.Join(os.TempDir(), fmt.Sprintf(".shib-plugin-%d.yaml", time.Now().UnixNano()))
	defer os.Remove(resultPath)

	cmd := exec.Command(p.Path, args...)
	cmd.Dir = ctx.Dir
	cmd.Env = append(os.Environ(),
		"SHIB_SELECTION="+ctx.Selection,
		"SHIB_DIR="+ctx.Dir,
		"SHIB_VERSION="+ctx.Version,
		"SHIB_RESULT="+resultPath,
	)
	if err := run.Interactive(cmd); err != nil {
		return nil, err
	}
	return readResult(resultPath)
}

func readResult(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading plugin result: %w", err)
	}
	var res Result
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing plugin result: %w", err)
	}
	return &res, nil
}
