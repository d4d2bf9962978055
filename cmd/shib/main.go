package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kokistudios/shib/internal/config"
	"github.com/kokistudios/shib/internal/editor"
	"github.com/kokistudios/shib/internal/plugin"
	"github.com/kokistudios/shib/internal/shell"
	"github.com/kokistudios/shib/internal/ui"
)

// Set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func buildVersion() string {
	if commit == "none" {
		return version
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

func main() {
	var (
		noColor     bool
		dirFlag     string
		profileFlag string
		editorFlag  string
		logLevel    string
	)

	rootCmd := &cobra.Command{
		Use:   "shib [command...]",
		Short: "Shibboleth — a task manager with all state in the filenames",
		Long: "Shibboleth keeps every task as a plain file whose name carries its\n" +
			"priority, tags, and timestamp. Run it bare for the interactive loop,\n" +
			"or pass a single command to run it and exit.",
		Example: "  shib\n  shib --profile work\n  shib report\n  shib new call the plumber",
		Args:    cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.Init(noColor)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(dirFlag, profileFlag, editorFlag, logLevel, noColor, args)
		},
		SilenceUsage: true,
	}

	rootCmd.Version = buildVersion()
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().StringVarP(&dirFlag, "dir", "C", "", "Task directory to run in (default: current directory)")
	rootCmd.Flags().StringVar(&profileFlag, "profile", "", "Named profile from the config file")
	rootCmd.Flags().StringVar(&editorFlag, "editor", "", "Editor command, overriding config and $EDITOR")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Write shibboleth.log at this level from startup")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(dirFlag, profileFlag, editorFlag, logLevel string, noColor bool, args []string) error {
	cfg, cfgPath, err := config.Load()
	if err != nil {
		if profileFlag != "" {
			return err
		}
		ui.Warning(fmt.Sprintf("ignoring %s: %v", cfgPath, err))
		cfg = config.Config{}
	}
	if cfg.NoColor && !noColor {
		ui.Init(true)
	}

	prof, err := config.ResolveProfile(profileFlag, cfg)
	if err != nil {
		return err
	}

	dir := dirFlag
	editorOverride := editorFlag
	if prof != nil {
		if dir == "" {
			dir = prof.Dir
		}
		if editorOverride == "" {
			editorOverride = prof.Editor
		}
	}
	if dir == "" {
		dir = "."
	}
	if editorOverride == "" {
		editorOverride = cfg.Editor
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}

	var sh *shell.Shell
	defer func() {
		if r := recover(); r != nil {
			crashDir := dir
			if sh != nil {
				crashDir = sh.Dir()
			}
			ui.WriteCrashLog(crashDir, r, debug.Stack())
			fmt.Println("Oh no! Shibboleth had a problem and had to close. Log written to " + ui.LogFileName)
			os.Exit(99)
		}
	}()

	if logLevel != "" {
		if err := ui.EnableFileLog(dir, logLevel); err != nil {
			ui.Warning(err.Error())
		}
	}
	defer ui.DisableFileLog()

	sh, err = shell.New(shell.Options{
		Dir:     dir,
		Editor:  editor.Resolve(editorOverride),
		Plugins: loadPlugins(),
		Version: buildVersion(),
	})
	if err != nil {
		return err
	}

	sh.RestoreLast()
	if len(args) > 0 {
		sh.Execute(strings.Join(args, " "))
		return sh.SaveLast()
	}
	return sh.Run()
}

func loadPlugins() plugin.Registry {
	dir, err := config.PluginsDir()
	if err != nil {
		ui.Warning("plugins disabled: " + err.Error())
		return plugin.Registry{}
	}
	plugins, err := plugin.Load(dir)
	if err != nil {
		ui.Warning("plugins disabled: " + err.Error())
		return plugin.Registry{}
	}
	return plugins
}
