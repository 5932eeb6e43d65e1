package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/skinrt/pkg/skins"
	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
	"github.com/BrandonKowalski/skinrt/pkg/skins/host/sim"
)

var version = "0.1.0"

// SDL must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	flagBackend  string
	flagSkin     string
	flagConfig   string
	flagLogLevel string
	flagLogPath  string
	flagSkinsDir string
	flagEvdev    string
	flagPrompt   bool
	flagDemo     bool
)

var rootCmd = &cobra.Command{
	Use:   "skinrt",
	Short: "Skinnable media player interface",
	Long: `skinrt shows a skinned interface for a media player.

The skin is taken from --skin, then the last skin used, then the configured
default skin. When none of them loads and --prompt is set, a skin path is
asked for on the terminal.

Examples:
  skinrt                                  # last skin, SDL windows
  skinrt --skin share/skins/default       # a specific skin
  skinrt --backend tty --log-path run.log # inside the terminal`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the skins found in the skins directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		skinList, err := discoverSkins(flagSkinsDir)
		if err != nil {
			return err
		}
		for _, s := range skinList {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <skin>",
	Short: "Load a skin without showing it and report problems",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := validateSkin(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s)\n", args[0], name)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/skinrt/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log-path", "", "Also write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagSkinsDir, "skins-dir", "share/skins", "Directory searched for skins")

	rootCmd.Flags().StringVarP(&flagBackend, "backend", "b", "", "Window backend (sdl/tty/headless); default from config")
	rootCmd.Flags().StringVarP(&flagSkin, "skin", "s", os.Getenv(constants.SkinPathEnvVar), "Skin directory or theme.toml to load first")
	rootCmd.Flags().StringVar(&flagEvdev, "evdev", "", "Read shortcut keys from this input device (Linux)")
	rootCmd.Flags().BoolVar(&flagPrompt, "prompt", true, "Ask for a skin on the terminal when none loads")
	rootCmd.Flags().BoolVar(&flagDemo, "demo", constants.IsDevMode(), "Start a simulated stream in the host engine")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
}

func run(parent context.Context) error {
	if flagLogPath != "" {
		skins.SetLogPath(flagLogPath)
	}
	defer skins.CloseLogger()

	cfg, err := skins.ReadConfig(flagConfig)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	name := flagBackend
	if name == "" {
		name = cfg.Backend
	}
	backend, err := newBackend(name, flagEvdev)
	if err != nil {
		return err
	}

	engine := sim.New()
	if flagDemo {
		// Ten minutes at 128 kbit/s.
		engine.Start(600*16000, 16000, true)
	}

	var prompt skins.PromptFunc
	if flagPrompt && name != "tty" {
		prompt = newPrompt(flagSkinsDir)
	}

	rt, err := skins.New(skins.Options{
		Backend:    backend,
		Engine:     engine,
		ConfigPath: flagConfig,
		LogPath:    flagLogPath,
		LogLevel:   flagLogLevel,
		Skin:       flagSkin,
		Prompt:     prompt,
	})
	if err != nil {
		_ = backend.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		rt.Stop()
	}()

	err = rt.Run(ctx)
	if errors.Is(err, skins.ErrNoSkin) {
		fmt.Fprintln(os.Stderr, skins.T("NoSkinLoaded"))
	}

	return err
}
