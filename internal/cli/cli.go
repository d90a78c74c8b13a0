// Package cli holds the flag handling shared by every convtools binary.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/convtools/internal/config"
	"github.com/kpauljoseph/convtools/pkg/logger"
	"github.com/kpauljoseph/convtools/pkg/version"
)

const DefaultConfigPath = "convtools.yaml"

type Common struct {
	Tool       string
	ConfigPath string
	Verbose    bool
	Debug      bool
}

// Env is what a tool needs once flags and config are settled.
type Env struct {
	Config *config.Config
	Log    *logger.Logger
}

// NewCommand builds a root command carrying the --config, -v/--verbose and
// --debug flags.
func NewCommand(tool, use, short string, c *Common) *cobra.Command {
	c.Tool = tool
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate(version.GetDetailedVersionInfo(tool))

	cmd.Flags().StringVar(&c.ConfigPath, "config", DefaultConfigPath, "path to config file (.yaml or .toml)")
	cmd.Flags().BoolVarP(&c.Verbose, "verbose", "v", false, "Give more output.")
	cmd.Flags().BoolVar(&c.Debug, "debug", false, "enable debug mode with trace logging")
	return cmd
}

// Setup loads the config file and builds the logger. Flags given on the
// command line win over the config file.
func (c *Common) Setup(cmd *cobra.Command) (*Env, error) {
	required := cmd.Flags().Changed("config")
	cfg, err := config.Load(c.ConfigPath, required)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = c.Verbose
	}

	log := logger.New(logger.WithName(c.Tool), logger.WithOutput(cmd.OutOrStdout()))
	log.SetVerbose(cfg.Verbose)
	if c.Debug {
		log.SetLevel(logger.LevelTrace)
	}
	log.Debug("Verbose logging enabled")
	log.Trace("%s", version.GetVersionInfo(c.Tool))

	return &Env{Config: cfg, Log: log}, nil
}

// Context is cancelled on SIGINT or SIGTERM so a batch stops between files.
func Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// StringFlag returns the flag value when it was set, otherwise fallback.
func StringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

// DestDir picks the optional positional destination, else fallback.
func DestDir(args []string, idx int, fallback string) string {
	if len(args) > idx && args[idx] != "" {
		return args[idx]
	}
	return fallback
}

// Execute runs cmd and exits non-zero on error.
func Execute(cmd *cobra.Command) {
	ExecuteWithExit(cmd, os.Exit)
}

// ExecuteWithExit runs cmd and hands a failure to exit after logging it on
// the command's error stream.
func ExecuteWithExit(cmd *cobra.Command, exit func(int)) {
	if err := cmd.Execute(); err != nil {
		log := logger.New(
			logger.WithName(cmd.Name()),
			logger.WithOutput(cmd.ErrOrStderr()),
			logger.WithExitFunc(exit),
		)
		log.Fatal("%v", err)
	}
}
