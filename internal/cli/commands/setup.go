package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/frontierlabs/worldctl/internal/cli/config"
	"github.com/frontierlabs/worldctl/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Environ  config.Environ
}

// NewCommandContext creates a CommandContext from the loaded configuration
// and a snapshot of the process environment.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	environ := config.ReadEnviron()

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: newRenderer(cmd, cfg.OutputFormat, environ, logger),
		Environ:  environ,
	}
}

// newRenderer creates a renderer for mode, honoring NO_COLOR and TERM=dumb.
func newRenderer(cmd *cobra.Command, mode string, environ config.Environ, logger *slog.Logger) *output.Renderer {
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(mode))
	term, err := config.TerminalFromEnv(environ)
	if err != nil {
		logger.Debug("ignoring terminal settings", "error", err)
		return r
	}
	if term.ColorDisabled() {
		r.DisableColor()
	}
	return r
}

// getConfig returns the current configuration, or the defaults when none has
// been loaded (e.g. a command executed without the root command).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
