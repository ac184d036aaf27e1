// Package cli provides the command-line interface for worldctl.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/frontierlabs/worldctl/internal/cli/commands"
	"github.com/frontierlabs/worldctl/internal/cli/config"
	"github.com/frontierlabs/worldctl/internal/materialize"
	"github.com/frontierlabs/worldctl/internal/schema"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// ExitSchemaInvalid is returned when a world declaration fails validation.
const ExitSchemaInvalid = 6

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "worldctl",
		Short: "worldctl - world namespace and schema tooling",
		Long: `worldctl prepares on-chain world packages for deployment.

It writes the deployment namespace into package templates before they are
compiled, and inspects and validates the tables and systems each package
declares.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg)
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			logger.Debug("resolved packages directory", "path", cfg.PackagesDir)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./worldctl.yaml)")
	rootCmd.PersistentFlags().String("packages-dir", "", "Path to packages directory")
	rootCmd.PersistentFlags().String("default-env", "", "Fallback namespace variable (default: DEFAULT_NAMESPACE)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(commands.BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}))
	rootCmd.AddCommand(commands.NewMaterializeCommand())
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return ExecuteArgs(os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteArgs runs the root command with args, reporting errors on stderr.
func ExecuteArgs(args []string, stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// ExitCode maps an Execute error to a process exit code. Materialization
// failures keep their own codes; invalid world declarations exit with
// ExitSchemaInvalid.
func ExitCode(err error) int {
	if err == nil {
		return materialize.ExitOK
	}
	if code := materialize.ExitCode(err); code != materialize.ExitFailure {
		return code
	}
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return ExitSchemaInvalid
	}
	return materialize.ExitFailure
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for worldctl.

To load completions:

Bash:
  $ source <(worldctl completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ worldctl completion bash > /etc/bash_completion.d/worldctl
  # macOS:
  $ worldctl completion bash > $(brew --prefix)/etc/bash_completion.d/worldctl

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ worldctl completion zsh > "${fpath[1]}/_worldctl"

Fish:
  $ worldctl completion fish | source

  # To load completions for each session, execute once:
  $ worldctl completion fish > ~/.config/fish/completions/worldctl.fish

PowerShell:
  PS> worldctl completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
