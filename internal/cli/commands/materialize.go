package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/frontierlabs/worldctl/internal/cli/output"
	"github.com/frontierlabs/worldctl/internal/materialize"
	intconfig "github.com/frontierlabs/worldctl/internal/config"
)

// MaterializeOptions holds options for the materialize command.
type MaterializeOptions struct {
	Template    string // Template path override
	PrimaryEnv  string // Primary namespace variable override
	FallbackEnv string // Fallback namespace variable override
	DryRun      bool   // Compute without writing
}

// NewMaterializeCommand creates the materialize command.
func NewMaterializeCommand() *cobra.Command {
	opts := &MaterializeOptions{}
	cmd := &cobra.Command{
		Use:     "materialize [package]",
		Aliases: []string{"generate-constants"},
		Short:   "Write the deployment namespace into a package template",
		Long: `Replace the namespace placeholder in a package's template with the
deployment namespace, rewriting the file in place.

The namespace is read from the package's variable (SSU_NAMESPACE for ssu)
and falls back to DEFAULT_NAMESPACE. It must fit in 16 bytes. The template
must contain the placeholder exactly once; after a successful run the
placeholder is gone and running again fails.

Nothing is written when any check fails. Exit codes:
  2  no namespace set
  3  namespace longer than the byte limit
  4  placeholder not found
  5  placeholder found more than once`,
		Example: `  # Materialize the ssu constants from SSU_NAMESPACE or DEFAULT_NAMESPACE
  SSU_NAMESPACE=beauKode_dev worldctl materialize

  # Preview without writing
  DEFAULT_NAMESPACE=prod worldctl materialize ssu --dry-run

  # Use an explicit template and variable
  worldctl materialize gates --template packages/gates/src/constants.sol --primary-env GATES_NS`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg := intconfig.DefaultPackage
			if len(args) > 0 {
				pkg = args[0]
			}
			return runMaterialize(cmd, pkg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Template, "template", "", "Template file (default: the package's configured template)")
	cmd.Flags().StringVar(&opts.PrimaryEnv, "primary-env", "", "Primary namespace variable (default: the package's namespace_env)")
	cmd.Flags().StringVar(&opts.FallbackEnv, "fallback-env", "", "Fallback namespace variable (default: default_env)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the result without writing the template")

	return cmd
}

func runMaterialize(cmd *cobra.Command, pkg string, opts *MaterializeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	path := opts.Template
	if path == "" {
		var err error
		if path, err = cfg.TemplatePath(pkg); err != nil {
			return err
		}
	}

	primaryEnv := opts.PrimaryEnv
	if primaryEnv == "" {
		primaryEnv = cfg.Package(pkg).NamespaceEnv
	}
	fallbackEnv := opts.FallbackEnv
	if fallbackEnv == "" {
		fallbackEnv = cfg.DefaultEnv
	}
	primary, fallback := cmdCtx.Environ.Inputs(primaryEnv, fallbackEnv)

	cmdCtx.Logger.Debug("materializing template",
		"package", pkg, "template", path, "primary_env", primaryEnv, "fallback_env", fallbackEnv)

	fm := materialize.NewFileMaterializer(nil, cfg.Materializer(), cmdCtx.Logger)
	result, err := fm.Run(cmd.Context(), materialize.Request{
		Path:     path,
		Primary:  primary,
		Fallback: fallback,
		DryRun:   opts.DryRun,
	})
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(result)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Materialized "+pkg))
		r.Println("")
		r.Println(output.FormatKeyValue("Template", result.Path))
		r.Println(output.FormatKeyValue("Namespace", fmt.Sprintf("%q", result.Identifier)))
		r.Println(output.FormatKeyValue("Source", result.Source))
		r.Println(output.FormatKeyValue("Written", fmt.Sprintf("%t", result.Written)))
		if opts.DryRun {
			r.Println("")
			r.Println(output.FormatCodeBlock(langFor(result.Path), result.Content))
		}
		return nil
	default:
		if opts.DryRun {
			r.Muted(fmt.Sprintf("Dry run: %s not written", result.Path))
			r.Println(result.Content)
			return nil
		}
		r.Success(fmt.Sprintf("Generated %s with namespace %q (from %s)",
			filepath.Base(result.Path), result.Identifier, result.Source))
		return nil
	}
}

func langFor(path string) string {
	switch filepath.Ext(path) {
	case ".sol":
		return "solidity"
	case ".ts":
		return "typescript"
	case ".json":
		return "json"
	default:
		return ""
	}
}
