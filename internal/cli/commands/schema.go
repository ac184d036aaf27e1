package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/frontierlabs/worldctl/internal/cli/output"
	"github.com/frontierlabs/worldctl/internal/schema"
)

// NewSchemaCommand creates the schema command and its subcommands.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect and validate world declarations",
		Long: `Inspect and validate the world declarations under the packages directory.

Each package declares its namespace source, tables and systems in
<packages_dir>/<package>/world.yaml.`,
	}

	cmd.AddCommand(newSchemaListCommand())
	cmd.AddCommand(newSchemaShowCommand())
	cmd.AddCommand(newSchemaValidateCommand())

	return cmd
}

// WorldSummary is the JSON output for one package in schema list.
type WorldSummary struct {
	Package      string `json:"package"`
	NamespaceEnv string `json:"namespace_env"`
	Namespace    string `json:"namespace,omitempty"`
	Tables       int    `json:"tables"`
	Systems      int    `json:"systems"`
}

func newSchemaListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List packages with their tables and systems",
		Example: `  # List all packages
  worldctl schema list

  # As JSON
  worldctl schema list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			cfg := cmdCtx.Cfg
			r := cmdCtx.Renderer

			if err := cfg.ValidateDirectories(); err != nil {
				return err
			}
			worlds, err := schema.LoadDir(cmd.Context(), cfg.PackagesDir)
			if err != nil {
				return err
			}

			summaries := make([]WorldSummary, 0, len(worlds))
			for _, w := range worlds {
				summaries = append(summaries, WorldSummary{
					Package:      w.Package,
					NamespaceEnv: w.NamespaceEnv,
					Namespace:    w.Namespace,
					Tables:       len(w.Tables),
					Systems:      len(w.Systems),
				})
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(summaries)
			}

			r.Header(1, fmt.Sprintf("Worlds (%d packages)", len(summaries)))
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				source := s.NamespaceEnv
				if s.Namespace != "" {
					source = strconv.Quote(s.Namespace)
				}
				rows = append(rows, []string{s.Package, source, strconv.Itoa(s.Tables), strconv.Itoa(s.Systems)})
			}
			r.Table([]string{"Package", "Namespace", "Tables", "Systems"}, rows)
			return nil
		},
	}
}

func newSchemaShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <package>",
		Short: "Show a package's tables, fields and systems",
		Example: `  worldctl schema show gates
  worldctl schema show corporations -o markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			cfg := cmdCtx.Cfg
			r := cmdCtx.Renderer

			w, err := schema.LoadPackage(cfg.PackagesDir, args[0])
			if err != nil {
				return err
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(w)
			}
			renderWorld(r, w)
			return nil
		},
	}
}

func renderWorld(r *output.Renderer, w *schema.World) {
	r.Header(1, "World "+w.Package)
	if w.Namespace != "" {
		r.KeyValue("Namespace", strconv.Quote(w.Namespace))
	} else {
		r.KeyValue("Namespace from", w.NamespaceEnv)
	}
	r.Println("")

	for _, t := range w.Tables {
		r.Header(2, t.Name)
		rows := make([][]string, 0, len(t.Fields))
		for _, f := range t.Fields {
			key := ""
			if t.IsKey(f.Name) {
				key = "key"
			}
			rows = append(rows, []string{f.Name, f.Type, key})
		}
		r.Table([]string{"Field", "Type", "Key"}, rows)
		if len(t.Key) > 0 {
			r.Muted("key: " + strings.Join(t.Key, ", "))
		} else {
			r.Muted("singleton (no key)")
		}
		r.Println("")
	}

	if len(w.Systems) > 0 {
		r.Header(2, "Systems")
		rows := make([][]string, 0, len(w.Systems))
		for _, s := range w.Systems {
			rows = append(rows, []string{s.Name, strconv.FormatBool(s.RegisterWorldFunctions)})
		}
		r.Table([]string{"System", "Register world functions"}, rows)
	}
}

// ValidateOptions holds options for the schema validate command.
type ValidateOptions struct {
	Resolve bool // Also resolve each namespace from the environment
	Watch   bool // Re-validate on change
}

// ValidationReport is the JSON output for one package in schema validate.
type ValidationReport struct {
	Package   string   `json:"package"`
	Valid     bool     `json:"valid"`
	Namespace string   `json:"namespace,omitempty"`
	Problems  []string `json:"problems,omitempty"`
}

func newSchemaValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [package...]",
		Short: "Validate world declarations",
		Long: `Check every world declaration (or only the named packages) for unknown
types, missing or dynamic key columns, duplicate names and namespaces that
do not fit the 16 byte slot. All problems are reported at once.

With --resolve, each package's namespace is also resolved from the
environment and checked.`,
		Example: `  # Validate all packages
  worldctl schema validate

  # Validate two packages and resolve their namespaces
  DEFAULT_NAMESPACE=prod worldctl schema validate gates tribes --resolve

  # Re-validate whenever a world.yaml changes
  worldctl schema validate --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Resolve, "resolve", false, "Resolve each namespace from the environment")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch world files and re-validate on change")

	return cmd
}

func runValidate(cmd *cobra.Command, pkgs []string, opts *ValidateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	if err := cfg.ValidateDirectories(); err != nil {
		return err
	}

	err := validateOnce(cmd.Context(), cmdCtx, pkgs, opts)
	if !opts.Watch {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmdCtx.Renderer.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", cfg.PackagesDir))
	return schema.Watch(ctx, cfg.PackagesDir, cfg.WatchDebounce, cmdCtx.Logger, func(path string) {
		w, err := schema.LoadFile(path)
		if err != nil {
			cmdCtx.Renderer.Error(err.Error())
			return
		}
		if len(pkgs) > 0 && !slices.Contains(pkgs, w.Package) {
			return
		}
		report := validateWorld(cmdCtx, w, opts)
		if cmdCtx.Renderer.EffectiveMode() == output.ModeJSON {
			_ = cmdCtx.Renderer.JSON(report.ValidationReport)
			return
		}
		renderReports(cmdCtx.Renderer, []ValidationReport{report.ValidationReport})
	})
}

func validateOnce(ctx context.Context, cmdCtx *CommandContext, pkgs []string, opts *ValidateOptions) error {
	cfg := cmdCtx.Cfg

	var worlds []*schema.World
	if len(pkgs) == 0 {
		var err error
		if worlds, err = schema.LoadDir(ctx, cfg.PackagesDir); err != nil {
			return err
		}
	} else {
		for _, pkg := range pkgs {
			w, err := schema.LoadPackage(cfg.PackagesDir, pkg)
			if err != nil {
				return err
			}
			worlds = append(worlds, w)
		}
	}

	reports := make([]ValidationReport, 0, len(worlds))
	var errs []error
	for _, w := range worlds {
		report := validateWorld(cmdCtx, w, opts)
		reports = append(reports, report.ValidationReport)
		if !report.Valid {
			errs = append(errs, report.err)
		}
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(reports); err != nil {
			return err
		}
	} else {
		r.Header(1, fmt.Sprintf("Validating %d worlds", len(reports)))
		renderReports(r, reports)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d worlds invalid: %w", len(errs), len(reports), errors.Join(errs...))
	}
	if r.EffectiveMode() != output.ModeJSON {
		r.Success("All worlds valid")
	}
	return nil
}

type reportWithErr struct {
	ValidationReport
	err error
}

func validateWorld(cmdCtx *CommandContext, w *schema.World, opts *ValidateOptions) reportWithErr {
	report := reportWithErr{ValidationReport: ValidationReport{Package: w.Package, Valid: true}}

	if err := w.Validate(); err != nil {
		report.Valid = false
		report.err = err
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			report.Problems = verr.Problems
		} else {
			report.Problems = []string{err.Error()}
		}
	}

	if opts.Resolve {
		ns, err := w.ResolveNamespace(cmdCtx.Environ.Lookup, cmdCtx.Cfg.DefaultEnv)
		if err != nil {
			report.Valid = false
			report.Problems = append(report.Problems, err.Error())
			if report.err == nil {
				report.err = err
			} else {
				report.err = errors.Join(report.err, err)
			}
		}
		report.Namespace = ns
	}

	cmdCtx.Logger.Debug("validated world", "package", w.Package, "valid", report.Valid, "problems", len(report.Problems))
	return report
}

func renderReports(r *output.Renderer, reports []ValidationReport) {
	for _, report := range reports {
		if report.Valid {
			detail := ""
			if report.Namespace != "" {
				detail = "namespace " + strconv.Quote(report.Namespace)
			}
			r.StatusLine(report.Package, "success", detail)
			continue
		}
		r.StatusLine(report.Package, "error", fmt.Sprintf("%d problems", len(report.Problems)))
		for _, p := range report.Problems {
			r.Muted("    " + p)
		}
	}
}
