package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/frontierlabs/worldctl/internal/cli/output"
	intconfig "github.com/frontierlabs/worldctl/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new worldctl project",
		Long: `Initialize a new worldctl project with a configuration file and an ssu
package whose constants template carries the namespace placeholder.

This creates:
  - worldctl.yaml configuration file
  - packages/ssu/world.yaml world declaration
  - packages/ssu/src/systems/constants.sol template

Existing package files are kept unless --force is given.`,
		Example: `  # Initialize in current directory
  worldctl init

  # Initialize in a new directory
  worldctl init my-world

  # Force overwrite existing files
  worldctl init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd).Renderer, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, intconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", intconfig.ConfigFileName)
	}

	files, err := scaffold("minimal", dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(files)
	}

	byPackage := make(map[string][]scaffoldFile)
	for _, f := range files {
		byPackage[f.Package] = append(byPackage[f.Package], f)
	}
	pkgs := make([]string, 0, len(byPackage))
	for pkg := range byPackage {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	for _, pkg := range pkgs {
		title := "Project"
		if pkg != "" {
			title = "Package " + pkg
		}
		r.Header(2, title)
		for _, f := range byPackage[pkg] {
			if f.Kept {
				r.StatusLine(f.Path, "warning", "kept existing file")
				continue
			}
			r.StatusLine(f.Path, "success", "")
		}
		r.Println("")
	}

	r.Success("worldctl project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Declare tables in packages/ssu/world.yaml")
	r.Println("  2. Run 'worldctl schema validate' to check declarations")
	r.Println("  3. Set SSU_NAMESPACE or DEFAULT_NAMESPACE")
	r.Println("  4. Run 'worldctl materialize' before deploying")

	return nil
}
