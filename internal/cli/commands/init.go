package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/valgen/internal/cli/output"
	intconfig "github.com/leapstack-labs/valgen/internal/config"
	"github.com/spf13/cobra"
)

// DefaultInclude is the include pattern written by init.
const DefaultInclude = "src/**/*.{ts,tsx,js,jsx}"

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a valgen.yaml with default settings",
		Long: `Create a valgen.yaml configuration file with every setting at its default.

The include pattern selects the files converted when valgen runs without
arguments. Edit it to match your source layout.`,
		Example: `  # Initialize in current directory
  valgen init

  # Initialize another directory
  valgen init packages/api

  # Force overwrite existing config
  valgen init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if existing := intconfig.FindConfigFile(dir); existing != "" && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", filepath.Base(existing))
	}

	cfg := intconfig.Default()
	cfg.Include = []string{DefaultInclude}
	cfg.Exclude = []string{"**/*.d.ts"}
	data, err := intconfig.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	configPath := filepath.Join(dir, intconfig.ConfigFileName)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(intconfig.ConfigFileName, "success", "")
	r.Println("")
	r.Success("valgen project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Mark types with `const UserType = reify as Type<User>`")
	r.Println("  2. Run 'valgen' to preview the generated validators")
	r.Println("  3. Run 'valgen --write' to write them")
	return nil
}
