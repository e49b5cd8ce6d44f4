// Package cli provides the command-line interface for valgen.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/leapstack-labs/valgen/internal/cli/commands"
	"github.com/leapstack-labs/valgen/internal/cli/config"
	"github.com/leapstack-labs/valgen/internal/cli/output"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command. Run without a
// subcommand it converts files, like convert.
func NewRootCmd() *cobra.Command {
	convertOpts := &commands.ConvertOptions{}

	rootCmd := &cobra.Command{
		Use:   "valgen [files or globs...]",
		Short: "valgen - runtime validators from TypeScript and Flow types",
		Long: `valgen generates typed-validators code from TypeScript and Flow type
annotations.

Mark a type for reification with

  const UserType = reify as Type<User>

and valgen replaces the cast with a validator, declaring validators for
every type it references across files. Run without a subcommand valgen
behaves like convert.`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)

			logger := newLogger(cmd, cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)

			mode := output.Mode(cfg.OutputFormat)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunConvert(cmd, args, convertOpts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./valgen.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	rootCmd.PersistentFlags().String("validator-name", "", "Starlark expression deriving a validator name from `name`")
	rootCmd.PersistentFlags().String("library", "", "Module generated code imports validators from")
	rootCmd.PersistentFlags().Int("source-cache-size", 0, "Number of source files kept in memory")

	commands.AddConvertFlags(rootCmd.Flags(), convertOpts)

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewConvertCommand())
	rootCmd.AddCommand(commands.NewGraphCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger builds the stderr logger of a run. Verbose runs log debug
// records, quiet runs only warnings and errors.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case cfg.Verbose:
		level = slog.LevelDebug
	case cfg.Quiet:
		level = slog.LevelWarn
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("run_id", uuid.NewString())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err != nil && !commands.IsSilent(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return commands.ExitCode(err)
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	c := &config.Config{
		SourceCacheSize: config.DefaultSourceCacheSize,
		OutputFormat:    config.DefaultOutput,
	}
	c.ApplyDefaults()
	return c
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	// Return default renderer if none in context
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for valgen.

To load completions:

Bash:
  $ source <(valgen completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ valgen completion bash > /etc/bash_completion.d/valgen
  # macOS:
  $ valgen completion bash > $(brew --prefix)/etc/bash_completion.d/valgen

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ valgen completion zsh > "${fpath[1]}/_valgen"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ valgen completion fish | source

  # To load completions for each session, execute once:
  $ valgen completion fish > ~/.config/fish/completions/valgen.fish

PowerShell:
  PS> valgen completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> valgen completion powershell > valgen.ps1
  # and source this file from your PowerShell profile.
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
