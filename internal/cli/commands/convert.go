package commands

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/leapstack-labs/valgen/internal/cli/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// ConvertOptions are the convert flags that are not configuration keys.
type ConvertOptions struct {
	Check bool
	Write bool
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [files or globs...]",
		Short: "Generate validators for reified types",
		Long: `Generate typed-validators code for every type reified in the given files.

A reification site is a cast like

  const UserValidator = reify as Type<User>

valgen converts the type named by each site into a validator, declares
validators for the types it references, and adds the imports and exports
they need, following imports into other files.

Without arguments the include patterns of valgen.yaml are converted.
A unified diff of every changed file is printed before anything is
written. On a terminal valgen asks before writing; use --write to write
without asking, or --check to fail when files are out of date.`,
		Example: `  # Preview and confirm changes
  valgen convert 'src/**/*.ts'

  # Write without asking
  valgen convert -w src/

  # Fail in CI when validators are stale
  valgen convert --check --quiet

  # Machine readable result
  valgen convert --output json src/api.ts`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunConvert(cmd, args, opts)
		},
	}

	AddConvertFlags(cmd.Flags(), opts)
	return cmd
}

// AddConvertFlags registers the convert flags on fs.
func AddConvertFlags(fs *pflag.FlagSet, opts *ConvertOptions) {
	fs.BoolVarP(&opts.Check, "check", "c", false, "Exit with status 1 if any file needs validators updated")
	fs.BoolVarP(&opts.Write, "write", "w", false, "Write changes without asking for confirmation")
	fs.BoolP("quiet", "q", false, "Reduce output")
	fs.Bool("default-exact", true, "Treat object types without an exactness marker as exact")
	fs.String("namespace", "", "Namespace identifier for a new typed-validators import")
	fs.Bool("verify", false, "Check that converted TypeScript still parses before writing")
	fs.IntP("concurrency", "j", 0, "Files converted at once (0 = number of CPUs)")
}

// RunConvert converts the files named by args.
func RunConvert(cmd *cobra.Command, args []string, opts *ConvertOptions) error {
	if opts.Check && opts.Write {
		return errors.New("--check and --write cannot be used together")
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	paths, err := cmdCtx.Expand(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		r.Warning("No files matched.")
		return nil
	}
	cmdCtx.Logger.Debug("converting files", "count", len(paths))

	run, err := cmdCtx.Convert(cmd.Context(), paths)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return convertJSON(cmdCtx, run, opts)
	}
	return convertText(cmdCtx, run, opts)
}

// convertText reports a run for people and writes the changes.
func convertText(c *CommandContext, run *ConvertRun, opts *ConvertOptions) error {
	r := c.Renderer
	quiet := c.Cfg.Quiet

	failed := run.Failed()
	for _, fc := range failed {
		reportFailure(c, fc)
	}
	code := ExitOK
	if len(failed) > 0 {
		code = ExitConvertFail
	}

	changed := run.Changed()
	if !quiet {
		for _, fc := range changed {
			if err := r.Diff(c.RelPath(fc.Path), fc.Before, fc.After); err != nil {
				return err
			}
		}
		printSummary(c, run)
	}

	if opts.Check {
		if len(changed) > 0 {
			if !quiet {
				r.Warning(fmt.Sprintf("%d files need validators updated.", len(changed)))
			}
			return &StatusError{Code: max(code, ExitNeedsUpdate)}
		}
		if !quiet && code == ExitOK {
			r.Success("All matched files are up-to-date!")
		}
		return statusError(code)
	}

	if len(changed) == 0 {
		if !quiet && code == ExitOK {
			r.Success("All matched files are up-to-date!")
		}
		return statusError(code)
	}

	if !opts.Write {
		if !canPrompt(r) {
			r.Warning(fmt.Sprintf("%d files would change. Run with --write to write them.", len(changed)))
			return statusError(code)
		}
		ok, err := confirm("Write changes? [y/N] ", os.Stdin, r.ErrWriter())
		if err != nil {
			return err
		}
		if !ok {
			return statusError(code)
		}
	}

	if err := c.Write(changed); err != nil {
		return err
	}
	if !quiet {
		r.Success(fmt.Sprintf("Wrote %d files.", len(changed)))
	}
	return statusError(code)
}

// convertJSON reports a run as JSON. Files are written only with --write.
func convertJSON(c *CommandContext, run *ConvertRun, opts *ConvertOptions) error {
	changed := run.Changed()
	failed := run.Failed()

	if opts.Write && len(changed) > 0 {
		if err := c.Write(changed); err != nil {
			return err
		}
	}

	out := output.ConvertOutput{
		Files:     make([]output.FileResult, 0, len(run.Files)),
		Changed:   len(changed),
		Failed:    len(failed),
		Written:   opts.Write && len(changed) > 0,
		UpToDate:  len(changed) == 0 && len(failed) == 0,
		TotalRead: run.Loaded,
	}
	for _, fc := range run.Files {
		fr := output.FileResult{
			Path:    c.RelPath(fc.Path),
			Status:  fc.Status,
			Added:   fc.Added,
			Removed: fc.Removed,
			Diff:    fc.Diff,
		}
		if fc.Err != nil {
			fr.Error = fc.Err.Error()
			fr.Hint = errors.FlattenHints(fc.Err)
		}
		out.Files = append(out.Files, fr)
	}
	if err := c.Renderer.JSON(out); err != nil {
		return err
	}

	code := ExitOK
	if len(failed) > 0 {
		code = ExitConvertFail
	}
	if opts.Check && len(changed) > 0 {
		code = max(code, ExitNeedsUpdate)
	}
	return statusError(code)
}

// printSummary writes one table row per file of the run.
func printSummary(c *CommandContext, run *ConvertRun) {
	if len(run.Files) == 0 {
		return
	}
	rows := make([][]string, 0, len(run.Files))
	for _, fc := range run.Files {
		lines := ""
		if fc.Status == StatusChanged || fc.Status == StatusWritten {
			lines = fmt.Sprintf("+%d -%d", fc.Added, fc.Removed)
		}
		rows = append(rows, []string{c.RelPath(fc.Path), output.Title(fc.Status), lines})
	}
	c.Renderer.Header(2, "Summary")
	c.Renderer.Table([]string{"File", "Status", "Lines"}, rows)
}

func reportFailure(c *CommandContext, fc *FileChange) {
	c.Renderer.Error(fmt.Sprintf("%s: %v", c.RelPath(fc.Path), fc.Err))
	if hint := errors.FlattenHints(fc.Err); hint != "" {
		_, _ = fmt.Fprintf(c.Renderer.ErrWriter(), "  hint: %s\n", hint)
	}
}

// canPrompt reports whether the user can answer a confirmation prompt.
func canPrompt(r *output.Renderer) bool {
	return r.IsTTY() && term.IsTerminal(int(os.Stdin.Fd()))
}

func statusError(code int) error {
	if code == ExitOK {
		return nil
	}
	return &StatusError{Code: code}
}
