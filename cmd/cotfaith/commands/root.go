// Package commands implements the CLI commands for the cotfaith evaluator.
package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/cotfaith/internal/app"
	"go.trai.ch/cotfaith/internal/build"
	"go.trai.ch/cotfaith/internal/core/domain"
)

// CLI represents the command line interface for cotfaith.
type CLI struct {
	app     Application
	logs    LogSwitch
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) ([]domain.Report, error)
	Clear(ctx context.Context, pattern string) ([]string, error)
	DeleteAll(ctx context.Context) error
}

// LogSwitch changes the log format at runtime.
type LogSwitch interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// New creates a new CLI instance with the given app. logs may be nil.
func New(a Application, logs LogSwitch) *CLI {
	rootCmd := &cobra.Command{
		Use:           "cotfaith",
		Short:         "Measure how much reasoning models depend on their chain of thought",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          cobra.NoArgs,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	// The settings file is resolved before the command tree is built; see SettingsPath.
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the settings file")
	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	// -v belongs to --version.
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	c := &CLI{
		app:     a,
		logs:    logs,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = c.applyLogFlags
	rootCmd.RunE = c.runRoot

	rootCmd.Flags().String("clr", "", "Remove checkpoints whose description matches the glob pattern and exit")
	rootCmd.Flags().Bool("del", false, "Delete the checkpoint store and exit")
	rootCmd.MarkFlagsMutuallyExclusive("clr", "del")

	rootCmd.Flags().StringP("plan", "p", "", "Path to the experiment plan")
	rootCmd.Flags().BoolP("no-cache", "n", false, "Solve every problem without reading or writing checkpoints")
	rootCmd.Flags().BoolP("force", "f", false, "Recompute every result and overwrite its checkpoint")
	rootCmd.Flags().IntP("workers", "w", 0, "Number of problems solved concurrently (0 uses the configured value)")

	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) applyLogFlags(cmd *cobra.Command, _ []string) {
	if c.logs == nil {
		return
	}
	if jsonLogs, _ := cmd.Flags().GetBool("json"); jsonLogs {
		c.logs.SetJSON(true)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		c.logs.SetVerbose(true)
	}
}

func (c *CLI) runRoot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if cmd.Flags().Changed("clr") {
		pattern, _ := cmd.Flags().GetString("clr")
		removed, err := c.app.Clear(ctx, pattern)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "removed %d checkpoint(s) matching %q\n", len(removed), pattern)
		return nil
	}
	if del, _ := cmd.Flags().GetBool("del"); del {
		if err := c.app.DeleteAll(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "deleted checkpoint store")
		return nil
	}

	planPath, _ := cmd.Flags().GetString("plan")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	force, _ := cmd.Flags().GetBool("force")
	workers, _ := cmd.Flags().GetInt("workers")

	reports, err := c.app.Run(ctx, app.RunOptions{
		PlanPath: planPath,
		NoCache:  noCache,
		Force:    force,
		Workers:  workers,
	})
	// Finished experiments are still worth printing when a later one fails.
	PrintReports(out, reports)
	return err
}

// PrintReports writes one accuracy line per variant of every report.
func PrintReports(w io.Writer, reports []domain.Report) {
	for _, r := range reports {
		_, _ = fmt.Fprintf(w, "%s (%d problems)\n", r.Experiment, r.Problems)
		for _, s := range r.Scores {
			_, _ = fmt.Fprintf(w, "  %-12s %6.2f%%  cached %d, computed %d\n",
				string(s.Variant), s.Accuracy*100, s.Cached, s.Computed)
		}
	}
}

// SettingsPath returns the value of the --config/-c flag in args, or "".
// Settings are needed to build the application, so the flag is read before cobra parses args.
func SettingsPath(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return ""
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-c="):
			return strings.TrimPrefix(arg, "-c=")
		case strings.HasPrefix(arg, "-c") && !strings.HasPrefix(arg, "--"):
			return strings.TrimPrefix(arg, "-c")
		}
	}
	return ""
}
