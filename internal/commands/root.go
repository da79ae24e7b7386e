// Package commands implements every speeed command and wires them into the
// dispatcher. It uses the Cobra library for the process entry point; the
// command table itself lives in a dispatch.Registry so that shortcut tokens
// such as "-s" or "0" are looked up verbatim instead of being parsed as flags.
package commands

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/seraprogrammer/speeed/internal/config"
	"github.com/seraprogrammer/speeed/internal/console"
	"github.com/seraprogrammer/speeed/internal/dispatch"
	"github.com/seraprogrammer/speeed/internal/fsops"
	"github.com/seraprogrammer/speeed/internal/runner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// TemplateLister lists the templates published in the template repository
type TemplateLister interface {
	Templates(ctx context.Context) ([]string, error)
}

// TemplateInstaller copies one template into the working directory
type TemplateInstaller interface {
	Install(ctx context.Context, name string) (string, error)
}

// App carries everything a command handler needs.
// Handlers never touch os.Stdout or the real filesystem directly so they
// can be exercised with fakes.
type App struct {
	Config    *config.Config
	Console   *console.Console
	Runner    runner.Runner
	Files     *fsops.Ops
	Lister    TemplateLister
	Installer TemplateInstaller
	Log       logrus.FieldLogger

	// WorkDir is the directory commands operate in
	WorkDir string

	// Pick returns a number in [0, n). Used for the quick-commit message.
	Pick func(n int) int

	// Now returns the current time for the system report
	Now func() time.Time

	// Probe collects host details for "ping -p"
	Probe HostProbe
}

func (a *App) pick(n int) int {
	if a.Pick != nil {
		return a.Pick(n)
	}
	return rand.IntN(n)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRegistry builds the command table and alias table.
// The registration order is the order "help" lists commands in.
func NewRegistry(app *App) *dispatch.Registry {
	reg := dispatch.New()

	registerMisc(reg, app)
	registerGit(reg, app)
	registerTemplates(reg, app)
	registerNode(reg, app)
	registerFiles(reg, app)
	registerSystem(reg, app)
	registerConfig(reg, app)

	return reg
}

// NewRootCommand creates the cobra root command.
// Flag parsing is disabled: every argument, including ones that look like
// flags, reaches the dispatcher untouched.
func NewRootCommand(app *App) *cobra.Command {
	reg := NewRegistry(app)

	return &cobra.Command{
		Use:   "speeed <command> [args...]",
		Short: "Shortcuts for git, npm and project scaffolding",
		Long: `speeed forwards short commands to the tools you already use.

It wraps common git operations, npm/npx/pnpm scaffolds and package installs,
simple file and folder management, and installs starter templates from a
GitHub repository.

Example usage:
  # Stage, commit and push
  speeed -a
  speeed -c fix login redirect
  speeed -p

  # List and install templates
  speeed ready
  speeed install react-router

Run "speeed -h" for the full command list.`,

		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,

		// SilenceUsage prevents showing usage on errors
		SilenceUsage: true,

		// SilenceErrors prevents Cobra from printing errors; main prints them
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return reg.Dispatch(cmd.Context(), args)
		},
	}
}

// Execute runs one command line against app
func Execute(ctx context.Context, app *App, args []string) error {
	root := NewRootCommand(app)
	// cobra falls back to os.Args for nil
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(app.Console.Out)
	root.SetErr(app.Console.Err)
	return root.ExecuteContext(ctx)
}

// ReportError prints an error returned by Execute. Argument errors get the
// usage hint of their command when one exists.
func ReportError(c *console.Console, err error) {
	c.PrintError(err)
	if usage := dispatch.UsageOf(err); usage != "" {
		c.Info("Usage: %s", usage)
	}
}

// spawn runs one external command with the standard status lines.
// A failing child is reported and swallowed so the process still exits 0.
func (a *App) spawn(ctx context.Context, spec runner.Spec, failure string, success ...string) runner.Result {
	res := a.Runner.Run(ctx, spec)
	if res.OK() {
		for _, line := range success {
			a.Console.Success("%s", line)
		}
		return res
	}
	a.reportFailure(res, failure)
	return res
}

// reportFailure prints a child failure: the exit code for ExitError, an
// install hint when the executable is missing
func (a *App) reportFailure(res runner.Result, failure string) {
	switch err := res.Err.(type) {
	case *runner.ExitError:
		a.Console.Error("%s with code %d", failure, err.Code)
	case *runner.LaunchError:
		a.Console.Error("%s: %v", failure, err)
		if err.NotFound() {
			a.Console.Info("%s", installHint(err.Name))
		}
	default:
		a.Console.Error("%s: %v", failure, res.Err)
	}
}

func installHint(tool string) string {
	switch tool {
	case "npm", "npx", "node", "pnpm":
		return fmt.Sprintf("Make sure %s is installed and in your PATH. You can download Node.js from https://nodejs.org/", tool)
	case "git":
		return "Make sure git is installed and in your PATH. You can download it from https://git-scm.com/"
	default:
		return fmt.Sprintf("Make sure %s is installed and in your PATH.", tool)
	}
}
