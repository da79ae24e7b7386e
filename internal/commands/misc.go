package commands

import (
	"context"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/seraprogrammer/speeed/internal/dispatch"
	"github.com/seraprogrammer/speeed/internal/runner"
	"github.com/seraprogrammer/speeed/pkg/version"
)

func registerMisc(reg *dispatch.Registry, app *App) {
	reg.Register(dispatch.Command{
		Name: "run", Usage: "<script> [args...]",
		Summary: "Run a JavaScript file with node",
		Run:     app.runScript,
	})
	reg.Register(dispatch.Command{
		Name: "help", Aliases: []string{"-h"},
		Summary: "Show this help",
		Run: func(_ context.Context, _ []string) error {
			app.help(reg)
			return nil
		},
	})
	reg.Register(dispatch.Command{
		Name: "version", Aliases: []string{"-v"}, Usage: "[-a]",
		Summary: "Show the version (-a adds build details)",
		Run:     app.version,
	})
	reg.Register(dispatch.Command{
		Name: "ziro", Aliases: []string{"0"},
		Summary: "Clear the terminal",
		Run:     app.ziro,
	})
}

func (a *App) help(reg *dispatch.Registry) {
	a.Console.Println("Usage: speeed <command> [args...]")
	a.Console.Println()
	a.Console.Println("Commands:")

	w := tabwriter.NewWriter(a.Console.Out, 0, 4, 2, ' ', 0)
	for _, cmd := range reg.Commands() {
		names := strings.Join(append([]string{cmd.Name}, cmd.Aliases...), ", ")
		line := "  " + names + "\t" + cmd.Usage + "\t" + cmd.Summary + "\n"
		if _, err := w.Write([]byte(line)); err != nil {
			a.Log.WithError(err).Debug("writing help")
			return
		}
	}
	if err := w.Flush(); err != nil {
		a.Log.WithError(err).Debug("writing help")
	}
}

func (a *App) version(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "-a" {
		a.Console.Println(version.String())
		return nil
	}
	a.Console.Printf("speeed version: %s\n", version.Short())
	return nil
}

// clearScreen returns the host's clear-screen command
func clearScreen(goos string) runner.Spec {
	if goos == "windows" {
		return runner.Spec{Name: "cmd", Args: []string{"/c", "cls"}}
	}
	return runner.Spec{Name: "clear"}
}

func (a *App) ziro(ctx context.Context, _ []string) error {
	res := a.Runner.Run(ctx, clearScreen(runtime.GOOS))
	if _, launch := res.Err.(*runner.LaunchError); launch {
		a.Console.Error("Error clearing terminal: %v", res.Err)
	}
	return nil
}
