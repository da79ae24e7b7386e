package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/seraprogrammer/speeed/internal/dispatch"
	"github.com/seraprogrammer/speeed/internal/runner"
)

const (
	// reactKeystrokes moves the create-vite framework prompt down twice
	// (to "React") and confirms
	reactKeystrokes = "\x1b[B\x1b[B\n"

	tsNodeCompilerOptions = `{"module":"commonjs","moduleResolution":"node"}`
)

func registerNode(reg *dispatch.Registry, app *App) {
	reg.Register(dispatch.Command{
		Name: "vite", Aliases: []string{"-vite"},
		Summary: "Create a new Vite project",
		Run:     app.vite,
	})
	reg.Register(dispatch.Command{
		Name: "vilo", Aliases: []string{"-vilo"},
		Summary: "Create a new vilo project",
		Run:     app.vilo,
	})
	reg.Register(dispatch.Command{
		Name: "next", Aliases: []string{"-next"},
		Summary: "Create a new Next.js project",
		Run:     app.next,
	})
	reg.Register(dispatch.Command{
		Name: "react", Aliases: []string{"-react"},
		Summary: "Create a Vite + React project in ./react",
		Run:     app.react,
	})
	reg.Register(dispatch.Command{
		Name: "ts", Aliases: []string{"-ts"}, Usage: "<file> [-c] [args...]",
		Summary: "Run a TypeScript file directly (-c compiles it instead)",
		Run:     app.ts,
	})
	reg.Register(dispatch.Command{
		Name: "get", Aliases: []string{"-g"}, Usage: "<package> [g|-g]",
		Summary: "Install an npm package (g for global)",
		Run:     app.get,
	})
	reg.Register(dispatch.Command{
		Name: "pnpm", Aliases: []string{"-pn"}, Usage: "i | get <package> | <file> [args...]",
		Summary: "Install PNPM, add a package with it, or run a file with it",
		Run:     app.pnpm,
	})
}

func (a *App) runScript(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return dispatch.Missing("run", "speeed run <script> [args...]", "Please specify a script to run.")
	}

	a.spawn(ctx, runner.Spec{Name: a.Config.Tools.Node, Args: args}, "Script exited")
	return nil
}

// scaffold runs a project generator after probing for npm. When the
// generator fails and npm was not found, the install hint is printed.
func (a *App) scaffold(ctx context.Context, spec runner.Spec, failure string, success ...string) {
	_, probeErr := a.Runner.LookPath(a.Config.Tools.Npm)
	if probeErr != nil {
		a.Log.WithError(probeErr).Debug("npm probe failed")
	}

	res := a.spawn(ctx, spec, failure, success...)
	if !res.OK() && probeErr != nil {
		if _, launch := res.Err.(*runner.LaunchError); !launch {
			a.Console.Info("%s", installHint(a.Config.Tools.Npm))
		}
	}
}

func (a *App) vite(ctx context.Context, _ []string) error {
	a.Console.Info("Creating new Vite project...")
	a.scaffold(ctx, runner.Spec{Name: a.Config.Tools.Npm, Args: []string{"create", "vite@latest"}},
		"Vite project creation failed", "Vite project created successfully.")
	return nil
}

func (a *App) vilo(ctx context.Context, _ []string) error {
	a.Console.Info("Creating new vilo project...")
	a.scaffold(ctx, runner.Spec{Name: a.Config.Tools.Npm, Args: []string{"create", "vilo@latest"}},
		"vilo project creation failed", "vilo project created successfully.")
	return nil
}

func (a *App) next(ctx context.Context, _ []string) error {
	a.Console.Info("Creating new Next.js project...")
	a.scaffold(ctx, runner.Spec{Name: a.Config.Tools.Npx, Args: []string{"create-next-app@latest"}},
		"Next.js project creation failed", "Next.js project created successfully.")
	return nil
}

func (a *App) react(ctx context.Context, _ []string) error {
	a.Console.Info("Setting up a new project with Vite for React...")
	a.Console.Info("Using npm to create a new Vite project in 'react' folder...")

	spec := runner.Spec{
		Name: a.Config.Tools.Npm,
		Args: []string{"create", "vite@latest", "react"},
		Input: &runner.Input{
			Delay: a.Config.Scaffold.KeystrokeDelay,
			Data:  []byte(reactKeystrokes),
		},
	}
	a.scaffold(ctx, spec, "Failed to create project", "Project created successfully in 'react' folder!")
	return nil
}

func (a *App) ts(ctx context.Context, args []string) error {
	const usage = "speeed ts <file> [-c] [args...]"
	compile := slices.Contains(args, "-c")
	rest := slices.DeleteFunc(slices.Clone(args), func(s string) bool { return s == "-c" })
	if len(rest) == 0 {
		return dispatch.Missing("ts", usage, "Please specify a TypeScript file to run.")
	}
	file := rest[0]

	if compile {
		a.Console.Info("Compiling TypeScript file: %s", file)
	} else {
		a.Console.Info("Running TypeScript file: %s", file)
	}

	out, _ := a.Runner.Output(ctx, runner.Spec{Name: a.Config.Tools.Npm, Args: []string{"list", "typescript"}})
	if strings.TrimSpace(out) == "" || strings.Contains(out, "(empty)") {
		a.Console.Info("TypeScript is not installed. Installing dependencies...")
		install := a.Runner.Run(ctx, runner.Spec{
			Name: a.Config.Tools.Npm,
			Args: []string{"install", "--save-dev", "typescript", "ts-node"},
		})
		if !install.OK() {
			return fmt.Errorf("failed to install dependencies (%v). Please try manually: npm install --save-dev typescript ts-node", install.Err)
		}
		a.Console.Success("Dependencies installed successfully.")
	}

	if compile {
		jsFile := strings.TrimSuffix(file, ".ts") + ".js"
		a.spawn(ctx, runner.Spec{
			Name: a.Config.Tools.Npx,
			Args: []string{"tsc", file, "--target", "ES2016", "--module", "CommonJS"},
		}, "TypeScript compilation failed", "Successfully compiled to "+jsFile)
		return nil
	}

	a.spawn(ctx, runner.Spec{
		Name: a.Config.Tools.Npx,
		Args: append([]string{"ts-node", "--transpile-only", "--prefer-ts-exts", "--files", file}, rest[1:]...),
		Env:  []string{"TS_NODE_COMPILER_OPTIONS=" + tsNodeCompilerOptions},
	}, "TypeScript execution exited")
	return nil
}

func (a *App) get(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return dispatch.Missing("get", "speeed get <package> [g|-g]", "Please specify a package to install.")
	}

	pkg := args[0]
	global := slices.Contains(args[1:], "g") || slices.Contains(args[1:], "-g")

	installArgs := []string{"install"}
	where := "in your project"
	if global {
		installArgs = append(installArgs, "-g")
		where = "from anywhere"
		a.Console.Info("Installing %s globally...", pkg)
	} else {
		a.Console.Info("Installing %s locally...", pkg)
	}
	installArgs = append(installArgs, pkg)

	res := a.spawn(ctx, runner.Spec{Name: a.Config.Tools.Npm, Args: installArgs}, "Failed to install "+pkg)
	if res.OK() {
		a.Console.Success("Successfully installed %s", pkg)
		a.Console.Printf("You can now use %s %s\n", pkg, where)
	}
	return nil
}

func (a *App) pnpm(ctx context.Context, args []string) error {
	const usage = "speeed pnpm i | get <package> | <file> [args...]"
	if len(args) == 0 {
		return dispatch.Missing("pnpm", usage, "Please specify a file to run or an operation.")
	}

	switch op := args[0]; op {
	case "i", "install":
		a.Console.Info("Installing PNPM globally...")
		a.spawn(ctx, runner.Spec{Name: a.Config.Tools.Npm, Args: []string{"install", "-g", "pnpm@latest-10"}},
			"PNPM installation failed", "PNPM installed successfully")

	case "get":
		if len(args) < 2 {
			return dispatch.Missing("pnpm", usage, "Please specify a package to install.")
		}
		pkg := args[1]
		a.Console.Info("Installing %s using PNPM...", pkg)
		a.spawn(ctx, runner.Spec{Name: a.Config.Tools.Pnpm, Args: []string{"add", pkg}},
			"Failed to install "+pkg, "Successfully installed "+pkg)

	default:
		a.Console.Info("Running %s with PNPM...", op)
		a.spawn(ctx, runner.Spec{Name: a.Config.Tools.Pnpm, Args: append([]string{"node"}, args...)},
			"Script exited")
	}
	return nil
}
