package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/seraprogrammer/speeed/internal/dispatch"
	"github.com/seraprogrammer/speeed/internal/templates"
)

func registerTemplates(reg *dispatch.Registry, app *App) {
	reg.Register(dispatch.Command{
		Name: "ready", Aliases: []string{"-rd"},
		Summary: "List available templates",
		Run:     app.ready,
	})
	reg.Register(dispatch.Command{
		Name: "install", Aliases: []string{"-temp"}, Usage: "<name>",
		Summary: "Install a template into ./<name>",
		Run:     app.install,
	})
}

func (a *App) ready(ctx context.Context, _ []string) error {
	a.Console.Info("Fetching templates from the repository...")

	names, err := a.Lister.Templates(ctx)
	if err != nil {
		a.Console.Error("Failed to fetch templates: %v", err)
		return nil
	}

	a.Console.Println(foundLine(len(names)))
	for _, name := range names {
		a.Console.Println("- Template: " + name)
	}
	return nil
}

func foundLine(n int) string {
	if n == 1 {
		return "Found 1 template:"
	}
	return fmt.Sprintf("Found %d templates:", n)
}

func (a *App) install(ctx context.Context, args []string) error {
	const usage = "speeed install <name>"
	if len(args) == 0 {
		return dispatch.Missing("install", usage, "Please specify a template name (e.g., 'speeed install react-router').")
	}
	name := args[0]
	if err := templates.ValidateName(name); err != nil {
		return dispatch.Invalid("install", usage, "Invalid template name '%s'.", name)
	}

	target := filepath.Join(a.WorkDir, name)
	a.Console.Info("Installing %s template into %s...", name, target)

	if _, err := a.Installer.Install(ctx, name); err != nil {
		if errors.Is(err, templates.ErrTargetExists) {
			a.Console.Error("A folder named '%s' already exists in %s. Please remove it or choose a different directory.", name, a.WorkDir)
			return nil
		}
		a.Console.Error("Failed to install %s template: %v", name, err)
		return nil
	}

	a.Console.Success("Successfully installed %s template in %s", name, target)
	a.Console.Info("You can now cd into the directory: cd %s", name)
	return nil
}
