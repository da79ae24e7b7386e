package commands

import (
	"context"
	"fmt"

	"github.com/seraprogrammer/speeed/internal/dispatch"
	"gopkg.in/yaml.v3"
)

const redacted = "********"

func registerConfig(reg *dispatch.Registry, app *App) {
	reg.Register(dispatch.Command{
		Name: "config", Usage: "show | validate",
		Summary: "Show or validate the effective configuration",
		Run:     app.configCmd,
	})
}

func (a *App) configCmd(_ context.Context, args []string) error {
	const usage = "speeed config show | speeed config validate"
	if len(args) == 0 {
		return dispatch.Missing("config", usage, "Please specify 'show' or 'validate'.")
	}

	switch args[0] {
	case "show":
		return a.configShow()
	case "validate":
		return a.configValidate()
	default:
		return dispatch.Invalid("config", usage, "Unknown config operation '%s'.", args[0])
	}
}

func (a *App) configShow() error {
	shown := *a.Config
	if shown.Templates.Token != "" {
		shown.Templates.Token = redacted
	}

	out, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	a.Console.Printf("%s", out)
	return nil
}

func (a *App) configValidate() error {
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	t := a.Config.Templates
	a.Console.Success("Configuration is valid")
	a.Console.Printf("Templates:     %s/%s (%s, branch %s)\n", t.Owner, t.Repo, t.Path, t.Branch)
	a.Console.Printf("Clone backend: %s\n", t.CloneBackend)
	a.Console.Printf("Git defaults:  %s %s\n", a.Config.Git.Remote, a.Config.Git.Branch)
	return nil
}
