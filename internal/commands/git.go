package commands

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/seraprogrammer/speeed/internal/dispatch"
	"github.com/seraprogrammer/speeed/internal/runner"
)

// quickCommitMessages are picked from by the "git" workflow
var quickCommitMessages = []string{
	"Initial commit",
	"Work in progress",
	"Feature update",
	"Bug fixes",
	"Code cleanup",
}

func registerGit(reg *dispatch.Registry, app *App) {
	reg.Register(dispatch.Command{
		Name: "init", Aliases: []string{"-i"},
		Summary: "Initialize a git repository",
		Run:     app.gitInit,
	})
	reg.Register(dispatch.Command{
		Name: "add", Aliases: []string{"-a"}, Usage: "[paths...]",
		Summary: "Stage changes (everything when no path is given)",
		Run:     app.gitAdd,
	})
	reg.Register(dispatch.Command{
		Name: "commit", Aliases: []string{"-c"}, Usage: "<message...>",
		Summary: "Commit staged changes",
		Run:     app.gitCommit,
	})
	reg.Register(dispatch.Command{
		Name: "branch", Aliases: []string{"-b"},
		Summary: "List branches",
		Run:     app.gitBranch,
	})
	reg.Register(dispatch.Command{
		Name: "reBranch", Aliases: []string{"-br"},
		Summary: "Rename the current branch to the default branch",
		Run:     app.gitReBranch,
	})
	reg.Register(dispatch.Command{
		Name: "status", Aliases: []string{"-s"},
		Summary: "Check the git status",
		Run:     app.gitStatus,
	})
	reg.Register(dispatch.Command{
		Name: "push", Aliases: []string{"-p"}, Usage: "[-f]",
		Summary: "Push to the remote default branch (-f to force)",
		Run:     app.gitPush,
	})
	reg.Register(dispatch.Command{
		Name: "remote", Aliases: []string{"-r"},
		Summary: "Show remote repositories",
		Run:     app.gitRemote,
	})
	reg.Register(dispatch.Command{
		Name: "remove", Aliases: []string{"-rm"},
		Summary: "Remove the default remote",
		Run:     app.gitRemoveRemote,
	})
	reg.Register(dispatch.Command{
		Name: "addRemote", Aliases: []string{"-add"}, Usage: "<url>",
		Summary: "Add the default remote",
		Run:     app.gitAddRemote,
	})
	reg.Register(dispatch.Command{
		Name: "checkout", Aliases: []string{"-co"}, Usage: "<branch>",
		Summary: "Switch branches",
		Run:     app.gitCheckout,
	})
	reg.Register(dispatch.Command{
		Name: "log", Aliases: []string{"-l"},
		Summary: "Show commit logs",
		Run:     app.gitLog,
	})
	reg.Register(dispatch.Command{
		Name: "merge", Aliases: []string{"-m"}, Usage: "<branch>",
		Summary: "Merge a branch into the current one",
		Run:     app.gitMerge,
	})
	reg.Register(dispatch.Command{
		Name: "reset", Aliases: []string{"-re"}, Usage: "<commit>",
		Summary: "Hard reset HEAD to a commit",
		Run:     app.gitReset,
	})
	reg.Register(dispatch.Command{
		Name: "clone", Aliases: []string{"-cp"}, Usage: "<url>",
		Summary: "Clone a repository",
		Run:     app.gitClone,
	})
	reg.Register(dispatch.Command{
		Name: "git", Aliases: []string{"-git"},
		Summary: "Initialize, add, commit and rename the branch in one go",
		Run:     app.gitQuickstart,
	})
}

func (a *App) git(args ...string) runner.Spec {
	return runner.Spec{Name: a.Config.Tools.Git, Args: args}
}

func (a *App) gitInit(ctx context.Context, _ []string) error {
	a.Console.Info("Initializing git repository...")
	a.spawn(ctx, a.git("init"), "Git init failed", "Git repository initialized successfully.")
	return nil
}

func (a *App) gitAdd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.Console.Info(`Running "git add ." to stage all changes...`)
		a.spawn(ctx, a.git("add", "."), "Git add failed", "All changes have been staged.")
		return nil
	}

	paths := strings.Join(args, " ")
	a.Console.Info("Staging: %s...", paths)
	a.spawn(ctx, a.git(append([]string{"add"}, args...)...),
		"Git add failed for "+paths, paths+" has been staged.")
	return nil
}

func (a *App) gitCommit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return dispatch.Missing("commit", "speeed commit <message...>", "Please provide a commit message.")
	}

	message := strings.Join(args, " ")
	a.Console.Info("Committing changes with message: %q...", message)
	a.spawn(ctx, a.git("commit", "-m", message), "Git commit failed", "Changes committed successfully.")
	return nil
}

func (a *App) gitBranch(ctx context.Context, _ []string) error {
	a.Console.Info("Listing all branches...")
	a.spawn(ctx, a.git("branch"), "Git branch command failed")
	return nil
}

func (a *App) gitReBranch(ctx context.Context, _ []string) error {
	branch := a.Config.Git.Branch
	a.Console.Info("Renaming the current branch to %q...", branch)
	a.spawn(ctx, a.git("branch", "-M", branch), "Git branch rename failed",
		"Branch successfully renamed to \""+branch+"\".")
	return nil
}

func (a *App) gitStatus(ctx context.Context, _ []string) error {
	a.Console.Info("Checking git status...")
	a.spawn(ctx, a.git("status"), "Git status failed")
	return nil
}

func (a *App) gitPush(ctx context.Context, args []string) error {
	remote, branch := a.Config.Git.Remote, a.Config.Git.Branch
	pushArgs := []string{"push", "-u", remote, branch}

	if slices.Contains(args, "-f") {
		pushArgs = append(pushArgs, "--force")
		a.Console.Info("Force pushing to %s %s...", remote, branch)
	} else {
		a.Console.Info("Pushing to %s %s...", remote, branch)
	}

	a.spawn(ctx, a.git(pushArgs...), "Git push failed", "Push successful.")
	return nil
}

func (a *App) gitRemote(ctx context.Context, _ []string) error {
	a.Console.Info("Showing git remote repositories...")
	a.spawn(ctx, a.git("remote", "-v"), "Git remote failed")
	return nil
}

func (a *App) gitRemoveRemote(ctx context.Context, _ []string) error {
	remote := a.Config.Git.Remote
	a.Console.Info("Removing remote %q...", remote)
	a.spawn(ctx, a.git("remote", "remove", remote),
		"Failed to remove remote \""+remote+"\"", "Remote \""+remote+"\" removed successfully.")
	return nil
}

func (a *App) gitAddRemote(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return dispatch.Missing("addRemote", "speeed addRemote <url>", "Please provide a remote repository URL.")
	}

	remote, url := a.Config.Git.Remote, args[0]
	a.Console.Info("Adding remote %q with URL: %s...", remote, url)
	a.spawn(ctx, a.git("remote", "add", remote, url),
		"Failed to add remote \""+remote+"\"", "Remote \""+remote+"\" added successfully: "+url)
	return nil
}

func (a *App) gitCheckout(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return dispatch.Missing("checkout", "speeed checkout <branch>", "Please provide a branch name to checkout.")
	}

	branch := args[0]
	a.Console.Info("Switching to branch %q...", branch)
	a.spawn(ctx, a.git("checkout", branch),
		"Failed to switch to branch \""+branch+"\"", "Switched to branch \""+branch+"\".")
	return nil
}

func (a *App) gitLog(ctx context.Context, _ []string) error {
	a.Console.Info("Fetching git log (oneline format)...")
	a.spawn(ctx, a.git("log", "--oneline"), "Git log command failed")
	return nil
}

func (a *App) gitMerge(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return dispatch.Missing("merge", "speeed merge <branch>", "Please provide a branch name to merge.")
	}

	branch := args[0]
	a.Console.Info("Merging branch '%s'...", branch)
	a.spawn(ctx, a.git("merge", branch), "Git merge failed", "Branch '"+branch+"' merged successfully.")
	return nil
}

func (a *App) gitReset(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return dispatch.Missing("reset", "speeed reset <commit>", "Please provide a commit to reset to.")
	}

	commit := args[0]
	a.Console.Info("Resetting to commit '%s'...", commit)
	a.spawn(ctx, a.git("reset", "--hard", commit), "Git reset failed", "Reset to commit '"+commit+"' completed.")
	return nil
}

func (a *App) gitClone(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return dispatch.Missing("clone", "speeed clone <url>", "Please provide a repository URL to clone.")
	}

	url := args[0]
	a.Console.Info("Cloning repository from '%s'...", url)
	a.spawn(ctx, a.git("clone", url), "Git clone failed", "Repository '"+url+"' cloned successfully.")
	return nil
}

// gitQuickstart runs init, add, commit and branch rename, stopping at the
// first step that fails
func (a *App) gitQuickstart(ctx context.Context, _ []string) error {
	a.Console.Info("Starting git operations...")

	message := quickCommitMessages[a.pick(len(quickCommitMessages))]
	branch := a.Config.Git.Branch

	err := runner.Pipeline(ctx,
		runner.Command(a.Runner, "init", a.git("init")),
		runner.Command(a.Runner, "add", a.git("add", ".")),
		runner.Command(a.Runner, "commit", a.git("commit", "-m", message)),
		runner.Command(a.Runner, "branch rename", a.git("branch", "-M", branch)),
	)
	if err != nil {
		var stepErr *runner.StepError
		if errors.As(err, &stepErr) {
			a.reportFailure(runner.Result{Err: stepErr.Err}, "Git "+stepErr.Step+" failed")
			return nil
		}
		return err
	}

	a.Console.Success("Git operations completed successfully:")
	a.Console.Println("- Initialized repository")
	a.Console.Println("- Added all files")
	a.Console.Printf("- Committed with message: %q\n", message)
	a.Console.Printf("- Renamed branch to %s\n", branch)
	return nil
}
