package commands

import (
	"context"
	"strings"

	"github.com/seraprogrammer/speeed/internal/dispatch"
	"github.com/seraprogrammer/speeed/internal/fsops"
)

func registerFiles(reg *dispatch.Registry, app *App) {
	reg.Register(dispatch.Command{
		Name: "create", Aliases: []string{"-mk"}, Usage: "<file|folder> <name>",
		Summary: "Create an empty file or a folder",
		Run:     app.create,
	})
	reg.Register(dispatch.Command{
		Name: "update", Aliases: []string{"-up"}, Usage: "file <name> [content...] | folder <name> <new-name>",
		Summary: "Overwrite a file's content or rename a folder",
		Run:     app.update,
	})
	reg.Register(dispatch.Command{
		Name: "delete", Aliases: []string{"-del"}, Usage: "<file|folder> <name>",
		Summary: "Delete a file or a folder",
		Run:     app.delete,
	})
	reg.Register(dispatch.Command{
		Name: "list", Aliases: []string{"-ls"}, Usage: "[files|folders] [glob]",
		Summary: "List files and folders in the current directory",
		Run:     app.list,
	})
}

// kindArg parses the file|folder selector shared by create, update and delete
func kindArg(command, usage, value string) (fsops.Kind, error) {
	kind, err := fsops.ParseKind(value)
	if err != nil {
		return "", dispatch.Invalid(command, usage, "Invalid type '%s'. Use 'file' or 'folder'.", value)
	}
	return kind, nil
}

func (a *App) create(_ context.Context, args []string) error {
	const usage = "speeed create <file|folder> <name>"
	if len(args) < 2 {
		return dispatch.Missing("create", usage, "Please specify what to create and its name.")
	}
	kind, err := kindArg("create", usage, args[0])
	if err != nil {
		return err
	}
	name := args[1]

	a.Console.Info("Creating %s: %s", kind, name)
	if err := a.Files.Create(kind, name); err != nil {
		a.Console.PrintError(err)
		return nil
	}
	a.Console.Success("%s '%s' created successfully.", kind.Title(), name)
	return nil
}

func (a *App) update(_ context.Context, args []string) error {
	const usage = "speeed update file <name> [content...] | speeed update folder <name> <new-name>"
	if len(args) < 2 {
		return dispatch.Missing("update", usage, "Please specify what to update and its name.")
	}
	kind, err := kindArg("update", usage, args[0])
	if err != nil {
		return err
	}
	name := args[1]

	if kind == fsops.File {
		if err := a.Files.UpdateFile(name, strings.Join(args[2:], " ")); err != nil {
			a.Console.PrintError(err)
			return nil
		}
		a.Console.Success("File '%s' updated successfully.", name)
		return nil
	}

	if len(args) < 3 {
		return dispatch.Missing("update", usage, "Please specify the new folder name.")
	}
	newName := args[2]
	if err := a.Files.RenameFolder(name, newName); err != nil {
		a.Console.PrintError(err)
		return nil
	}
	a.Console.Success("Folder '%s' renamed to '%s'.", name, newName)
	return nil
}

func (a *App) delete(_ context.Context, args []string) error {
	const usage = "speeed delete <file|folder> <name>"
	if len(args) < 2 {
		return dispatch.Missing("delete", usage, "Please specify what to delete and its name.")
	}
	kind, err := kindArg("delete", usage, args[0])
	if err != nil {
		return err
	}
	name := args[1]

	a.Console.Info("Deleting %s: %s", kind, name)
	if err := a.Files.Delete(kind, name); err != nil {
		a.Console.PrintError(err)
		return nil
	}
	a.Console.Success("%s '%s' deleted successfully.", kind.Title(), name)
	return nil
}

func (a *App) list(_ context.Context, args []string) error {
	var opts fsops.ListOptions
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "files":
			opts.Only = fsops.File
			args = args[1:]
		case "folders":
			opts.Only = fsops.Folder
			args = args[1:]
		}
	}
	if len(args) > 0 {
		opts.Pattern = args[0]
	}

	listing, err := a.Files.List(opts)
	if err != nil {
		a.Console.PrintError(err)
		return nil
	}

	a.Console.Info("Listing files and folders in %s:", a.WorkDir)
	if opts.Only != fsops.File {
		a.Console.Println("Folders:")
		for _, name := range listing.Folders {
			a.Console.Println("  " + name)
		}
	}
	if opts.Only != fsops.Folder {
		a.Console.Println("Files:")
		for _, name := range listing.Files {
			a.Console.Println("  " + name)
		}
	}
	return nil
}
