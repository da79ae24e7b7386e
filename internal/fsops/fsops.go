// Package fsops implements the file and folder CRUD commands on top of an
// afero filesystem rooted at the working directory.
package fsops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

var (
	// ErrAlreadyExists is returned when the target of a create or rename is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotFound is returned when the entry to update or delete is missing.
	ErrNotFound = errors.New("not found")
)

// Kind selects between files and folders.
type Kind string

const (
	File   Kind = "file"
	Folder Kind = "folder"
)

// ParseKind accepts "file" or "folder" in any case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case File, Folder:
		return k, nil
	default:
		return "", fmt.Errorf("invalid type '%s'. Use 'file' or 'folder'", s)
	}
}

// Title returns "File" or "Folder" for status lines.
func (k Kind) Title() string {
	if k == Folder {
		return "Folder"
	}
	return "File"
}

// Ops performs the CRUD operations relative to a root directory.
type Ops struct {
	fs   afero.Fs
	root string
}

// New returns Ops working on fs under root.
func New(fs afero.Fs, root string) *Ops {
	return &Ops{fs: fs, root: root}
}

func (o *Ops) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.root, name)
}

// Create makes an empty file or a folder. It never overwrites.
func (o *Ops) Create(kind Kind, name string) error {
	p := o.path(name)
	exists, err := afero.Exists(o.fs, p)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", kind, err)
	}
	if exists {
		return fmt.Errorf("%s '%s' %w", kind, name, ErrAlreadyExists)
	}

	if kind == Folder {
		if err := o.fs.Mkdir(p, 0o755); err != nil {
			return fmt.Errorf("error creating folder: %w", err)
		}
		return nil
	}

	f, err := o.fs.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("file '%s' %w", name, ErrAlreadyExists)
		}
		return fmt.Errorf("error creating file: %w", err)
	}
	return f.Close()
}

// UpdateFile replaces the content of an existing file.
func (o *Ops) UpdateFile(name, content string) error {
	p := o.path(name)
	info, err := o.fs.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file '%s' %w", name, ErrNotFound)
		}
		return fmt.Errorf("error updating file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("error updating file: '%s' is a folder", name)
	}
	if err := afero.WriteFile(o.fs, p, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("error updating file: %w", err)
	}
	return nil
}

// RenameFolder renames an existing folder to a free name.
func (o *Ops) RenameFolder(name, newName string) error {
	src, dst := o.path(name), o.path(newName)
	ok, err := afero.DirExists(o.fs, src)
	if err != nil {
		return fmt.Errorf("error updating folder: %w", err)
	}
	if !ok {
		return fmt.Errorf("folder '%s' %w", name, ErrNotFound)
	}
	taken, err := afero.Exists(o.fs, dst)
	if err != nil {
		return fmt.Errorf("error updating folder: %w", err)
	}
	if taken {
		return fmt.Errorf("'%s' %w", newName, ErrAlreadyExists)
	}
	if err := o.fs.Rename(src, dst); err != nil {
		return fmt.Errorf("error updating folder: %w", err)
	}
	return nil
}

// Delete removes a file, or a folder and everything under it.
func (o *Ops) Delete(kind Kind, name string) error {
	p := o.path(name)
	info, err := o.fs.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s '%s' %w", kind, name, ErrNotFound)
		}
		return fmt.Errorf("error deleting %s: %w", kind, err)
	}
	if info.IsDir() != (kind == Folder) {
		return fmt.Errorf("%s '%s' %w", kind, name, ErrNotFound)
	}

	if kind == Folder {
		err = o.fs.RemoveAll(p)
	} else {
		err = o.fs.Remove(p)
	}
	if err != nil {
		return fmt.Errorf("error deleting %s: %w", kind, err)
	}
	return nil
}

// Listing is the partitioned content of the root directory.
type Listing struct {
	Folders []string
	Files   []string
}

// ListOptions narrows a listing.
type ListOptions struct {
	// Only restricts the listing to one kind when set.
	Only Kind
	// Pattern is a doublestar glob matched against entry names.
	Pattern string
}

// List reads the root directory. Entries other than regular files and
// folders are skipped; both groups are sorted by name.
func (o *Ops) List(opts ListOptions) (Listing, error) {
	if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
		return Listing{}, fmt.Errorf("invalid pattern %q", opts.Pattern)
	}

	entries, err := afero.ReadDir(o.fs, o.root)
	if err != nil {
		return Listing{}, fmt.Errorf("error listing directory: %w", err)
	}

	var l Listing
	for _, e := range entries {
		if opts.Pattern != "" {
			if ok, _ := doublestar.Match(opts.Pattern, e.Name()); !ok {
				continue
			}
		}
		switch {
		case e.IsDir():
			if opts.Only != File {
				l.Folders = append(l.Folders, e.Name())
			}
		case e.Mode().IsRegular():
			if opts.Only != Folder {
				l.Files = append(l.Files, e.Name())
			}
		}
	}
	sort.Strings(l.Folders)
	sort.Strings(l.Files)
	return l, nil
}
