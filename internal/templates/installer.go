package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/seraprogrammer/speeed/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrTargetExists is returned when the install target folder is already present.
var ErrTargetExists = errors.New("target already exists")

// ErrInvalidName is returned for template names that are not a single path element.
var ErrInvalidName = errors.New("invalid template name")

// TemplateNotFoundError is returned when the cloned repository has no such template.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template '%s' does not exist in the repository. Use the 'ready' command to see available templates", e.Name)
}

// ClonerFactory builds the clone backend when an install needs it
type ClonerFactory func() (Cloner, error)

// Installer copies one template out of a fresh shallow clone.
type Installer struct {
	fs        afero.Fs
	workDir   string
	newCloner ClonerFactory
	config    *config.TemplatesConfig
	log       logrus.FieldLogger

	// newID names the temporary clone directory
	newID func() string
}

// NewInstaller creates an installer that writes into workDir.
// fs must be the filesystem the cloner writes to.
func NewInstaller(fs afero.Fs, workDir string, cloner Cloner, cfg *config.TemplatesConfig, log logrus.FieldLogger) *Installer {
	return NewInstallerFunc(fs, workDir, func() (Cloner, error) { return cloner, nil }, cfg, log)
}

// NewInstallerFunc is like NewInstaller but resolves the cloner on each
// Install, after the target check. A backend that cannot be built fails
// only the install.
func NewInstallerFunc(fs afero.Fs, workDir string, newCloner ClonerFactory, cfg *config.TemplatesConfig, log logrus.FieldLogger) *Installer {
	return &Installer{
		fs:        fs,
		workDir:   workDir,
		newCloner: newCloner,
		config:    cfg,
		log:       log,
		newID:     uuid.NewString,
	}
}

// ValidateName rejects names that would escape the working directory.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Target returns the folder a template is installed into.
func (i *Installer) Target(name string) string {
	return filepath.Join(i.workDir, name)
}

// Install clones the template repository and copies template name into
// <workDir>/<name>.
//
// Behavior:
//  1. Refuse if the target folder exists (nothing is cloned)
//  2. Build the clone backend
//  3. Clone into <workDir>/<temp_prefix>-<uuid>
//  4. Verify <path>/<name> exists in the clone
//  5. Copy the subtree into the target folder
//
// The temporary clone is removed on every path. On failure a target folder
// created by this call is removed too. Cleanup failures are logged, never
// returned.
//
// Returns:
//   - string: The target folder
//   - error: ErrTargetExists, *TemplateNotFoundError, or a wrapped clone/copy error
func (i *Installer) Install(ctx context.Context, name string) (targetDir string, err error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	targetDir = i.Target(name)
	exists, err := afero.Exists(i.fs, targetDir)
	if err != nil {
		return targetDir, fmt.Errorf("failed to check target folder: %w", err)
	}
	if exists {
		return targetDir, fmt.Errorf("a folder named '%s' already exists in %s: %w", name, i.workDir, ErrTargetExists)
	}

	cloner, err := i.newCloner()
	if err != nil {
		return targetDir, fmt.Errorf("failed to create cloner: %w", err)
	}

	tempDir := filepath.Join(i.workDir, fmt.Sprintf("%s-%s", i.config.TempPrefix, i.newID()))
	createdTarget := false
	defer func() {
		var cleanup *multierror.Error
		if rmErr := i.fs.RemoveAll(tempDir); rmErr != nil {
			cleanup = multierror.Append(cleanup, fmt.Errorf("remove temp dir %s: %w", tempDir, rmErr))
		}
		if err != nil && createdTarget {
			if rmErr := i.fs.RemoveAll(targetDir); rmErr != nil {
				cleanup = multierror.Append(cleanup, fmt.Errorf("remove partial target %s: %w", targetDir, rmErr))
			}
		}
		if cleanup.ErrorOrNil() != nil {
			i.log.WithError(cleanup).Warn("template install cleanup incomplete")
		}
	}()

	i.log.WithFields(logrus.Fields{
		"url":     i.config.CloneURL,
		"branch":  i.config.Branch,
		"dest":    tempDir,
		"backend": cloner.Name(),
	}).Debug("cloning template repository")

	if err := cloner.Clone(ctx, i.config.CloneURL, i.config.Branch, tempDir); err != nil {
		return targetDir, fmt.Errorf("failed to clone template repository: %w", err)
	}

	sourceDir := filepath.Join(tempDir, filepath.FromSlash(strings.Trim(i.config.Path, "/")), name)
	isDir, err := afero.DirExists(i.fs, sourceDir)
	if err != nil {
		return targetDir, fmt.Errorf("failed to inspect clone: %w", err)
	}
	if !isDir {
		return targetDir, &TemplateNotFoundError{Name: name}
	}

	if err := i.fs.MkdirAll(targetDir, 0o755); err != nil {
		return targetDir, fmt.Errorf("failed to create %s: %w", targetDir, err)
	}
	createdTarget = true

	if err := copyTree(i.fs, sourceDir, targetDir); err != nil {
		return targetDir, fmt.Errorf("failed to copy template: %w", err)
	}

	return targetDir, nil
}

// copyTree copies the regular files and folders under src into dst
func copyTree(fs afero.Fs, src, dst string) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			return fs.MkdirAll(target, info.Mode().Perm()|0o700)
		case info.Mode().IsRegular():
			return copyFile(fs, path, target, info.Mode().Perm())
		default:
			// symlinks and other special files are not part of templates
			return nil
		}
	})
}

func copyFile(fs afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
