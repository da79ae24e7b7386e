// Package console prints the status lines that commands show to the user.
// Informational and success lines go to stdout, warnings and errors to stderr.
package console

import (
	"fmt"
	"io"
	"os"
)

// Console writes prefixed status lines to a pair of streams
type Console struct {
	Out io.Writer
	Err io.Writer
}

// New returns a Console bound to the given streams
func New(out, err io.Writer) *Console {
	return &Console{Out: out, Err: err}
}

// Std returns a Console bound to the process stdout and stderr
func Std() *Console {
	return New(os.Stdout, os.Stderr)
}

// Info prints an info message to stdout
func (c *Console) Info(format string, a ...any) {
	fmt.Fprintf(c.Out, "[INFO] %s\n", fmt.Sprintf(format, a...))
}

// Success prints a success message to stdout
func (c *Console) Success(format string, a ...any) {
	fmt.Fprintf(c.Out, "[SUCCESS] %s\n", fmt.Sprintf(format, a...))
}

// Warn prints a warning message to stderr
func (c *Console) Warn(format string, a ...any) {
	fmt.Fprintf(c.Err, "[WARN] %s\n", fmt.Sprintf(format, a...))
}

// Error prints an error message to stderr
func (c *Console) Error(format string, a ...any) {
	fmt.Fprintf(c.Err, "[ERROR] %s\n", fmt.Sprintf(format, a...))
}

// PrintError prints err to stderr with the error prefix
func (c *Console) PrintError(err error) {
	c.Error("%v", err)
}

// Println writes an unprefixed line to stdout
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.Out, a...)
}

// Printf writes unprefixed formatted output to stdout
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.Out, format, a...)
}
