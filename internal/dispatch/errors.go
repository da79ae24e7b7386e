package dispatch

import (
	"errors"
	"fmt"
)

// UnknownCommandError is returned when a token matches neither a command nor
// an alias.
type UnknownCommandError struct {
	Token string
}

func (e *UnknownCommandError) Error() string {
	return `Unknown command. Use "-h" to see available commands.`
}

// MissingArgumentError is returned before anything is spawned when a command
// lacks a mandatory argument.
type MissingArgumentError struct {
	Command string
	Message string
	Usage   string
}

func (e *MissingArgumentError) Error() string {
	return e.Message
}

// InvalidArgumentError is returned when an argument has an unsupported value.
type InvalidArgumentError struct {
	Command string
	Message string
	Usage   string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// Missing builds a MissingArgumentError.
func Missing(command, usage, format string, a ...any) error {
	return &MissingArgumentError{Command: command, Usage: usage, Message: fmt.Sprintf(format, a...)}
}

// Invalid builds an InvalidArgumentError.
func Invalid(command, usage, format string, a ...any) error {
	return &InvalidArgumentError{Command: command, Usage: usage, Message: fmt.Sprintf(format, a...)}
}

// UsageOf returns the usage hint carried by an argument error, if any.
func UsageOf(err error) string {
	var me *MissingArgumentError
	if errors.As(err, &me) {
		return me.Usage
	}
	var ie *InvalidArgumentError
	if errors.As(err, &ie) {
		return ie.Usage
	}
	return ""
}
