package dispatch

import (
	"context"
	"fmt"
)

// Handler executes a command with the arguments that followed its token.
type Handler func(ctx context.Context, args []string) error

// Command is one entry of the command table.
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string
	Run     Handler
}

// Registry holds the command table and the alias table.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]string
	order    []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]string),
	}
}

// Register adds cmd and its aliases. It panics if the name or any alias is
// already taken, or if an alias shadows a command name.
func (r *Registry) Register(cmd Command) {
	if cmd.Name == "" || cmd.Run == nil {
		panic("command needs a name and a handler")
	}
	if _, exists := r.commands[cmd.Name]; exists {
		panic(fmt.Sprintf("command %s already registered", cmd.Name))
	}
	if target, exists := r.aliases[cmd.Name]; exists {
		panic(fmt.Sprintf("command %s collides with alias of %s", cmd.Name, target))
	}
	for _, a := range cmd.Aliases {
		if target, exists := r.aliases[a]; exists {
			panic(fmt.Sprintf("alias %s already maps to %s", a, target))
		}
		if _, exists := r.commands[a]; exists || a == cmd.Name {
			panic(fmt.Sprintf("alias %s collides with a command name", a))
		}
	}

	c := cmd
	r.commands[c.Name] = &c
	for _, a := range c.Aliases {
		r.aliases[a] = c.Name
	}
	r.order = append(r.order, c.Name)
}

// Resolve maps an alias to its canonical name. Unknown tokens come back
// unchanged.
func (r *Registry) Resolve(token string) string {
	if name, ok := r.aliases[token]; ok {
		return name
	}
	return token
}

// Lookup returns the command for a token, resolving aliases first.
func (r *Registry) Lookup(token string) (*Command, bool) {
	c, ok := r.commands[r.Resolve(token)]
	return c, ok
}

// Commands returns the table in registration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for a, name := range r.aliases {
		out[a] = name
	}
	return out
}

// Dispatch splits args into selector and handler arguments and runs the
// matching handler. The handler's error is returned untouched.
func (r *Registry) Dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return &UnknownCommandError{}
	}
	cmd, ok := r.Lookup(args[0])
	if !ok {
		return &UnknownCommandError{Token: args[0]}
	}
	return cmd.Run(ctx, args[1:])
}
