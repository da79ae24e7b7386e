// Package dispatch maps a command token, or one of its short aliases, to the
// handler that implements it. The command table and the alias table are built
// once at startup and never change afterwards; registering a name or an alias
// twice panics so an ambiguous shortcut can never ship.
package dispatch
