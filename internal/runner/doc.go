// Package runner launches external programs with the caller's terminal
// attached and classifies how they ended.
//
// Every command handler goes through a Runner so that exit handling, debug
// tracing and scripted input behave the same everywhere. Multi-step handlers
// chain runs with Pipeline, which stops at the first failed step.
package runner
