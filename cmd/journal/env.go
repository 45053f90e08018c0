package main

import (
	"io"
	"os"

	journal "github.com/alnah/go-journal"
	"github.com/alnah/go-journal/internal/logger"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// Runner executes the soffice converter. Nil means os/exec.
	Runner journal.CommandRunner

	// Logger overrides the logger built from log.mode.
	Logger *logger.Logger
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
	}
}

// commandRunner returns the configured CommandRunner or an ExecRunner.
func (e *Environment) commandRunner() journal.CommandRunner {
	if e.Runner != nil {
		return e.Runner
	}
	return &journal.ExecRunner{}
}

// newLogger returns the injected logger or builds one for mode.
func (e *Environment) newLogger(mode string) (*logger.Logger, error) {
	if e.Logger != nil {
		return e.Logger, nil
	}
	return logger.New(mode)
}
