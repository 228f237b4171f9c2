package main

import (
	"errors"

	"github.com/corpxiv/corpxiv/internal/pipeline"
)

// Exit codes
const (
	ExitSuccess      = 0 // Success
	ExitError        = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError  = 2 // Configuration error (no site, invalid corpxiv.yml)
	ExitDataError    = 3 // Data error (unreadable input, guardrail rejection)
	ExitCorruption   = 4 // Registry or paper index present but unparsable
	ExitPartialWrite = 5 // Identifier assigned but an artifact step failed
)

// exitCodeFor maps a pipeline error to its exit code.
func exitCodeFor(err error) int {
	var inputErr *pipeline.InputError
	var rejection *pipeline.RejectionError
	var partial *pipeline.PartialWriteError

	switch {
	case err == nil:
		return ExitSuccess
	case pipeline.IsCorruption(err):
		return ExitCorruption
	case errors.As(err, &partial):
		return ExitPartialWrite
	case errors.As(err, &rejection), errors.As(err, &inputErr):
		return ExitDataError
	default:
		return ExitError
	}
}
