package main

import (
	"errors"
	"os"

	"github.com/ntrotner/heap-causal-link/internal/domain"
	"github.com/ntrotner/heap-causal-link/internal/ingest"
)

// exitCodeFor maps an error returned from a command's RunE to one of the
// distinct exit codes spec.md's error surface names: file-not-found,
// parse failure, empty-runtime, unsupported strategy, or a generic
// catch-all for anything uncaught.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, os.ErrNotExist):
		return exitFileNotFound
	case errors.Is(err, domain.ErrInvalidRuntime):
		return exitEmptyRuntime
	case errors.Is(err, domain.ErrUnsupportedAlgorithm):
		return exitUnsupportedStrategy
	case errors.Is(err, domain.ErrParsing), errors.Is(err, ingest.ErrConfigRead):
		return exitParseFailure
	default:
		return exitGeneric
	}
}
