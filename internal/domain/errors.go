package domain

import "errors"

// Sentinel errors raised at or before the core boundary. Inside the core
// itself, missing referential integrity is a best-effort skip, never one
// of these.
var (
	// ErrParsing is returned when Runtime, CodeEvolution, or Settings JSON
	// is not valid JSON or fails schema validation.
	ErrParsing = errors.New("parsing failure")

	// ErrInvalidRuntime is returned when a Runtime has zero nodes. The core
	// tolerates empty edge and stack lists; only a nodeless Runtime is
	// rejected outright.
	ErrInvalidRuntime = errors.New("invalid runtime: zero nodes")

	// ErrUnsupportedAlgorithm is returned when a settings value names a
	// strategy outside the recognised catalogue.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
)
