package ingest

import "errors"

// ErrConfigRead is returned when the settings file named on the command
// line cannot be read or decoded by the config-loading layer. Distinct
// from domain.ErrParsing, which covers the Runtime/CodeEvolution JSON
// schema boundary this package also owns.
var ErrConfigRead = errors.New("settings read failure")
