package services

import "github.com/decred/slog"

// log is a logger that is initialized with no output filters. This means the
// package will not perform any logging by default until the caller requests
// it.
var log = slog.Disabled

// UseLogger sets the package-wide logger. Any calls to this function must be
// made before a service is created and used (it is not concurrent safe).
func UseLogger(logger slog.Logger) {
	log = logger
}
