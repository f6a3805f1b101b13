package main

import (
	"fmt"
	"os"

	"github.com/matsen/ads2bib/internal/ads"
)

// Exit codes.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing token, invalid preferences)
	ExitNoMatch     = 3 // Identifier matched zero or multiple ADS records
)

// exitCodeFor maps an error to the process exit status.
func exitCodeFor(err error) int {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	switch {
	case ads.IsNotFound(err) || ads.IsAmbiguous(err):
		return ExitNoMatch
	case ads.IsAuthError(err) || isConfigError(err):
		return ExitConfigError
	default:
		return ExitError
	}
}
