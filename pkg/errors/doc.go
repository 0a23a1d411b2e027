// Package errors provides unified error types and display for pacwatch.
//
// This package consolidates all error handling into a single location:
//   - ExitError: Command exit with specific exit code
//   - ConfigVersionError: Settings written for another schema version
//   - ValidationError: Settings that do not pass validation
//   - MalformedListingError: Unparseable pacman output
//   - UnresolvedPackageError: Pending package without an installed provider
//   - ExternalToolError: pacman (or the editor) exited with a failure
//
// Error Display:
//
//	errors.PrintErrorWithHints(os.Stderr, errs, verbose)
//
// Exit Codes:
//
// Standard exit codes are defined for scripting integration:
//   - ExitSuccess (0): Report printed and upgrade finished (or nothing to run)
//   - ExitUpgradeFailure (1): The final pacman upgrade failed
//   - ExitFailure (2): A fatal error stopped the pipeline
//   - ExitConfigError (3): Settings could not be used
//   - ExitInterrupted (130): Interrupted before the upgrade
package errors
