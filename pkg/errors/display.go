package errors

import (
	"fmt"
	"io"
)

// PrintErrorWithHints prints errors with actionable hints to the writer.
//
// Output format:
//
//	Error: <error message>
//	  💡 <actionable hint if available>
//
// Parameters:
//   - w: Writer to output to (typically os.Stderr)
//   - errs: Slice of errors to display
//   - verbose: If true, includes additional details for validation errors
func PrintErrorWithHints(w io.Writer, errs []error, verbose bool) {
	for _, err := range errs {
		printSingleError(w, err, verbose)
	}
}

// printSingleError prints a single error with appropriate formatting.
func printSingleError(w io.Writer, err error, verbose bool) {
	if err == nil {
		return
	}

	if ve, ok := IsValidationError(err); ok {
		if verbose {
			_, _ = fmt.Fprintf(w, "Settings error: %s\n", ve.VerboseError())
		} else {
			_, _ = fmt.Fprintf(w, "Settings error: %s\n", ve.Error())
		}
		if hint := GetHint(err); hint != "" {
			_, _ = fmt.Fprintf(w, "  \U0001F4A1 %s\n", hint)
		}
		return
	}

	_, _ = fmt.Fprintf(w, "Error: %s\n", EnhanceErrorWithHint(err))
}
