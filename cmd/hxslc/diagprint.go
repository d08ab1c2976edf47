package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/hexaengine/hxslc/pkg/diag"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// stderrIsTTY reports whether diagnostic output should be colorized: it is
// only worth asking the terminal once per process invocation, but process
// state (piped stderr in a test harness or CI) can change between commands,
// so every print call re-checks rather than caching the answer in a global.
func stderrIsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// printDiagnostics writes one line per diagnostic to stderr, colorizing by
// severity when stderr is a terminal. Returns the number of error-or-worse
// diagnostics seen, for the caller to decide the process exit code.
func printDiagnostics(messages []diag.Diagnostic) int {
	colorize := stderrIsTTY()
	errors := 0

	for _, d := range messages {
		sev := d.Code.Severity()
		if sev >= diag.SeverityError {
			errors++
		}

		if !colorize {
			fmt.Fprintln(os.Stderr, d.Error())
			continue
		}

		color := ansiYellow
		if sev >= diag.SeverityError {
			color = ansiRed
		}
		fmt.Fprintf(os.Stderr, "%s%s%s\n", color, d.Error(), ansiReset)
	}

	return errors
}
