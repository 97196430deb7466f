package main

import (
	"fmt"
	"io"
	"os"
)

// stderr receives status lines so stdout stays clean for command output.
var stderr io.Writer = os.Stderr

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stderr, styles().Success.Render("✓ "+fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stderr, styles().Error.Render("✗ "+fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stderr, styles().Warning.Render("⚠ "+fmt.Sprintf(format, args...)))
}

func printStatus(label string, format string, args ...any) {
	s := styles()
	fmt.Fprintf(stderr, "  %s %s\n", s.Title.Render(label+":"), fmt.Sprintf(format, args...))
}

func printStep(format string, args ...any) {
	fmt.Fprintln(stderr, styles().Value.Render("→ "+fmt.Sprintf(format, args...)))
}
