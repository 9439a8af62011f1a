package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	headerColor  = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgWhite)
	valueColor   = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

// FormatError renders err as the single line printed before a failing exit.
func FormatError(err error) string {
	return errorColor.Sprintf("✗ %v", err)
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successColor.Sprintf("✓ "+format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warningColor.Sprintf("! "+format, args...))
}

func printHeader(w io.Writer, text string) {
	fmt.Fprintln(w, headerColor.Sprint(text))
}

func printLabelValue(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s %v\n", labelColor.Sprintf("%-12s", label+":"), valueColor.Sprint(value))
}
