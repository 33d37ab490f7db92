package execution

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// TruncationMarker is appended to output cut at the configured size limit.
const TruncationMarker = "\n\n...OUTPUT_TRUNCATED..."

// ComposeOutput renders a run result into the stored output document.
// Successful runs keep stdout alone; failures frame stdout and stderr with
// the exit code; timeouts carry a banner with whatever partial output was
// captured. The composed document is cut at maxBytes with a marker.
func ComposeOutput(result *Result, maxRunSeconds int, maxBytes int64) ([]byte, bool) {
	var buf bytes.Buffer

	switch {
	case result.TimedOut:
		fmt.Fprintf(&buf, "TimeoutExpired: exceeded %d seconds.\nPartial output:\n", maxRunSeconds)
		buf.Write(result.Stdout)
		buf.WriteString("\n")
		buf.Write(result.Stderr)
	case result.ExitCode == 0:
		buf.Write(result.Stdout)
	default:
		buf.WriteString("=== STDOUT ===\n")
		buf.Write(result.Stdout)
		buf.WriteString("\n\n=== STDERR ===\n")
		buf.Write(result.Stderr)
		fmt.Fprintf(&buf, "\n\nExitCode: %d", result.ExitCode)
	}

	composed := buf.Bytes()
	if int64(len(composed)) > maxBytes {
		cut := int(maxBytes)
		// Never split a multi-byte rune at the cut point
		for cut > 0 && !utf8.RuneStart(composed[cut]) {
			cut--
		}
		truncated := make([]byte, 0, cut+len(TruncationMarker))
		truncated = append(truncated, composed[:cut]...)
		truncated = append(truncated, TruncationMarker...)
		return truncated, true
	}

	return composed, false
}
