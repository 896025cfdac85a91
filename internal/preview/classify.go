package preview

import (
	"fmt"
	"strings"

	"github.com/noahzs/ios-preview-mcp/internal/proc"
)

const (
	// maxErrorLines bounds how many compiler/test error lines a diagnosed
	// failure reports.
	maxErrorLines = 5
	// stderrTailBytes bounds an undiagnosed failure's stderr excerpt,
	// keeping the most recent diagnostic context.
	stderrTailBytes = 1000
)

// classifyFailure turns a non-zero xcodebuild outcome into a Result.
// Lines containing "error:" (any case) identify a diagnosed failure; the
// first few are returned verbatim. Otherwise the exit code plus the tail
// of stderr is the best available signal.
func classifyFailure(out proc.Outcome) Result {
	if lines := errorLines(out.Stderr); len(lines) > 0 {
		if len(lines) > maxErrorLines {
			lines = lines[:maxErrorLines]
		}
		return Result{
			Status: StatusBuildFailed,
			Message: fmt.Sprintf("Build/test failed:\n%s\n\nRun with verbose logging to see full output.",
				strings.Join(lines, "\n")),
		}
	}
	return Result{
		Status: StatusBuildFailed,
		Message: fmt.Sprintf("Build/test failed with exit code %d\n%s",
			out.ExitCode, tail(out.Stderr, stderrTailBytes)),
	}
}

// errorLines returns stderr lines containing "error:", case-insensitive,
// in original order.
func errorLines(stderr string) []string {
	var lines []string
	for _, line := range strings.Split(stderr, "\n") {
		if strings.Contains(strings.ToLower(line), "error:") {
			lines = append(lines, line)
		}
	}
	return lines
}

// tail returns the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
