package preview

import (
	"fmt"
	"strings"
)

// Status classifies the terminal state of one workflow run.
type Status int

const (
	// StatusOK means the test ran and the artifact was located.
	StatusOK Status = iota
	// StatusInvalidInput means a request field failed validation; no
	// process was spawned.
	StatusInvalidInput
	// StatusBuildFailed means xcodebuild exited non-zero.
	StatusBuildFailed
	// StatusTimeout means the build exceeded its wall-clock budget.
	StatusTimeout
	// StatusArtifactMissing means the test passed but no candidate path or
	// fallback search produced the PNG.
	StatusArtifactMissing
	// StatusInternal means orchestration itself faulted.
	StatusInternal
)

// Result is the value every workflow run terminates in. Failures are
// carried here as data; no error crosses the tool boundary.
type Result struct {
	Status  Status
	Path    string   // absolute artifact path when Status is StatusOK
	Message string   // failure detail for every non-OK status
	Checked []string // candidate paths examined, set for StatusArtifactMissing
}

// Text renders the result in the tool's wire format: a bare path on
// success, a prefixed message otherwise.
func (r Result) Text() string {
	switch r.Status {
	case StatusOK:
		return r.Path
	case StatusInvalidInput:
		return "❌ Error: " + r.Message
	case StatusBuildFailed:
		return "❌ " + r.Message
	case StatusTimeout:
		return "❌ " + r.Message
	case StatusArtifactMissing:
		return "⚠️ Test passed but screenshot not found. Expected at one of:\n" +
			strings.Join(r.Checked, "\n")
	default:
		return "❌ Unexpected error: " + r.Message
	}
}

func internalResult(err error) Result {
	return Result{Status: StatusInternal, Message: err.Error()}
}

func recoveredResult(v any) Result {
	return Result{Status: StatusInternal, Message: fmt.Sprint(v)}
}
