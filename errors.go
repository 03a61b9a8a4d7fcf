package bhi

import (
	"fmt"
	"strings"
)

// InputValidationError reports an input that violates the estimator's
// preconditions. Validation runs before any windowed computation, so
// a validation failure aborts the whole call.
type InputValidationError struct {
	// Series names the offending input
	Series string
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Series, e.Reason)
}

// PartialResultError reports that a deadline expired before every
// channel was estimated. The accompanying result holds valid rows for
// the completed channels only.
type PartialResultError struct {
	Completed  []int
	Incomplete []int
}

func (e *PartialResultError) Error() string {
	return fmt.Sprintf("deadline expired: channels %s completed, %s not started",
		channelList(e.Completed), channelList(e.Incomplete))
}

func channelList(ch []int) string {
	if len(ch) == 0 {
		return "none"
	}
	parts := make([]string, len(ch))
	for i, c := range ch {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, ",")
}
