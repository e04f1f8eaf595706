package roadmap

import (
	"fmt"
	"regexp"
	"strings"
)

// schedulingPattern matches explicit requests for calendar behaviour. Bare
// durations ("in 3 months") deliberately do not match.
var schedulingPattern = regexp.MustCompile(`(?i)\b(schedul\w*|remind\w*|deadlines?|calendars?|check[- ]?ins?|due dates?|appointments?)\b`)

// MatchSchedulingTerm returns the first scheduling term found in message, or
// "" when there is none.
func MatchSchedulingTerm(message string) string {
	return schedulingPattern.FindString(message)
}

// resolveCalendarIntent applies the precision-over-recall rule to the model's
// answer: the flag survives only when the message itself asks for scheduling.
func resolveCalendarIntent(message string, flag bool, reason string) (bool, string) {
	if !flag {
		return false, ""
	}
	term := MatchSchedulingTerm(message)
	if term == "" {
		return false, ""
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = fmt.Sprintf("The request explicitly mentions %q.", strings.ToLower(term))
	}
	return true, reason
}
