package analyze

import "strings"

// ClassifyTaskType maps a session's prompt text and shape to one task type.
//
// Categories are checked in the fixed order of taskKeywords and the first
// match wins; that ordering is the contract for ambiguous prompts (a prompt
// mentioning both "bug" and "test" is bug_fix, never testing). When no
// keyword list matches, short edit-free low-tool sessions fall back to
// lookup, everything else to general.
func ClassifyTaskType(prompts, commands []string, duration float64, toolCalls int, hasEdits bool) TaskType {
	var b strings.Builder
	for i, p := range prompts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	allText := strings.ToLower(b.String())

	isLikelyLookup := duration < lookupMaxDuration &&
		!hasEdits && toolCalls < lookupMaxToolCalls

	for _, cat := range taskKeywords {
		for _, kw := range cat.Keywords {
			if strings.Contains(allText, kw) {
				return cat.Type
			}
		}
	}

	if isLikelyLookup {
		return TaskLookup
	}
	return TaskGeneral
}

// ClassifySessionType makes the coarse work/lookup split from activity alone.
// Any edit, five minutes of duration, ten tool calls, or use of a write tool
// marks a work session; everything else is a lookup.
func ClassifySessionType(duration float64, toolCalls int, hasEdits bool, toolsUsed []string) SessionType {
	if hasEdits {
		return SessionWork
	}
	if duration >= lookupMaxDuration {
		return SessionWork
	}
	if toolCalls >= lookupMaxToolCalls {
		return SessionWork
	}
	if containsAny(toolsUsed, writeTools) {
		return SessionWork
	}
	return SessionLookup
}
