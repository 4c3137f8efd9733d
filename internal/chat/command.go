package chat

import "regexp"

// Mode selects which slash command the deployment answers to.
type Mode string

const (
	ModeAsk      Mode = "ask"
	ModeResearch Mode = "research"
)

// Fixed user-facing strings for malformed input. These are answers, not
// errors: they are returned without retry or escalation.
const (
	askUsage       = "Invalid syntax for ask \n usage: '/ask What is pi?'"
	researchUsage  = "Invalid syntax for research \n usage: '/research What is pi?'"
	promptForInput = "Please ask a question"
	issuesOnly     = "This command can only be used on issues"
)

var (
	askPattern      = regexp.MustCompile(`(?s)^/ask\s(.+)$`)
	researchPattern = regexp.MustCompile(`(?s)^/research\s(.+)$`)
)

// ParseCommand extracts the question from a slash-command comment body.
// ok is false when the body does not match the mode's pattern.
func ParseCommand(mode Mode, body string) (question string, ok bool) {
	pattern := askPattern
	if mode == ModeResearch {
		pattern = researchPattern
	}
	m := pattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Usage returns the fixed help text for a mode.
func Usage(mode Mode) string {
	if mode == ModeResearch {
		return researchUsage
	}
	return askUsage
}
