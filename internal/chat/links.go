package chat

import (
	"regexp"
	"strconv"

	"github.com/ubiquibot/askbot/internal/github"
)

// Reference is a cross-reference to another issue or pull request found
// in free text. Bare records whether the reference was a bare "#N"
// mention: those cannot be classified from text alone and default to
// Issue until the resolver looks up their actual kind.
type Reference struct {
	Kind   github.RefKind
	Number int
	Bare   bool
}

// refPattern matches the three surface forms of a cross-reference: a bare
// "#N", a full issue/PR URL, and the same URL inside a markdown link
// (the URL group matches either way).
var refPattern = regexp.MustCompile(`(?i)#(\d+)|https://github\.com/[^/\s]+/[^/\s]+/(issues|pull)/(\d+)`)

// ExtractReferences scans body text for issue and PR references and
// returns them split by kind, in first-seen order, deduplicated by
// (kind, number). A body without references yields two empty slices.
func ExtractReferences(body string) (issues, pulls []Reference) {
	seen := make(map[Reference]bool)
	for _, m := range refPattern.FindAllStringSubmatch(body, -1) {
		var ref Reference
		switch {
		case m[1] != "":
			n, _ := strconv.Atoi(m[1])
			ref = Reference{Kind: github.RefIssue, Number: n, Bare: true}
		case m[2] == "pull":
			n, _ := strconv.Atoi(m[3])
			ref = Reference{Kind: github.RefPullRequest, Number: n}
		default:
			n, _ := strconv.Atoi(m[3])
			ref = Reference{Kind: github.RefIssue, Number: n}
		}
		key := Reference{Kind: ref.Kind, Number: ref.Number}
		if seen[key] {
			continue
		}
		seen[key] = true
		if ref.Kind == github.RefPullRequest {
			pulls = append(pulls, ref)
		} else {
			issues = append(issues, ref)
		}
	}
	return issues, pulls
}
