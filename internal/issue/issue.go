// Package issue turns a GitHub issue URL into a branch name and commit
// message. It is called only after the request has been authenticated.
package issue

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidURL is returned when the input is not a GitHub issue URL.
var ErrInvalidURL = errors.New("invalid github issue url")

var (
	issueURLRe = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/issues/(\d+)$`)
	tagRe      = regexp.MustCompile(`\[[^\]]*\]`)
	// Symbols, control runes, variation selectors, and ZWJ sequences that
	// emoji are built from.
	emojiRe = regexp.MustCompile(`[\p{So}\p{C}\x{FE0F}\x{200D}]`)
	// Branch names keep ASCII alphanumerics and Hangul; everything else
	// becomes an underscore.
	branchCharRe = regexp.MustCompile(`[^a-zA-Z0-9가-힣]`)
)

// Ref identifies one issue within a repository.
type Ref struct {
	Owner  string
	Repo   string
	Number int
}

// ParseURL extracts the owner, repository, and issue number from a GitHub
// issue URL.
func ParseURL(issueURL string) (Ref, error) {
	m := issueURLRe.FindStringSubmatch(strings.TrimSpace(issueURL))
	if m == nil {
		return Ref{}, ErrInvalidURL
	}
	number, err := strconv.Atoi(m[3])
	if err != nil {
		return Ref{}, ErrInvalidURL
	}
	return Ref{Owner: m[1], Repo: m[2], Number: number}, nil
}

// CleanTitle strips "[tag]" prefixes, emoji, and stray whitespace from a
// raw issue title.
func CleanTitle(rawTitle string) string {
	title := strings.TrimSpace(tagRe.ReplaceAllString(rawTitle, ""))
	if title == "" {
		title = rawTitle
	}
	return strings.TrimSpace(emojiRe.ReplaceAllString(title, ""))
}

// BranchName builds "<yyyymmdd>_#<number>_<title>" with non-branch-safe
// runes replaced by underscores.
func BranchName(title string, number int, now time.Time) string {
	formatted := branchCharRe.ReplaceAllString(title, "_")
	return fmt.Sprintf("%s_#%d_%s", now.Format("20060102"), number, formatted)
}

// CommitMessage builds the commit-message template for the issue.
func CommitMessage(title, issueURL string) string {
	return strings.TrimSpace(fmt.Sprintf("%s : feat : {describe the change} %s", title, issueURL))
}

// Result is the generated pair returned to the client.
type Result struct {
	BranchName    string `json:"branchName"`
	CommitMessage string `json:"commitMessage"`
}

// Generate cleans the raw title and produces the branch name and commit
// message for the issue at issueURL.
func Generate(rawTitle, issueURL string, number int, now time.Time) Result {
	title := CleanTitle(rawTitle)
	return Result{
		BranchName:    BranchName(title, number, now),
		CommitMessage: CommitMessage(title, issueURL),
	}
}
