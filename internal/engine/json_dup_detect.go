package engine

import (
	"errors"
	"io"
)

// DuplicateStrictness controls duplicate key handling in detection helpers.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// DetectDuplicateKeys drains src and reports duplicated object keys with the
// pointer of the repeated member. With DupError detection stops at the first
// duplicate. maxIssues < 0 means unlimited; 0 disables reporting; >0 caps the
// list and appends a "truncated" marker.
func DetectDuplicateKeys(src TokenSource, onDup DuplicateStrictness, maxIssues int) ([]SimpleIssue, error) {
	if onDup == DupIgnore {
		return nil, nil
	}
	var issues []SimpleIssue
	full := false
	appendIssue := func(si SimpleIssue) {
		if maxIssues == 0 || full {
			return
		}
		issues = append(issues, si)
		if maxIssues > 0 && len(issues) >= maxIssues {
			issues = append(issues, SimpleIssue{Code: "truncated", Path: "/", Message: "max issues reached"})
			full = true
		}
	}

	enforced := WrapWithEnforcement(src, EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink:   appendIssue,
	})
	for {
		_, err := enforced.NextToken()
		if err == io.EOF {
			return issues, nil
		}
		if err != nil {
			var ie IssueError
			if !errors.As(err, &ie) {
				appendIssue(SimpleIssue{Code: "parse_error", Path: "/", Message: err.Error()})
			}
			return issues, nil
		}
		if onDup == DupError && len(issues) > 0 {
			return issues, nil
		}
	}
}
