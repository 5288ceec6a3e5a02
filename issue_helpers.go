package pathstore

import "github.com/reoring/pathstore/i18n"

// IssueAt creates an Issue at the given path with provided code and params map.
// The message is looked up through the i18n catalogue.
func IssueAt(p PathRef, code string, params map[string]any) Issue {
	return Issue{Path: p.Dotted(), Code: code, Message: i18n.T(code, nil), Params: params}
}

// NewIssue creates an Issue at a dotted path with the catalogue message for code.
func NewIssue(path, code, hint string) Issue {
	return Issue{Path: path, Code: code, Message: i18n.T(code, nil), Hint: hint}
}
