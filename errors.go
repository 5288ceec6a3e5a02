package pathstore

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired          = "required"
	CodeUnknownField      = "unknown_field"
	CodeNotContainer      = "not_container"
	CodeInvalidIndex      = "invalid_index"
	CodeInvalidPath       = "invalid_path"
	CodeAlreadyRegistered = "already_registered"
	CodeInvalidSchema     = "invalid_schema"
	CodeParseError        = "parse_error"
)

var (
	// ErrEmptyPath is returned when an operation needs at least one path segment.
	ErrEmptyPath = errors.New("pathstore: empty path")
)

// Issue represents a single schema or path problem.
type Issue struct {
	Path    string // Dotted path (for example: container1.field1). Empty means the root.
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"field":"x", "parent":"y"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		p := it.Path
		if p == "" {
			p = "<root>"
		}
		// e.g. required at container1.field1
		fmt.Fprintf(b, "%s at %s", it.Code, p)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Rebase returns a copy of the issues with prefix prepended to every path.
func (iss Issues) Rebase(prefix string) Issues {
	if len(iss) == 0 || prefix == "" {
		return iss
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Path = JoinPath(prefix, it.Path)
		out[i] = it
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IsSchemaViolation reports whether err consists only of missing required
// fields. Loads that return such an error still produce a usable partial value.
func IsSchemaViolation(err error) bool {
	iss, ok := AsIssues(err)
	if !ok || len(iss) == 0 {
		return false
	}
	for _, it := range iss {
		if it.Code != CodeRequired {
			return false
		}
	}
	return true
}

// RebaseError prefixes the paths of an Issues error with prefix. Other errors
// are returned unchanged.
func RebaseError(err error, prefix string) error {
	if iss, ok := AsIssues(err); ok {
		return iss.Rebase(prefix)
	}
	return err
}
