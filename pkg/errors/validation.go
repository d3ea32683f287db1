package errors

import (
	"strings"
	"unicode"
)

// maxQueryLength bounds queries accepted from the CLI and the HTTP API.
const maxQueryLength = 512

// ValidateQuery validates a Gorgias query such as "fly(tweety)" before it is
// spliced into an engine goal.
//
// The validation rules are intentionally conservative:
//   - No empty queries
//   - No control characters (including newlines)
//   - Balanced parentheses and square brackets
//   - No trailing full stop (the goal wrapper terminates the query itself)
//   - Maximum length of 512 characters
//
// Argumentation semantics are not checked; the engine decides what a query means.
func ValidateQuery(query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return New(ErrCodeInvalidQuery, "query cannot be empty")
	}

	if len(q) > maxQueryLength {
		return New(ErrCodeInvalidQuery, "query too long (max %d characters)", maxQueryLength)
	}

	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "query contains invalid control characters")
		}
	}

	if strings.HasSuffix(q, ".") {
		return New(ErrCodeInvalidQuery, "query must not end with a full stop: %q", q)
	}

	var stack []rune
	for _, r := range q {
		switch r {
		case '(', '[':
			stack = append(stack, r)
		case ')', ']':
			open := '('
			if r == ']' {
				open = '['
			}
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return New(ErrCodeInvalidQuery, "query has unbalanced %q: %q", r, q)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return New(ErrCodeInvalidQuery, "query has unbalanced %q: %q", stack[len(stack)-1], q)
	}

	return nil
}

// ValidateProgramPath validates the path of a Prolog program handed to the engine.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - No single quotes (the path is embedded in a quoted Prolog atom)
func ValidateProgramPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "program path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "'") {
		return New(ErrCodeInvalidPath, "path cannot contain single quotes")
	}

	return nil
}
