package nlsql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnsafeQuery is returned for anything but a single read-only statement.
var ErrUnsafeQuery = errors.New("nlsql: unsafe query")

var (
	fencePattern = regexp.MustCompile("(?s)```(?:sql|postgresql|postgres)?\\s*(.*?)```")

	leadingKeyword = regexp.MustCompile(`(?i)^\s*(select|with)\b`)

	forbiddenKeyword = regexp.MustCompile(`(?i)\b(insert|update|delete|merge|drop|alter|create|truncate|grant|revoke|copy|vacuum|call|do|lock|refresh|reindex|cluster|comment|set|reset|listen|notify|prepare|execute|into)\b|\bpg_(sleep|read_file|terminate_backend|cancel_backend)\b`)

	quotedLiteral = regexp.MustCompile(`'(?:[^']|'')*'|"(?:[^"]|"")*"`)
)

// StripFences returns the contents of the first fenced block, or the
// trimmed input when there is none.
func StripFences(s string) string {
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}

// Guard accepts exactly one SELECT or WITH statement without data-modifying
// keywords, and returns it without a trailing semicolon.
func Guard(stmt string) (string, error) {
	stmt = strings.TrimSpace(stmt)
	stmt = strings.TrimRight(stmt, "; \t\n")
	if stmt == "" {
		return "", fmt.Errorf("%w: empty statement", ErrUnsafeQuery)
	}

	bare := quotedLiteral.ReplaceAllString(stmt, "''")
	if strings.Contains(bare, "--") || strings.Contains(bare, "/*") {
		return "", fmt.Errorf("%w: comments are not allowed", ErrUnsafeQuery)
	}
	if strings.Contains(bare, ";") {
		return "", fmt.Errorf("%w: multiple statements", ErrUnsafeQuery)
	}
	if !leadingKeyword.MatchString(bare) {
		return "", fmt.Errorf("%w: only SELECT or WITH statements are allowed", ErrUnsafeQuery)
	}
	if kw := forbiddenKeyword.FindString(bare); kw != "" {
		return "", fmt.Errorf("%w: %q is not allowed", ErrUnsafeQuery, strings.ToUpper(kw))
	}
	return stmt, nil
}
