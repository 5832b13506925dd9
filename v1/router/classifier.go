package router

import (
	"fmt"
	"regexp"
)

// Classifier assigns a Classification from lexical pattern matches.
// It holds only compiled patterns and is safe for concurrent use.
type Classifier struct {
	numeric  []*regexp.Regexp
	semantic []*regexp.Regexp
}

// NewClassifier compiles both pattern lists case-insensitively.
func NewClassifier(numeric, semantic []string) (*Classifier, error) {
	n, err := compileAll(numeric)
	if err != nil {
		return nil, fmt.Errorf("numeric patterns: %w", err)
	}
	s, err := compileAll(semantic)
	if err != nil {
		return nil, fmt.Errorf("semantic patterns: %w", err)
	}
	return &Classifier{numeric: n, semantic: s}, nil
}

// DefaultClassifier returns a Classifier over NumericPatterns and
// SemanticPatterns.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(NumericPatterns, SemanticPatterns)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultClassifier = DefaultClassifier()

// Classify uses the default pattern lists.
func Classify(text string) Classification {
	return defaultClassifier.Classify(text)
}

// Classify never fails: text without any signal is Semantic.
func (c *Classifier) Classify(text string) Classification {
	numeric := matchesAny(c.numeric, text)
	semantic := matchesAny(c.semantic, text)

	switch {
	case numeric && semantic:
		return Mixed
	case numeric:
		return Numeric
	default:
		return Semantic
	}
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
