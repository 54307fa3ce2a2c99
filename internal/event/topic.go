package event

import "strings"

// Topic represents a hierarchical event type using dot notation.
// Examples: "history.executed", "document.modified.changed".
type Topic string

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator is the character used to separate topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Child returns a child topic by appending a segment.
//
// Example: "history".Child("undone") -> "history.undone"
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return Topic(string(t) + Separator + segment)
}

// IsWildcard returns true if the topic contains a wildcard segment.
func (t Topic) IsWildcard() bool {
	for _, seg := range t.Segments() {
		if seg == WildcardSingle || seg == WildcardMulti {
			return true
		}
	}
	return false
}

// Validate reports whether the topic is usable as a subscription pattern.
// Empty topics and empty segments ("a..b") are rejected.
func (t Topic) Validate() error {
	if t == "" {
		return ErrInvalidTopic
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return ErrInvalidTopic
		}
	}
	return nil
}

// Matches returns true if the concrete topic t matches the given pattern.
func (t Topic) Matches(pattern Topic) bool {
	if t == "" || pattern == "" {
		return false
	}
	return matchSegments(pattern.Segments(), t.Segments())
}

// matchSegments performs recursive wildcard matching.
func matchSegments(pattern, segments []string) bool {
	if len(pattern) == 0 {
		return len(segments) == 0
	}

	switch pattern[0] {
	case WildcardMulti:
		// Try matching 0, 1, 2, ... remaining segments
		for i := 0; i <= len(segments); i++ {
			if matchSegments(pattern[1:], segments[i:]) {
				return true
			}
		}
		return false
	case WildcardSingle:
		if len(segments) == 0 {
			return false
		}
		return matchSegments(pattern[1:], segments[1:])
	default:
		if len(segments) == 0 || segments[0] != pattern[0] {
			return false
		}
		return matchSegments(pattern[1:], segments[1:])
	}
}
