package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxVariableLength bounds variable names accepted from files and requests.
const MaxVariableLength = 128

// ValidateVariableName checks a variable name read from user input.
//
// Names must be non-empty, at most [MaxVariableLength] bytes, and free of
// control characters and whitespace. The query separators "," and "|" may
// only appear inside balanced braces, as in the Q variables of a collapsed
// hierarchical model ("Q_{y|a,b}").
func ValidateVariableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidVariable, "variable name cannot be empty")
	}

	if len(name) > MaxVariableLength {
		return New(ErrCodeInvalidVariable, "variable name too long (max %d characters)", MaxVariableLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidVariable, "variable name %q contains whitespace or control characters", name)
		}
	}

	depth := 0
	for _, r := range name {
		switch {
		case r == '{':
			depth++
		case r == '}':
			if depth == 0 {
				return New(ErrCodeInvalidVariable, "variable name %q has unbalanced braces", name)
			}
			depth--
		case (r == ',' || r == '|') && depth == 0:
			return New(ErrCodeInvalidVariable, "variable name %q contains reserved character %q outside braces", name, r)
		}
	}
	if depth != 0 {
		return New(ErrCodeInvalidVariable, "variable name %q has unbalanced braces", name)
	}

	return nil
}

// ValidateVariableNames validates every name and rejects duplicates.
func ValidateVariableNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if err := ValidateVariableName(n); err != nil {
			return err
		}
		if _, dup := seen[n]; dup {
			return New(ErrCodeInvalidVariable, "variable %q listed twice", n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

// Algorithms lists the identification algorithms accepted by
// [ValidateAlgorithm].
var Algorithms = []string{"id", "gz", "z2"}

// ValidateAlgorithm checks an algorithm name.
func ValidateAlgorithm(name string) error {
	for _, a := range Algorithms {
		if name == a {
			return nil
		}
	}
	return New(ErrCodeInvalidAlgorithm, "unknown algorithm %q (want one of %s)", name, strings.Join(Algorithms, ", "))
}

// ValidatePath validates a relative file path, such as a cache key path,
// for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}

	return nil
}

// formatRegex matches the file format names understood by pkg/io.
var formatRegex = regexp.MustCompile(`^(json|ya?ml|toml)$`)

// ValidateFormat checks a graph file format name.
func ValidateFormat(format string) error {
	if !formatRegex.MatchString(format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want json, yaml or toml)", format)
	}
	return nil
}
