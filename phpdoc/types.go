package phpdoc

import (
	"regexp"
	"strings"
)

var classNamePattern = regexp.MustCompile(`^[A-Za-z0-9_\\]+$`)

// isIgnoredType checks if the declaration names a built-in or pseudo type that never
// resolves to a class.
func isIgnoredType(decl string) bool {
	switch strings.ToLower(decl) {
	case "bool", "boolean", "string", "int", "integer", "float", "double",
		"array", "object", "callable", "resource",
		"mixed", "iterable", "void", "null", "never", "false", "true",
		"self", "static", "parent":
		return true
	default:
		return false
	}
}

// isClassName rejects compound declarations the reader does not understand,
// e.g. "Foo[]", "?Foo" or "Collection<Foo>".
func isClassName(decl string) bool {
	return classNamePattern.MatchString(decl)
}

func isFullyQualified(decl string) bool {
	return strings.HasPrefix(decl, `\`)
}
