package php

import "strings"

// AliasResolver resolves names written in class headers and native type declarations to
// fully qualified class names, using the namespace and the imports of the file.
type AliasResolver struct {
	// lower-cased alias -> fully qualified name
	imports          map[string]string
	currentNamespace string
}

func NewAliasResolver(namespace string, imports map[string]string) *AliasResolver {
	return &AliasResolver{
		imports:          imports,
		currentNamespace: namespace,
	}
}

// ResolveType returns the fully qualified name of typeName without a leading separator.
// Primitive and special types are returned unchanged.
func (r *AliasResolver) ResolveType(typeName string) string {
	if isPrimitiveType(typeName) || isSpecialType(typeName) {
		return typeName
	}

	if strings.HasPrefix(typeName, `\`) {
		return strings.TrimPrefix(typeName, `\`)
	}

	if rest, ok := cutPrefixFold(typeName, `namespace\`); ok {
		return r.qualify(rest)
	}

	first, rest, nested := strings.Cut(typeName, `\`)
	if fqcn, ok := r.imports[strings.ToLower(first)]; ok {
		if nested {
			return fqcn + `\` + rest
		}
		return fqcn
	}

	return r.qualify(typeName)
}

func (r *AliasResolver) qualify(name string) string {
	if r.currentNamespace == "" {
		return name
	}
	return r.currentNamespace + `\` + name
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// isPrimitiveType checks if the given type is a PHP primitive type.
func isPrimitiveType(typeName string) bool {
	switch strings.ToLower(typeName) {
	case "string", "int", "integer", "float", "double", "bool", "boolean",
		"array", "object", "callable", "iterable", "void", "null",
		"mixed", "never", "resource", "false", "true":
		return true
	default:
		return false
	}
}

// isSpecialType checks if the given type refers to the current class context.
func isSpecialType(typeName string) bool {
	switch strings.ToLower(typeName) {
	case "self", "static", "parent", "$this":
		return true
	default:
		return false
	}
}
