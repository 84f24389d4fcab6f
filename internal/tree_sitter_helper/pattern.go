package treesitterhelper

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Common PHP patterns
var (
	PHPClassLikePattern = AnyNodeKind("class_declaration", "interface_declaration", "trait_declaration", "enum_declaration")

	PHPDocCommentPattern = And(NodeKind("comment"), NodeTextPrefix("/**"))

	PHPTypePattern = AnyNodeKind(
		"named_type",
		"optional_type",
		"union_type",
		"intersection_type",
		"disjunctive_normal_form_type",
		"primitive_type",
		"bottom_type",
	)

	PHPNamePattern = AnyNodeKind("name", "qualified_name", "relative_name")

	PHPParameterPattern = AnyNodeKind("simple_parameter", "variadic_parameter", "property_promotion_parameter")

	// PHPFunctionOrConstImportPattern matches the node carrying the function or const
	// keyword of an import: the clause of a single import, the declaration of a group import.
	PHPFunctionOrConstImportPattern = HasToken("function", "const")
)

// Pattern defines a pattern that can be matched against a tree-sitter node
type Pattern interface {
	Matches(node *tree_sitter.Node, content []byte) bool
}

// Create a pattern from a function
func FuncPattern(matchFunc func(node *tree_sitter.Node, content []byte) bool) Pattern {
	return funcPattern(matchFunc)
}

type funcPattern func(node *tree_sitter.Node, content []byte) bool

func (p funcPattern) Matches(node *tree_sitter.Node, content []byte) bool {
	return p(node, content)
}

// Chain multiple patterns using AND logic
func And(patterns ...Pattern) Pattern {
	return FuncPattern(func(node *tree_sitter.Node, content []byte) bool {
		for _, pattern := range patterns {
			if !pattern.Matches(node, content) {
				return false
			}
		}
		return true
	})
}

// Chain multiple patterns using OR logic
func Or(patterns ...Pattern) Pattern {
	return FuncPattern(func(node *tree_sitter.Node, content []byte) bool {
		for _, pattern := range patterns {
			if pattern.Matches(node, content) {
				return true
			}
		}
		return false
	})
}

// Negate a pattern
func Not(pattern Pattern) Pattern {
	return FuncPattern(func(node *tree_sitter.Node, content []byte) bool {
		return !pattern.Matches(node, content)
	})
}

// Match a node's kind
func NodeKind(kind string) Pattern {
	return FuncPattern(func(node *tree_sitter.Node, _ []byte) bool {
		return node.Kind() == kind
	})
}

// Match any of the node kinds
func AnyNodeKind(kinds ...string) Pattern {
	return FuncPattern(func(node *tree_sitter.Node, _ []byte) bool {
		kind := node.Kind()
		for _, k := range kinds {
			if kind == k {
				return true
			}
		}
		return false
	})
}

// Match a node's text content
func NodeText(text string) Pattern {
	return FuncPattern(func(node *tree_sitter.Node, content []byte) bool {
		return node.Utf8Text(content) == text
	})
}

func NodeTextPrefix(prefix string) Pattern {
	return FuncPattern(func(node *tree_sitter.Node, content []byte) bool {
		return strings.HasPrefix(node.Utf8Text(content), prefix)
	})
}

// Match a node that has a named child matching the pattern
func HasChild(pattern Pattern) Pattern {
	return FuncPattern(func(node *tree_sitter.Node, content []byte) bool {
		return FindChild(node, pattern, content) != nil
	})
}

// HasToken matches a node with a direct anonymous child of one of the kinds, e.g. a keyword.
func HasToken(kinds ...string) Pattern {
	tokenPattern := AnyNodeKind(kinds...)
	return FuncPattern(func(node *tree_sitter.Node, content []byte) bool {
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child != nil && !child.IsNamed() && tokenPattern.Matches(child, content) {
				return true
			}
		}
		return false
	})
}

// Match an ancestor node that matches the pattern
func Ancestor(pattern Pattern, maxDepth int) Pattern {
	return FuncPattern(func(node *tree_sitter.Node, content []byte) bool {
		current := node.Parent()
		for depth := 0; current != nil && depth < maxDepth; depth++ {
			if pattern.Matches(current, content) {
				return true
			}
			current = current.Parent()
		}
		return false
	})
}

// FindChild returns the first direct named child matching the pattern
func FindChild(node *tree_sitter.Node, pattern Pattern, content []byte) *tree_sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && pattern.Matches(child, content) {
			return child
		}
	}
	return nil
}

// FindChildren returns all direct named children matching the pattern
func FindChildren(node *tree_sitter.Node, pattern Pattern, content []byte) []*tree_sitter.Node {
	var results []*tree_sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && pattern.Matches(child, content) {
			results = append(results, child)
		}
	}
	return results
}

// Utility function to match a pattern and return the first matching node
func FindFirst(root *tree_sitter.Node, pattern Pattern, content []byte) *tree_sitter.Node {
	if pattern.Matches(root, content) {
		return root
	}

	for i := uint(0); i < root.NamedChildCount(); i++ {
		if result := FindFirst(root.NamedChild(i), pattern, content); result != nil {
			return result
		}
	}

	return nil
}

// Utility function to find all nodes matching a pattern
func FindAll(root *tree_sitter.Node, pattern Pattern, content []byte) []*tree_sitter.Node {
	var results []*tree_sitter.Node

	var visit func(node *tree_sitter.Node)
	visit = func(node *tree_sitter.Node) {
		if pattern.Matches(node, content) {
			results = append(results, node)
		}

		for i := uint(0); i < node.NamedChildCount(); i++ {
			visit(node.NamedChild(i))
		}
	}

	visit(root)
	return results
}

// PrecedingDocComment returns the closest "/**" comment in front of the node. Plain
// comments in between are skipped.
func PrecedingDocComment(node *tree_sitter.Node, content []byte) string {
	for prev := node.PrevNamedSibling(); prev != nil && prev.Kind() == "comment"; prev = prev.PrevNamedSibling() {
		if PHPDocCommentPattern.Matches(prev, content) {
			return prev.Utf8Text(content)
		}
	}
	return ""
}
