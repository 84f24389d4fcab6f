package php

import (
	"fmt"
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

// NewParser returns a tree-sitter parser for PHP. Parsers are not safe for concurrent use.
func NewParser() (*tree_sitter.Parser, error) {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	return parser, nil
}

// ParseFile reads and parses a PHP file and returns the classes it declares.
func ParseFile(path string) (map[string]PHPClass, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parser, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s", path)
	}
	defer tree.Close()

	return GetClassesOfFile(path, tree.RootNode(), content), nil
}
