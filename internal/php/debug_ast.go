package php

import (
	"fmt"
	"io"
	"os"
	"sort"

	treesitterhelper "github.com/shopware/phpdoc-reader/internal/tree_sitter_helper"
)

// DebugAST parses a PHP file and writes its syntax tree followed by the classes found in it.
func DebugAST(w io.Writer, filePath string) error {
	fileContent, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	parser, err := NewParser()
	if err != nil {
		return err
	}
	defer parser.Close()

	tree := parser.Parse(fileContent, nil)
	if tree == nil {
		return fmt.Errorf("failed to parse %s", filePath)
	}
	defer tree.Close()

	treesitterhelper.PrintAllNodes(w, tree.RootNode(), fileContent, "")

	classes := GetClassesOfFile(filePath, tree.RootNode(), fileContent)
	for _, name := range sortedKeys(classes) {
		class := classes[name]
		_, _ = fmt.Fprintf(w, "\n%s %s (line %d)\n", class.Kind, class.Name, class.Line)
		if class.Parent != "" {
			_, _ = fmt.Fprintf(w, "  extends %s\n", class.Parent)
		}
		for _, trait := range class.Traits {
			_, _ = fmt.Fprintf(w, "  uses %s\n", trait)
		}
		for _, propName := range sortedKeys(class.Properties) {
			prop := class.Properties[propName]
			_, _ = fmt.Fprintf(w, "  $%s %s (line %d, doc: %t)\n", prop.Name, prop.Type, prop.Line, prop.DocComment != "")
		}
		for _, methodName := range sortedKeys(class.Methods) {
			method := class.Methods[methodName]
			_, _ = fmt.Fprintf(w, "  %s(): %s (line %d, doc: %t)\n", method.Name, method.ReturnType, method.Line, method.DocComment != "")
			for _, param := range method.Parameters {
				_, _ = fmt.Fprintf(w, "    $%s %s -> %q\n", param.Name, param.Type, param.Class)
			}
		}
	}

	return nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
