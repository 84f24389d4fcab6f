package treesitterhelper

import (
	"fmt"
	"io"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// PrintAllNodes writes the named nodes below node, one per line. Leaves carry their text
// and, like fields, the field name they are bound to in the parent.
func PrintAllNodes(w io.Writer, node *tree_sitter.Node, content []byte, indent string) {
	printNode(w, node, "", content, indent)
}

func printNode(w io.Writer, node *tree_sitter.Node, field string, content []byte, indent string) {
	if node == nil {
		return
	}

	label := node.Kind()
	if field != "" {
		label = field + ": " + label
	}

	if node.NamedChildCount() == 0 {
		_, _ = fmt.Fprintf(w, "%s%s %q\n", indent, label, node.Utf8Text(content))
		return
	}
	_, _ = fmt.Fprintf(w, "%s%s [%d:%d]\n", indent, label, node.Range().StartPoint.Row+1, node.Range().EndPoint.Row+1)

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		printNode(w, child, node.FieldNameForChild(uint32(i)), content, indent+"  ")
	}
}
