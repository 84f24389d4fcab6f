package treesitterhelper

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

const patternSource = `<?php
namespace App\Catalog;

use App\Price\Money;
use function App\helper;

/**
 * Product entity.
 */
final class Product extends Base
{
    /** @var Money */
    // a plain comment in between
    private $price;

    // not a doc comment
    private $name;

    public function setPrice(?Money $price, int ...$amounts): static
    {
        return $this;
    }
}

interface Priced {}
`

func parsePHP(t *testing.T, source string) (*tree_sitter.Tree, []byte) {
	t.Helper()
	parser := tree_sitter.NewParser()
	defer parser.Close()
	require.NoError(t, parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())))

	content := []byte(source)
	tree := parser.Parse(content, nil)
	require.NotNil(t, tree)
	t.Cleanup(tree.Close)
	return tree, content
}

func TestPHPPatterns(t *testing.T) {
	tree, content := parsePHP(t, patternSource)
	root := tree.RootNode()

	classLikes := FindAll(root, PHPClassLikePattern, content)
	require.Len(t, classLikes, 2)
	assert.Equal(t, "class_declaration", classLikes[0].Kind())
	assert.Equal(t, "interface_declaration", classLikes[1].Kind())

	docComments := FindAll(root, PHPDocCommentPattern, content)
	require.Len(t, docComments, 2)
	assert.Equal(t, "/** @var Money */", docComments[1].Utf8Text(content))

	params := FindAll(root, PHPParameterPattern, content)
	require.Len(t, params, 2)
	assert.Equal(t, "simple_parameter", params[0].Kind())
	assert.Equal(t, "variadic_parameter", params[1].Kind())

	optional := FindChild(params[0], PHPTypePattern, content)
	require.NotNil(t, optional)
	assert.Equal(t, "optional_type", optional.Kind())
	assert.Equal(t, "?Money", optional.Utf8Text(content))

	uses := FindAll(root, NodeKind("namespace_use_declaration"), content)
	require.Len(t, uses, 2)
	assert.False(t, PHPFunctionOrConstImportPattern.Matches(uses[0], content))
	assert.False(t, PHPFunctionOrConstImportPattern.Matches(uses[1], content), "the keyword of a single import belongs to its clause")
	functionClause := FindChild(uses[1], NodeKind("namespace_use_clause"), content)
	require.NotNil(t, functionClause)
	assert.True(t, PHPFunctionOrConstImportPattern.Matches(functionClause, content))

	name := FindFirst(uses[0], PHPNamePattern, content)
	require.NotNil(t, name)
	assert.Equal(t, `App\Price\Money`, name.Utf8Text(content))
}

func TestFunctionOrConstGroupImport(t *testing.T) {
	tree, content := parsePHP(t, "<?php\nuse const App\\{ONE, TWO};\nuse App\\{Three};\n")
	root := tree.RootNode()

	uses := FindAll(root, NodeKind("namespace_use_declaration"), content)
	require.Len(t, uses, 2)
	assert.True(t, PHPFunctionOrConstImportPattern.Matches(uses[0], content), "the keyword of a group import belongs to the declaration")
	assert.False(t, PHPFunctionOrConstImportPattern.Matches(uses[1], content))

	clauses := FindAll(uses[0], NodeKind("namespace_use_clause"), content)
	require.Len(t, clauses, 2)
	assert.False(t, PHPFunctionOrConstImportPattern.Matches(clauses[0], content))
}

func TestPrecedingDocComment(t *testing.T) {
	tree, content := parsePHP(t, patternSource)
	root := tree.RootNode()

	class := FindFirst(root, NodeKind("class_declaration"), content)
	require.NotNil(t, class)
	assert.Contains(t, PrecedingDocComment(class, content), "Product entity.")

	properties := FindAll(root, NodeKind("property_declaration"), content)
	require.Len(t, properties, 2)
	assert.Equal(t, "/** @var Money */", PrecedingDocComment(properties[0], content), "plain comments are skipped")
	assert.Empty(t, PrecedingDocComment(properties[1], content))

	method := FindFirst(root, NodeKind("method_declaration"), content)
	require.NotNil(t, method)
	assert.Empty(t, PrecedingDocComment(method, content), "stops at the previous member")

	iface := FindFirst(root, NodeKind("interface_declaration"), content)
	require.NotNil(t, iface)
	assert.Empty(t, PrecedingDocComment(iface, content))
}

func TestPatternCombinators(t *testing.T) {
	tree, content := parsePHP(t, patternSource)
	root := tree.RootNode()

	variable := And(NodeKind("variable_name"), NodeText("$price"))
	inMethod := Ancestor(NodeKind("method_declaration"), 5)

	matches := FindAll(root, variable, content)
	require.Len(t, matches, 2, "the property and the parameter")
	assert.False(t, inMethod.Matches(matches[0], content))
	assert.True(t, inMethod.Matches(matches[1], content))
	assert.Len(t, FindAll(root, And(variable, Not(inMethod)), content), 1)

	assert.True(t, Or(NodeKind("missing"), NodeTextPrefix("<?php")).Matches(root, content))
	assert.False(t, Or().Matches(root, content))
	assert.True(t, And().Matches(root, content))

	classWithBase := And(NodeKind("class_declaration"), HasChild(NodeKind("base_clause")))
	assert.Len(t, FindAll(root, classWithBase, content), 1)

	assert.True(t, HasToken("final_modifier", "class").Matches(FindFirst(root, PHPClassLikePattern, content), content))
	assert.False(t, HasToken("function").Matches(root, content))

	assert.Nil(t, FindFirst(root, NodeKind("trait_declaration"), content))
	assert.Empty(t, FindChildren(root, NodeKind("trait_declaration"), content))
	assert.Len(t, FindChildren(root, NodeKind("namespace_use_declaration"), content), 2)
}

func TestPrintAllNodes(t *testing.T) {
	tree, content := parsePHP(t, "<?php\nclass A { public $b; }\n")

	var out bytes.Buffer
	PrintAllNodes(&out, tree.RootNode(), content, "")

	printed := out.String()
	assert.Contains(t, printed, "program [1:")
	assert.Contains(t, printed, "  class_declaration [2:2]")
	assert.Contains(t, printed, `name: name "A"`)
	assert.Contains(t, printed, `variable_name`)
}
