package phpdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		tag      string
		member   string
		expected []string
	}{
		{
			name:     "single var",
			doc:      "/** @var Foo\\Bar */",
			tag:      "var",
			expected: []string{"Foo\\Bar"},
		},
		{
			name:     "repeated tag keeps source order",
			doc:      "/**\n * @var First\n * @var Second\n */",
			tag:      "var",
			expected: []string{"First", "Second"},
		},
		{
			name:     "union stays one token",
			doc:      "/** @var Foo|Bar|null */",
			tag:      "var",
			expected: []string{"Foo|Bar|null"},
		},
		{
			name:     "return tag",
			doc:      "/**\n * Does things.\n *\n * @return \\Foo\\Result\n */",
			tag:      "return",
			expected: []string{"\\Foo\\Result"},
		},
		{
			name:     "param anchored to member",
			doc:      "/**\n * @param int $count\n * @param Logger $logger\n */",
			tag:      "param",
			member:   "logger",
			expected: []string{"Logger"},
		},
		{
			name:     "param name must end at word boundary",
			doc:      "/** @param Foo $loggerFactory */",
			tag:      "param",
			member:   "logger",
			expected: nil,
		},
		{
			name:     "by-reference param",
			doc:      "/** @param Foo &$out */",
			tag:      "param",
			member:   "out",
			expected: []string{"Foo"},
		},
		{
			name:     "variadic param",
			doc:      "/** @param Handler ...$handlers */",
			tag:      "param",
			member:   "handlers",
			expected: []string{"Handler"},
		},
		{
			name:     "similar tag is not matched",
			doc:      "/** @variable Foo */",
			tag:      "var",
			expected: nil,
		},
		{
			name:     "prefixed tool tag is not matched",
			doc:      "/** @psalm-var Foo */",
			tag:      "var",
			expected: nil,
		},
		{
			name:     "empty comment",
			doc:      "",
			tag:      "var",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractTags(tt.doc, tt.tag, tt.member))
		})
	}
}

func TestTagPatternCache(t *testing.T) {
	doc := "/**\n * @param Money $price\n * @param int $priceCents\n */"

	assert.Equal(t, []string{"Money"}, ExtractTags(doc, "param", "price"))
	first, ok := tagPatterns.Load("param $price")
	assert.True(t, ok)

	assert.Equal(t, []string{"int"}, ExtractTags(doc, "param", "priceCents"))
	assert.Equal(t, []string{"Money"}, ExtractTags(doc, "param", "price"))
	second, _ := tagPatterns.Load("param $price")
	assert.Same(t, first, second, "named patterns are compiled once")

	assert.Equal(t, []string{"Money", "int"}, ExtractTags(doc, "param", ""))
	_, ok = tagPatterns.Load("param")
	assert.True(t, ok)
}

func TestGetTag(t *testing.T) {
	typ, ok := GetTag("/**\n * @var A\n * @var B\n */", "var", "")
	assert.True(t, ok)
	assert.Equal(t, "A", typ)

	_, ok = GetTag("/** no tags here */", "var", "")
	assert.False(t, ok)
}

func TestSplitUnion(t *testing.T) {
	assert.Equal(t, []string{"Foo"}, splitUnion("Foo"))
	assert.Equal(t, []string{"Foo", "Bar", "Foo", "null"}, splitUnion("Foo|Bar|Foo|null"))
}

func TestDeclarationFilters(t *testing.T) {
	for _, typ := range []string{"int", "Integer", "bool", "string", "array", "callable", "resource", "mixed", "null", "self"} {
		assert.True(t, isIgnoredType(typ), typ)
	}
	assert.False(t, isIgnoredType("Foo"))

	assert.True(t, isClassName("Foo\\Bar_2"))
	assert.True(t, isClassName("\\Foo"))
	assert.False(t, isClassName("Foo[]"))
	assert.False(t, isClassName("?Foo"))
	assert.False(t, isClassName("Collection<Foo>"))
	assert.False(t, isClassName("array{a: int}"))
}
