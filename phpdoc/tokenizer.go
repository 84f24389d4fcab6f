package phpdoc

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

type TokenKind int

const (
	TokenOther TokenKind = iota
	TokenIdentifier
	TokenKeyword
	TokenSeparator // \
	TokenComma
	TokenSemicolon
	TokenOpenBrace
	TokenCloseBrace
	TokenOpenParen
	TokenCloseParen
)

// Token is a single lexical element of PHP source. Whitespace and comments are dropped.
type Token struct {
	Kind TokenKind
	Text string
}

// Is reports whether the token is the given keyword, ignoring case.
func (t Token) Is(keyword string) bool {
	return t.Kind == TokenKeyword && strings.EqualFold(t.Text, keyword)
}

// Tokenizer turns PHP source into the token stream consumed by ParseUseStatements.
type Tokenizer interface {
	Tokenize(source []byte) []Token
}

var keywords = map[string]bool{
	"use":       true,
	"as":        true,
	"namespace": true,
	"function":  true,
	"const":     true,
}

// TreeSitterTokenizer emits the leaves of a tree-sitter-php parse as tokens.
// A parser is created per call because tree-sitter parsers are not safe for concurrent use.
type TreeSitterTokenizer struct{}

func (TreeSitterTokenizer) Tokenize(source []byte) []Token {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())); err != nil {
		return nil
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	var tokens []Token
	stack := []*tree_sitter.Node{tree.RootNode()}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.ChildCount() == 0 {
			tokens = appendLeaf(tokens, node, source)
			continue
		}

		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			if child := node.Child(uint(i)); child != nil {
				stack = append(stack, child)
			}
		}
	}

	return tokens
}

func appendLeaf(tokens []Token, node *tree_sitter.Node, source []byte) []Token {
	if node.IsMissing() || node.Kind() == "comment" {
		return tokens
	}

	text := node.Utf8Text(source)
	if text == "" {
		return tokens
	}

	if opaqueLeaf(node) {
		return append(tokens, Token{Kind: TokenOther, Text: text})
	}

	if strings.Contains(text, `\`) && text != `\` {
		// qualified names may come back as a single leaf depending on the grammar version
		for i, part := range strings.Split(text, `\`) {
			if i > 0 {
				tokens = append(tokens, Token{Kind: TokenSeparator, Text: `\`})
			}
			if part != "" {
				tokens = append(tokens, classifyWord(part))
			}
		}
		return tokens
	}

	switch text {
	case `\`:
		return append(tokens, Token{Kind: TokenSeparator, Text: text})
	case ",":
		return append(tokens, Token{Kind: TokenComma, Text: text})
	case ";":
		return append(tokens, Token{Kind: TokenSemicolon, Text: text})
	case "{":
		return append(tokens, Token{Kind: TokenOpenBrace, Text: text})
	case "}":
		return append(tokens, Token{Kind: TokenCloseBrace, Text: text})
	case "(":
		return append(tokens, Token{Kind: TokenOpenParen, Text: text})
	case ")":
		return append(tokens, Token{Kind: TokenCloseParen, Text: text})
	}

	return append(tokens, classifyWord(text))
}

func classifyWord(text string) Token {
	if !isIdentifier(text) {
		return Token{Kind: TokenOther, Text: text}
	}
	if keywords[strings.ToLower(text)] {
		return Token{Kind: TokenKeyword, Text: text}
	}
	return Token{Kind: TokenIdentifier, Text: text}
}

func isIdentifier(text string) bool {
	for i, r := range text {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= 0x80:
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return text != ""
}

// opaqueLeaf reports leaves that are never names: string contents, inline HTML and open tags.
func opaqueLeaf(node *tree_sitter.Node) bool {
	for parent, depth := node.Parent(), 0; parent != nil && depth < 2; parent, depth = parent.Parent(), depth+1 {
		switch parent.Kind() {
		case "string", "encapsed_string", "heredoc", "heredoc_body", "nowdoc", "nowdoc_body", "shell_command_expression":
			return true
		}
	}
	switch node.Kind() {
	case "string_content", "string_value", "text", "php_tag":
		return true
	}
	return false
}
