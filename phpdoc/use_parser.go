package phpdoc

import "strings"

// ImportTable maps lower-cased import aliases to fully qualified names.
type ImportTable map[string]string

// Lookup returns the fully qualified name imported under alias, ignoring case.
func (t ImportTable) Lookup(alias string) (string, bool) {
	fqn, ok := t[strings.ToLower(alias)]
	return fqn, ok
}

// ParseUseStatements collects the class imports declared at the top level of the given
// namespace. Function and constant imports are skipped, group imports are expanded.
func ParseUseStatements(tokens []Token, namespace string) ImportTable {
	p := &useParser{tokens: tokens}
	imports := ImportTable{}

	current := ""
	depth, bodyDepth := 0, 0
	for p.more() {
		tok := p.next()
		switch {
		case tok.Kind == TokenOpenBrace:
			depth++
		case tok.Kind == TokenCloseBrace:
			if depth > 0 {
				depth--
			}
		case tok.Is("namespace"):
			if p.peek().Kind == TokenSeparator {
				// namespace\Foo is a relative name, not a declaration
				continue
			}
			name, braced := p.parseNamespace()
			current = name
			if braced {
				depth++
			}
			bodyDepth = depth
			// a namespace declared again starts over
			imports = ImportTable{}
		case tok.Is("use"):
			if depth == bodyDepth && strings.EqualFold(current, namespace) {
				p.parseUseStatement(imports)
			}
		}
	}

	return imports
}

type useParser struct {
	tokens []Token
	pos    int
}

func (p *useParser) more() bool {
	return p.pos < len(p.tokens)
}

func (p *useParser) next() Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *useParser) peek() Token {
	if !p.more() {
		return Token{}
	}
	return p.tokens[p.pos]
}

func (p *useParser) parseNamespace() (string, bool) {
	var name strings.Builder
	for p.more() {
		switch tok := p.peek(); tok.Kind {
		case TokenIdentifier, TokenKeyword, TokenSeparator:
			name.WriteString(tok.Text)
			p.next()
		case TokenOpenBrace:
			p.next()
			return strings.Trim(name.String(), `\`), true
		case TokenSemicolon:
			p.next()
			return strings.Trim(name.String(), `\`), false
		default:
			return strings.Trim(name.String(), `\`), false
		}
	}
	return strings.Trim(name.String(), `\`), false
}

// parseUseStatement consumes one use statement, the leading "use" already read.
func (p *useParser) parseUseStatement(imports ImportTable) {
	var groupRoot, class, alias string
	explicitAlias := false
	skipStatement := false // use function / use const
	skipClause := false    // function or const entry inside a group

	record := func() {
		if skipStatement || skipClause || alias == "" || class == "" {
			return
		}
		imports[strings.ToLower(alias)] = strings.TrimPrefix(groupRoot+class, `\`)
	}

	for p.more() {
		tok := p.peek()
		switch {
		case tok.Is("as"):
			explicitAlias = true
			alias = ""
		case (tok.Is("function") || tok.Is("const")) && class == "":
			if groupRoot == "" {
				skipStatement = true
			} else {
				skipClause = true
			}
		case tok.Kind == TokenIdentifier || tok.Kind == TokenKeyword || tok.Kind == TokenSeparator:
			if explicitAlias {
				alias = tok.Text
			} else {
				class += tok.Text
				if tok.Kind != TokenSeparator {
					alias = tok.Text
				}
			}
		case tok.Kind == TokenComma:
			record()
			class, alias, explicitAlias, skipClause = "", "", false, false
		case tok.Kind == TokenSemicolon:
			p.next()
			record()
			return
		case tok.Kind == TokenOpenBrace:
			groupRoot = class
			class, alias = "", ""
		case tok.Kind == TokenCloseBrace:
		default:
			// closure "use (...)" and anything unexpected end the statement
			return
		}
		p.next()
	}
}
