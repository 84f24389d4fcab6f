package php

import (
	"bytes"
	"strings"

	treesitterhelper "github.com/shopware/phpdoc-reader/internal/tree_sitter_helper"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// GetClassesOfFile extracts the classes, interfaces, traits and enums declared at the top
// level of a parsed PHP file, keyed by fully qualified name.
func GetClassesOfFile(path string, node *tree_sitter.Node, fileContent []byte) map[string]PHPClass {
	classes := make(map[string]PHPClass)

	if !containsClassKeyword(fileContent) {
		return classes
	}

	p := &fileParser{
		path:    path,
		content: fileContent,
		imports: make(map[string]string),
		classes: classes,
	}
	p.walk(node)

	return classes
}

func containsClassKeyword(content []byte) bool {
	for _, keyword := range []string{"class", "interface", "trait", "enum"} {
		if bytes.Contains(content, []byte(keyword)) {
			return true
		}
	}
	return false
}

type fileParser struct {
	path      string
	content   []byte
	namespace string
	// lower-cased alias -> fully qualified class name
	imports map[string]string
	classes map[string]PHPClass
}

func (p *fileParser) text(node *tree_sitter.Node) string {
	return node.Utf8Text(p.content)
}

func (p *fileParser) walk(node *tree_sitter.Node) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}

		switch {
		case child.Kind() == "namespace_definition":
			p.namespace = ""
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				p.namespace = strings.TrimPrefix(p.text(nameNode), `\`)
			}
			p.imports = make(map[string]string)

			if body := child.ChildByFieldName("body"); body != nil {
				p.walk(body)
				p.namespace = ""
				p.imports = make(map[string]string)
			}
		case child.Kind() == "namespace_use_declaration":
			p.collectImports(child)
		case treesitterhelper.PHPClassLikePattern.Matches(child, p.content):
			if class, ok := p.parseClass(child); ok {
				p.classes[class.Name] = class
			}
		}
	}
}

// collectImports records the class imports of a use declaration. Function and constant
// imports are skipped: a group import carries the keyword on the declaration, a single
// import on each clause.
func (p *fileParser) collectImports(node *tree_sitter.Node) {
	if treesitterhelper.PHPFunctionOrConstImportPattern.Matches(node, p.content) {
		return
	}

	prefix := ""
	clauses := node
	if group := node.ChildByFieldName("body"); group != nil {
		if namespaceName := treesitterhelper.FindChild(node, treesitterhelper.NodeKind("namespace_name"), p.content); namespaceName != nil {
			prefix = strings.TrimPrefix(p.text(namespaceName), `\`) + `\`
		}
		clauses = group
	}

	for _, clause := range treesitterhelper.FindChildren(clauses, treesitterhelper.NodeKind("namespace_use_clause"), p.content) {
		if treesitterhelper.PHPFunctionOrConstImportPattern.Matches(clause, p.content) {
			continue
		}

		nameNode := treesitterhelper.FindChild(clause, treesitterhelper.PHPNamePattern, p.content)
		if nameNode == nil {
			continue
		}
		fullName := prefix + strings.TrimPrefix(p.text(nameNode), `\`)

		alias := fullName[strings.LastIndex(fullName, `\`)+1:]
		if aliasNode := clause.ChildByFieldName("alias"); aliasNode != nil {
			alias = p.text(aliasNode)
		}

		p.imports[strings.ToLower(alias)] = fullName
	}
}

func (p *fileParser) parseClass(node *tree_sitter.Node) (PHPClass, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return PHPClass{}, false
	}

	className := p.text(nameNode)
	if p.namespace != "" {
		className = p.namespace + `\` + className
	}

	class := PHPClass{
		Name:       className,
		Namespace:  p.namespace,
		Kind:       classKind(node.Kind()),
		Path:       p.path,
		Line:       int(node.Range().StartPoint.Row) + 1,
		DocComment: treesitterhelper.PrecedingDocComment(node, p.content),
		Properties: make(map[string]PHPProperty),
		Methods:    make(map[string]PHPMethod),
	}

	resolver := NewAliasResolver(p.namespace, p.imports)

	if baseClause := treesitterhelper.FindChild(node, treesitterhelper.NodeKind("base_clause"), p.content); baseClause != nil {
		for _, base := range treesitterhelper.FindChildren(baseClause, treesitterhelper.PHPNamePattern, p.content) {
			resolved := resolver.ResolveType(p.text(base))
			// interfaces extend interfaces, classes extend a single parent
			if class.Kind == KindInterface {
				class.Interfaces = append(class.Interfaces, resolved)
			} else {
				class.Parent = resolved
			}
		}
	}

	if interfaceClause := treesitterhelper.FindChild(node, treesitterhelper.NodeKind("class_interface_clause"), p.content); interfaceClause != nil {
		for _, iface := range treesitterhelper.FindChildren(interfaceClause, treesitterhelper.PHPNamePattern, p.content) {
			class.Interfaces = append(class.Interfaces, resolver.ResolveType(p.text(iface)))
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		p.extractMembers(&class, body, resolver)
	}

	return class, true
}

func classKind(nodeKind string) ClassKind {
	switch nodeKind {
	case "interface_declaration":
		return KindInterface
	case "trait_declaration":
		return KindTrait
	case "enum_declaration":
		return KindEnum
	default:
		return KindClass
	}
}

func (p *fileParser) extractMembers(class *PHPClass, body *tree_sitter.Node, resolver *AliasResolver) {
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "use_declaration":
			for _, trait := range treesitterhelper.FindChildren(child, treesitterhelper.PHPNamePattern, p.content) {
				class.Traits = append(class.Traits, resolver.ResolveType(p.text(trait)))
			}
		case "property_declaration":
			p.extractProperties(class, child, resolver)
		case "method_declaration":
			p.extractMethod(class, child, resolver)
		}
	}
}

func (p *fileParser) extractProperties(class *PHPClass, node *tree_sitter.Node, resolver *AliasResolver) {
	visibility := p.visibility(node)
	docComment := treesitterhelper.PrecedingDocComment(node, p.content)
	propType := p.typeString(node.ChildByFieldName("type"), resolver)

	// one declaration may hold several properties
	for _, element := range treesitterhelper.FindChildren(node, treesitterhelper.NodeKind("property_element"), p.content) {
		varNode := element.ChildByFieldName("name")
		if varNode == nil {
			continue
		}

		propName := strings.TrimPrefix(p.text(varNode), "$")
		class.Properties[propName] = PHPProperty{
			Name:       propName,
			Line:       int(varNode.Range().StartPoint.Row) + 1,
			Visibility: visibility,
			DocComment: docComment,
			Type:       propType,
		}
	}
}

func (p *fileParser) extractMethod(class *PHPClass, node *tree_sitter.Node, resolver *AliasResolver) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	method := PHPMethod{
		Name:       p.text(nameNode),
		Line:       int(nameNode.Range().StartPoint.Row) + 1,
		Visibility: p.visibility(node),
		DocComment: treesitterhelper.PrecedingDocComment(node, p.content),
		ReturnType: p.typeString(node.ChildByFieldName("return_type"), resolver),
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		for _, param := range treesitterhelper.FindChildren(params, treesitterhelper.PHPParameterPattern, p.content) {
			nameField := param.ChildByFieldName("name")
			if nameField == nil {
				continue
			}
			// promoted parameters may be passed by reference
			varNode := treesitterhelper.FindFirst(nameField, treesitterhelper.NodeKind("variable_name"), p.content)
			if varNode == nil {
				continue
			}

			name := strings.TrimPrefix(p.text(varNode), "$")
			typeNode := param.ChildByFieldName("type")
			method.Parameters = append(method.Parameters, PHPParameter{
				Name:  name,
				Type:  p.typeString(typeNode, resolver),
				Class: p.classHint(typeNode, class, resolver),
			})

			if param.Kind() == "property_promotion_parameter" {
				class.Properties[name] = PHPProperty{
					Name:       name,
					Line:       int(varNode.Range().StartPoint.Row) + 1,
					Visibility: p.visibility(param),
					DocComment: treesitterhelper.PrecedingDocComment(param, p.content),
					Type:       p.typeString(typeNode, resolver),
				}
			}
		}
	}

	class.Methods[method.Name] = method
}

func (p *fileParser) visibility(node *tree_sitter.Node) Visibility {
	modifier := treesitterhelper.FindChild(node, treesitterhelper.NodeKind("visibility_modifier"), p.content)
	if modifier == nil {
		return Public
	}

	switch text := strings.ToLower(p.text(modifier)); {
	case strings.HasPrefix(text, "private"):
		return Private
	case strings.HasPrefix(text, "protected"):
		return Protected
	default:
		return Public
	}
}

// typeString renders a native type declaration with class names resolved,
// e.g. "?Foo\Bar" or "Foo\Bar|null".
func (p *fileParser) typeString(node *tree_sitter.Node, resolver *AliasResolver) string {
	if node == nil {
		return ""
	}

	switch node.Kind() {
	case "named_type":
		return resolver.ResolveType(p.text(node))
	case "optional_type":
		if inner := treesitterhelper.FindChild(node, treesitterhelper.PHPTypePattern, p.content); inner != nil {
			return "?" + p.typeString(inner, resolver)
		}
	case "union_type", "intersection_type", "disjunctive_normal_form_type":
		separator := "|"
		if node.Kind() == "intersection_type" {
			separator = "&"
		}

		var parts []string
		for _, part := range treesitterhelper.FindChildren(node, treesitterhelper.PHPTypePattern, p.content) {
			rendered := p.typeString(part, resolver)
			if part.Kind() == "intersection_type" && node.Kind() != "intersection_type" {
				rendered = "(" + rendered + ")"
			}
			parts = append(parts, rendered)
		}
		return strings.Join(parts, separator)
	}

	return p.text(node)
}

// classHint returns the class named by a native type declaration, or "" when the
// declaration is not exactly one (optionally nullable) class.
func (p *fileParser) classHint(node *tree_sitter.Node, class *PHPClass, resolver *AliasResolver) string {
	if node == nil {
		return ""
	}

	if node.Kind() == "optional_type" {
		node = treesitterhelper.FindChild(node, treesitterhelper.PHPTypePattern, p.content)
		if node == nil {
			return ""
		}
	}
	if node.Kind() != "named_type" {
		return ""
	}

	resolved := resolver.ResolveType(p.text(node))
	switch strings.ToLower(resolved) {
	case "self", "static":
		return class.Name
	case "parent":
		return class.Parent
	}
	if isPrimitiveType(resolved) || isSpecialType(resolved) {
		return ""
	}
	return resolved
}
