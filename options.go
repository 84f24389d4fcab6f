package main

import (
	"fmt"
	"strings"
)

// Options are the global flags. Sub-commands read them after parsing.
type Options struct {
	Project            string `short:"p" long:"project" description:"project root, defaults to the working directory"`
	IgnorePhpDocErrors bool   `long:"ignore-phpdoc-errors" description:"treat unresolvable doc comment types as undocumented"`
	CacheDir           string `long:"cache-dir" description:"directory of the persistent class index"`

	Resolve ResolveCommand `command:"resolve" description:"print the classes documented for a class member"`
	Serve   ServeCommand   `command:"serve" description:"answer phpdoc requests over JSON-RPC on stdin and stdout"`
	Index   IndexCommand   `command:"index" description:"build the class index and print a summary"`
}

type ResolveCommand struct {
	All  bool `short:"a" long:"all" description:"print every class of a union type"`
	Args struct {
		Member string `positional-arg-name:"member" description:"Class::$property, Class::method() or Class::method($parameter)"`
	} `positional-args:"yes" required:"yes"`
}

type ServeCommand struct {
	Watch bool `short:"w" long:"watch" description:"reindex changed files while serving"`
}

type IndexCommand struct {
	Clear bool `long:"clear" description:"drop the stored index before scanning"`
}

type memberKind int

const (
	propertyMember memberKind = iota
	methodMember
	parameterMember
)

// memberRef is a parsed member reference as accepted by the resolve command.
type memberRef struct {
	Class     string
	Kind      memberKind
	Member    string
	Parameter string
}

// parseMember parses Class::$property, Class::method() and Class::method($parameter).
func parseMember(ref string) (memberRef, error) {
	class, member, ok := strings.Cut(strings.TrimSpace(ref), "::")
	if !ok || class == "" || member == "" {
		return memberRef{}, fmt.Errorf("invalid member reference %q, expected Class::member", ref)
	}
	class = strings.TrimPrefix(class, `\`)

	if name, ok := strings.CutPrefix(member, "$"); ok {
		if name == "" {
			return memberRef{}, fmt.Errorf("invalid member reference %q, missing property name", ref)
		}
		return memberRef{Class: class, Kind: propertyMember, Member: name}, nil
	}

	method, args, ok := strings.Cut(member, "(")
	if !ok || !strings.HasSuffix(args, ")") || method == "" {
		return memberRef{}, fmt.Errorf("invalid member reference %q, expected a property or a method call", ref)
	}

	parameter := strings.TrimSpace(strings.TrimSuffix(args, ")"))
	if parameter == "" {
		return memberRef{Class: class, Kind: methodMember, Member: method}, nil
	}
	return memberRef{
		Class:     class,
		Kind:      parameterMember,
		Member:    method,
		Parameter: strings.TrimPrefix(parameter, "$"),
	}, nil
}

func (r memberRef) String() string {
	switch r.Kind {
	case propertyMember:
		return r.Class + "::$" + r.Member
	case parameterMember:
		return r.Class + "::" + r.Member + "($" + r.Parameter + ")"
	default:
		return r.Class + "::" + r.Member + "()"
	}
}
