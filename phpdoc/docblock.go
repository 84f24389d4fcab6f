package phpdoc

import (
	"regexp"
	"strings"
	"sync"
)

var tagPatterns sync.Map // tag name or tag and member -> *regexp.Regexp

// ExtractTags returns the type tokens of every @tag occurrence in the doc comment, in
// source order. When member is set only "@tag <type> $member" occurrences count, which
// is how a method comment documenting several parameters is narrowed to one of them.
func ExtractTags(doc, tag, member string) []string {
	if doc == "" || tag == "" {
		return nil
	}

	matches := tagPattern(tag, member).FindAllStringSubmatch(doc, -1)
	if len(matches) == 0 {
		return nil
	}

	types := make([]string, 0, len(matches))
	for _, match := range matches {
		types = append(types, match[1])
	}
	return types
}

// GetTag returns the first type token of @tag, see ExtractTags.
func GetTag(doc, tag, member string) (string, bool) {
	tags := ExtractTags(doc, tag, member)
	if len(tags) == 0 {
		return "", false
	}
	return tags[0], true
}

// tagPattern returns the compiled pattern for @tag, narrowed to $member when set.
func tagPattern(tag, member string) *regexp.Regexp {
	key := tag
	if member != "" {
		key = tag + " $" + member
	}
	if cached, ok := tagPatterns.Load(key); ok {
		return cached.(*regexp.Regexp)
	}

	expr := `@` + regexp.QuoteMeta(tag) + `\s+(\S+)`
	if member != "" {
		expr += `\s+(?:&\s*)?(?:\.\.\.)?\$` + regexp.QuoteMeta(member) + `\b`
	}
	pattern, _ := tagPatterns.LoadOrStore(key, regexp.MustCompile(expr))
	return pattern.(*regexp.Regexp)
}

// splitUnion splits a union declaration such as "Foo|Bar|null" into its members.
// Order and duplicates are kept as written.
func splitUnion(decl string) []string {
	return strings.Split(decl, "|")
}
