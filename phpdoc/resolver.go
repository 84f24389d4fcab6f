package phpdoc

import "strings"

// resolveType turns a documented type into a fully qualified name. An empty result
// without error means the declaration does not denote a class.
func (r *Reader) resolveType(decl string, class Class, member Member) (string, error) {
	if p, ok := member.(*Parameter); ok && p.TypeHint != "" {
		return p.TypeHint, nil
	}

	if isIgnoredType(decl) || !isClassName(decl) {
		return "", nil
	}

	if fqn := r.lookup(decl, class, member, make(map[string]struct{})); fqn != "" {
		return fqn, nil
	}

	if r.ignorePhpDocErrors {
		return "", nil
	}
	return "", &CannotResolveError{Type: decl, Member: member}
}

// lookup tries, in order: the declaration as written when fully qualified, the import
// table of the class, the class namespace, the global namespace and finally the traits
// composed into the class hierarchy.
func (r *Reader) lookup(decl string, class Class, member Member, visited map[string]struct{}) string {
	if isFullyQualified(decl) {
		return decl
	}

	if class == nil {
		if r.registry.Exists(decl) {
			return decl
		}
		return ""
	}
	visited[strings.ToLower(class.Name())] = struct{}{}

	alias, rest, nested := strings.Cut(decl, `\`)
	if fqn, ok := r.imports.Get(class).Lookup(alias); ok {
		if nested {
			return fqn + `\` + rest
		}
		return fqn
	}

	if namespace := class.Namespace(); namespace != "" {
		if candidate := namespace + `\` + decl; r.registry.Exists(candidate) {
			return candidate
		}
	}

	if r.registry.Exists(decl) {
		return decl
	}

	return r.lookupInTraits(decl, class, member, visited)
}

// lookupInTraits resolves the declaration in the context of the traits used by the class
// and its ancestors, since a member composed from a trait is documented in the trait's file.
func (r *Reader) lookupInTraits(decl string, class Class, member Member, visited map[string]struct{}) string {
	var traits []Class
	ancestors := make(map[string]struct{})
	for c := class; c != nil; c = c.Parent() {
		key := strings.ToLower(c.Name())
		if _, seen := ancestors[key]; seen {
			break
		}
		ancestors[key] = struct{}{}
		traits = append(traits, c.Traits()...)
	}

	for _, trait := range traits {
		if trait == nil {
			continue
		}
		if _, seen := visited[strings.ToLower(trait.Name())]; seen {
			continue
		}
		if !member.declaredBy(trait) {
			continue
		}
		if fqn := r.lookup(decl, trait, member, visited); fqn != "" {
			return fqn
		}
	}

	return ""
}
