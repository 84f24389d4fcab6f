// Package phpdoc resolves the class names documented by @var, @param and @return tags
// of PHP class members into fully qualified names.
package phpdoc

import "strings"

// Config configures a Reader. Nil collaborators fall back to OSFileReader and
// TreeSitterTokenizer.
type Config struct {
	// IgnorePhpDocErrors turns unresolvable declarations into "no type" instead of a
	// CannotResolveError.
	IgnorePhpDocErrors bool
	Files              FileReader
	Tokenizer          Tokenizer
}

// Reader reads documented class types of properties, parameters and method returns.
// It is safe for concurrent use.
type Reader struct {
	registry           TypeRegistry
	imports            *ImportCache
	ignorePhpDocErrors bool
}

func NewReader(registry TypeRegistry, cfg Config) *Reader {
	return &Reader{
		registry:           registry,
		imports:            NewImportCache(cfg.Files, cfg.Tokenizer),
		ignorePhpDocErrors: cfg.IgnorePhpDocErrors,
	}
}

// Imports exposes the import table cache of the reader.
func (r *Reader) Imports() *ImportCache {
	return r.imports
}

// PropertyClass returns the class documented by the @var tag of the property,
// or "" when there is none.
func (r *Reader) PropertyClass(property *Property) (string, error) {
	return r.readClass(property)
}

// PropertyClasses returns every class of a union @var declaration.
func (r *Reader) PropertyClasses(property *Property) ([]string, error) {
	return r.readClasses(property)
}

// ParameterClass returns the class of the parameter. A native class type hint wins over
// the @param tag of the declaring method.
func (r *Reader) ParameterClass(parameter *Parameter) (string, error) {
	return r.readClass(parameter)
}

func (r *Reader) ParameterClasses(parameter *Parameter) ([]string, error) {
	return r.readClasses(parameter)
}

// MethodReturnClass returns the class documented by the @return tag of the method.
func (r *Reader) MethodReturnClass(method *Method) (string, error) {
	return r.readClass(method)
}

func (r *Reader) MethodReturnClasses(method *Method) ([]string, error) {
	return r.readClasses(method)
}

func (r *Reader) readClass(member Member) (string, error) {
	decl, ok := declaration(member)
	if !ok {
		return "", nil
	}

	resolved, err := r.resolveType(decl, member.declaringClass(), member)
	if err != nil || resolved == "" {
		return "", err
	}

	return r.validate(resolved, member)
}

func (r *Reader) readClasses(member Member) ([]string, error) {
	decl, ok := declaration(member)
	if !ok {
		return nil, nil
	}

	types := splitUnion(decl)
	classes := make([]string, 0, len(types))
	for _, typ := range types {
		resolved, err := r.resolveType(typ, member.declaringClass(), member)
		if err != nil {
			return nil, err
		}
		if resolved == "" {
			continue
		}

		class, err := r.validate(resolved, member)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}

	return classes, nil
}

// validate checks the resolved name against the registry and strips the leading separator.
func (r *Reader) validate(resolved string, member Member) (string, error) {
	class := strings.TrimPrefix(resolved, `\`)
	if !r.registry.Exists(class) {
		return "", &InvalidClassError{Class: class, Member: member}
	}
	return class, nil
}

// declaration returns the raw type declaration of the member.
func declaration(member Member) (string, bool) {
	switch m := member.(type) {
	case *Parameter:
		if m.TypeHint != "" {
			return m.TypeHint, true
		}
		return GetTag(m.DocComment, m.tag(), m.Name)
	default:
		return GetTag(member.docComment(), member.tag(), "")
	}
}
