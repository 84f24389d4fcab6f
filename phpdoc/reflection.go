package phpdoc

import "strings"

// Class is the reflected view of a PHP class, interface or trait.
// Implementations are provided by the host reflection layer; the reader only consumes them.
type Class interface {
	// Name returns the fully qualified name without a leading separator
	Name() string
	// Namespace returns the namespace segment of the name ("" for the global namespace)
	Namespace() string
	// FileName returns the source file declaring the class, or "" when it has none
	FileName() string
	// StartLine returns the 1-based line where the declaration starts
	StartLine() int
	// Traits returns the traits used directly by the class
	Traits() []Class
	// Parent returns the parent class or nil
	Parent() Class
	HasProperty(name string) bool
	HasMethod(name string) bool
}

// TypeRegistry answers whether a name denotes an existing class or interface.
type TypeRegistry interface {
	Exists(name string) bool
}

// Member is a reflected class member. It is one of *Property, *Method or *Parameter.
type Member interface {
	declaringClass() Class
	docComment() string
	tag() string
	// declaredBy reports whether the trait declares this member
	declaredBy(trait Class) bool
	describe() string
}

// Property is a reflected class property.
type Property struct {
	Class      Class
	Name       string
	DocComment string
}

// Method is a reflected method; its documented type is the @return tag.
type Method struct {
	Class      Class
	Name       string
	DocComment string
}

// Parameter is a reflected method parameter. DocComment holds the comment of the
// declaring method, TypeHint the class name of the native type declaration, if any.
type Parameter struct {
	Class      Class
	Function   string
	Name       string
	DocComment string
	TypeHint   string
}

func (p *Property) declaringClass() Class { return p.Class }
func (p *Property) docComment() string    { return p.DocComment }
func (p *Property) tag() string           { return "var" }
func (p *Property) declaredBy(trait Class) bool {
	return trait.HasProperty(p.Name)
}
func (p *Property) describe() string {
	return "on " + classLabel(p.Class) + "::$" + p.Name
}

func (m *Method) declaringClass() Class { return m.Class }
func (m *Method) docComment() string    { return m.DocComment }
func (m *Method) tag() string           { return "return" }
func (m *Method) declaredBy(trait Class) bool {
	return trait.HasMethod(m.Name)
}
func (m *Method) describe() string {
	return "on " + classLabel(m.Class) + "::" + m.Name + "()"
}

func (p *Parameter) declaringClass() Class { return p.Class }
func (p *Parameter) docComment() string    { return p.DocComment }
func (p *Parameter) tag() string           { return "param" }
func (p *Parameter) declaredBy(trait Class) bool {
	return trait.HasMethod(p.Function)
}
func (p *Parameter) describe() string {
	return "for parameter \"$" + p.Name + "\" of " + classLabel(p.Class) + "::" + p.Function + "()"
}

func classLabel(class Class) string {
	if class == nil {
		return "{unknown}"
	}
	return strings.TrimPrefix(class.Name(), `\`)
}
