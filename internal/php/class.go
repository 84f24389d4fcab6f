package php

import "strings"

type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

type ClassKind string

const (
	KindClass     ClassKind = "class"
	KindInterface ClassKind = "interface"
	KindTrait     ClassKind = "trait"
	KindEnum      ClassKind = "enum"
)

type PHPClass struct {
	Name       string                 `json:"name"`
	Namespace  string                 `json:"namespace"`
	Kind       ClassKind              `json:"kind"`
	Path       string                 `json:"path"`
	Line       int                    `json:"line"`
	DocComment string                 `json:"docComment,omitempty"`
	Parent     string                 `json:"parent,omitempty"`
	Interfaces []string               `json:"interfaces,omitempty"`
	Traits     []string               `json:"traits,omitempty"`
	Properties map[string]PHPProperty `json:"properties"`
	Methods    map[string]PHPMethod   `json:"methods"`
}

type PHPProperty struct {
	Name       string     `json:"name"`
	Line       int        `json:"line"`
	Visibility Visibility `json:"visibility"`
	DocComment string     `json:"docComment,omitempty"`
	Type       string     `json:"type,omitempty"`
}

type PHPMethod struct {
	Name       string         `json:"name"`
	Line       int            `json:"line"`
	Visibility Visibility     `json:"visibility"`
	DocComment string         `json:"docComment,omitempty"`
	ReturnType string         `json:"returnType,omitempty"`
	Parameters []PHPParameter `json:"parameters,omitempty"`
}

// PHPParameter is a method parameter. Class holds the resolved class of the native type
// declaration when it names exactly one class.
type PHPParameter struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Class string `json:"class,omitempty"`
}

func (c *PHPClass) key() string {
	return strings.ToLower(c.Name)
}

// method looks up a method by its case-insensitive PHP name.
func (c *PHPClass) method(name string) (PHPMethod, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	for methodName, m := range c.Methods {
		if strings.EqualFold(methodName, name) {
			return m, true
		}
	}
	return PHPMethod{}, false
}

func (m PHPMethod) parameter(name string) (PHPParameter, bool) {
	for _, p := range m.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return PHPParameter{}, false
}

// GetProperty returns the property as visible on the class: declared by the class, composed
// from one of its traits or inherited from an ancestor.
func (idx *PHPIndex) GetProperty(className string, name string) *PHPProperty {
	found, _ := idx.findProperty(className, name)
	if found == nil {
		return nil
	}
	return &found.property
}

// GetMethod returns the method as visible on the class, see GetProperty.
func (idx *PHPIndex) GetMethod(className string, name string) *PHPMethod {
	found, _ := idx.findMethod(className, name)
	if found == nil {
		return nil
	}
	return &found.method
}

// foundProperty is a property together with the class reflection reports as declaring it.
type foundProperty struct {
	declaring *PHPClass
	property  PHPProperty
}

type foundMethod struct {
	declaring *PHPClass
	method    PHPMethod
}

func (idx *PHPIndex) findProperty(className string, name string) (*foundProperty, bool) {
	seen := make(map[string]bool)
	for class := idx.GetClass(className); class != nil && !seen[class.key()]; class = idx.GetClass(class.Parent) {
		seen[class.key()] = true

		if property, ok := idx.classProperty(class, name, make(map[string]bool)); ok {
			return &foundProperty{declaring: class, property: property}, true
		}
	}
	return nil, false
}

// classProperty searches the class itself and, recursively, the traits it uses.
func (idx *PHPIndex) classProperty(class *PHPClass, name string, visited map[string]bool) (PHPProperty, bool) {
	if visited[class.key()] {
		return PHPProperty{}, false
	}
	visited[class.key()] = true

	if property, ok := class.Properties[name]; ok {
		return property, true
	}

	for _, traitName := range class.Traits {
		trait := idx.GetClass(traitName)
		if trait == nil {
			continue
		}
		if property, ok := idx.classProperty(trait, name, visited); ok {
			return property, true
		}
	}

	return PHPProperty{}, false
}

func (idx *PHPIndex) findMethod(className string, name string) (*foundMethod, bool) {
	seen := make(map[string]bool)
	for class := idx.GetClass(className); class != nil && !seen[class.key()]; class = idx.GetClass(class.Parent) {
		seen[class.key()] = true

		if method, ok := idx.classMethod(class, name, make(map[string]bool)); ok {
			return &foundMethod{declaring: class, method: method}, true
		}
	}

	// abstract declarations only live on interfaces
	class := idx.GetClass(className)
	if class == nil {
		return nil, false
	}
	for _, interfaceName := range idx.allInterfaces(class) {
		iface := idx.GetClass(interfaceName)
		if iface == nil {
			continue
		}
		if method, ok := iface.method(name); ok {
			return &foundMethod{declaring: iface, method: method}, true
		}
	}

	return nil, false
}

func (idx *PHPIndex) classMethod(class *PHPClass, name string, visited map[string]bool) (PHPMethod, bool) {
	if visited[class.key()] {
		return PHPMethod{}, false
	}
	visited[class.key()] = true

	if method, ok := class.method(name); ok {
		return method, true
	}

	for _, traitName := range class.Traits {
		trait := idx.GetClass(traitName)
		if trait == nil {
			continue
		}
		if method, ok := idx.classMethod(trait, name, visited); ok {
			return method, true
		}
	}

	return PHPMethod{}, false
}

// allInterfaces returns the interfaces implemented by the class and its ancestors,
// including interfaces extended by those interfaces.
func (idx *PHPIndex) allInterfaces(class *PHPClass) []string {
	var result []string
	seen := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		result = append(result, name)

		if iface := idx.GetClass(name); iface != nil {
			for _, parent := range iface.Interfaces {
				visit(parent)
			}
		}
	}

	ancestors := make(map[string]bool)
	for c := class; c != nil && !ancestors[c.key()]; c = idx.GetClass(c.Parent) {
		ancestors[c.key()] = true
		for _, name := range c.Interfaces {
			visit(name)
		}
	}

	return result
}
