package php

import (
	"fmt"

	"github.com/shopware/phpdoc-reader/phpdoc"
)

// reflectedClass exposes an indexed class to the doc comment reader.
type reflectedClass struct {
	index *PHPIndex
	class *PHPClass
}

func (c *reflectedClass) Name() string      { return c.class.Name }
func (c *reflectedClass) Namespace() string { return c.class.Namespace }
func (c *reflectedClass) FileName() string  { return c.class.Path }
func (c *reflectedClass) StartLine() int    { return c.class.Line }

func (c *reflectedClass) Traits() []phpdoc.Class {
	traits := make([]phpdoc.Class, 0, len(c.class.Traits))
	for _, name := range c.class.Traits {
		if trait := c.index.GetClass(name); trait != nil {
			traits = append(traits, c.index.reflect(trait))
		}
	}
	return traits
}

func (c *reflectedClass) Parent() phpdoc.Class {
	parent := c.index.GetClass(c.class.Parent)
	if parent == nil {
		return nil
	}
	return c.index.reflect(parent)
}

func (c *reflectedClass) HasProperty(name string) bool {
	return c.index.GetProperty(c.class.Name, name) != nil
}

func (c *reflectedClass) HasMethod(name string) bool {
	return c.index.GetMethod(c.class.Name, name) != nil
}

func (idx *PHPIndex) reflect(class *PHPClass) *reflectedClass {
	return &reflectedClass{index: idx, class: class}
}

// ReflectClass returns the indexed class as a phpdoc.Class.
func (idx *PHPIndex) ReflectClass(className string) (phpdoc.Class, error) {
	class := idx.GetClass(className)
	if class == nil {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, className)
	}
	return idx.reflect(class), nil
}

// ReflectProperty returns the property as PHP reflection sees it: a property composed
// from a trait belongs to the using class and carries the trait's doc comment, an
// inherited property belongs to the ancestor declaring it.
func (idx *PHPIndex) ReflectProperty(className, propertyName string) (*phpdoc.Property, error) {
	if idx.GetClass(className) == nil {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, className)
	}

	found, ok := idx.findProperty(className, propertyName)
	if !ok {
		return nil, fmt.Errorf("%w: %s::$%s", ErrMemberNotFound, className, propertyName)
	}

	return &phpdoc.Property{
		Class:      idx.reflect(found.declaring),
		Name:       found.property.Name,
		DocComment: found.property.DocComment,
	}, nil
}

// ReflectMethod returns the method with the same declaring class rules as ReflectProperty.
func (idx *PHPIndex) ReflectMethod(className, methodName string) (*phpdoc.Method, error) {
	if idx.GetClass(className) == nil {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, className)
	}

	found, ok := idx.findMethod(className, methodName)
	if !ok {
		return nil, fmt.Errorf("%w: %s::%s()", ErrMemberNotFound, className, methodName)
	}

	return &phpdoc.Method{
		Class:      idx.reflect(found.declaring),
		Name:       found.method.Name,
		DocComment: found.method.DocComment,
	}, nil
}

func (idx *PHPIndex) ReflectParameter(className, methodName, parameterName string) (*phpdoc.Parameter, error) {
	if idx.GetClass(className) == nil {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, className)
	}

	found, ok := idx.findMethod(className, methodName)
	if !ok {
		return nil, fmt.Errorf("%w: %s::%s()", ErrMemberNotFound, className, methodName)
	}

	parameter, ok := found.method.parameter(parameterName)
	if !ok {
		return nil, fmt.Errorf("%w: parameter $%s of %s::%s()", ErrMemberNotFound, parameterName, className, methodName)
	}

	return &phpdoc.Parameter{
		Class:      idx.reflect(found.declaring),
		Function:   found.method.Name,
		Name:       parameter.Name,
		DocComment: found.method.DocComment,
		TypeHint:   parameter.Class,
	}, nil
}
