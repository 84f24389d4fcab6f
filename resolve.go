package main

import (
	"github.com/shopware/phpdoc-reader/phpdoc"
	"github.com/tidwall/sjson"
)

type memberReflector interface {
	ReflectProperty(className, propertyName string) (*phpdoc.Property, error)
	ReflectMethod(className, methodName string) (*phpdoc.Method, error)
	ReflectParameter(className, methodName, parameterName string) (*phpdoc.Parameter, error)
}

// resolveJSON reads the documented classes of ref and renders them as
// {"member": ..., "class": ...} or, with all set, {"member": ..., "classes": [...]}.
func resolveJSON(reflector memberReflector, reader *phpdoc.Reader, ref memberRef, all bool) (string, error) {
	var (
		class   string
		classes []string
		err     error
	)

	switch ref.Kind {
	case propertyMember:
		property, reflectErr := reflector.ReflectProperty(ref.Class, ref.Member)
		if reflectErr != nil {
			return "", reflectErr
		}
		if all {
			classes, err = reader.PropertyClasses(property)
		} else {
			class, err = reader.PropertyClass(property)
		}
	case methodMember:
		method, reflectErr := reflector.ReflectMethod(ref.Class, ref.Member)
		if reflectErr != nil {
			return "", reflectErr
		}
		if all {
			classes, err = reader.MethodReturnClasses(method)
		} else {
			class, err = reader.MethodReturnClass(method)
		}
	case parameterMember:
		parameter, reflectErr := reflector.ReflectParameter(ref.Class, ref.Member, ref.Parameter)
		if reflectErr != nil {
			return "", reflectErr
		}
		if all {
			classes, err = reader.ParameterClasses(parameter)
		} else {
			class, err = reader.ParameterClass(parameter)
		}
	}
	if err != nil {
		return "", err
	}

	out, err := sjson.Set(`{}`, "member", ref.String())
	if err != nil {
		return "", err
	}
	if all {
		if classes == nil {
			classes = []string{}
		}
		return sjson.Set(out, "classes", classes)
	}
	if class == "" {
		return sjson.Set(out, "class", nil)
	}
	return sjson.Set(out, "class", class)
}
