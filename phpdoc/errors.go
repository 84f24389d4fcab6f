package phpdoc

import (
	"errors"
	"fmt"
)

var (
	ErrCannotResolve = errors.New("cannot resolve type")
	ErrInvalidClass  = errors.New("invalid class")
)

// CannotResolveError is returned when no resolution strategy matched a documented type
// and IgnorePhpDocErrors is off.
type CannotResolveError struct {
	Type   string
	Member Member
}

func (e *CannotResolveError) Error() string {
	return fmt.Sprintf(`the @%s annotation %s contains a non existent class "%s", did you maybe forget to add a "use" statement for this annotation?`,
		e.Member.tag(), e.Member.describe(), e.Type)
}

func (e *CannotResolveError) Is(target error) bool {
	return target == ErrCannotResolve
}

// InvalidClassError is returned when a documented type resolved to a name that is
// neither a class nor an interface. IgnorePhpDocErrors never suppresses it.
type InvalidClassError struct {
	Class  string
	Member Member
}

func (e *InvalidClassError) Error() string {
	return fmt.Sprintf(`the @%s annotation %s contains a non existent class or interface "%s"`,
		e.Member.tag(), e.Member.describe(), e.Class)
}

func (e *InvalidClassError) Is(target error) bool {
	return target == ErrInvalidClass
}
