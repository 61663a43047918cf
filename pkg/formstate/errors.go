package formstate

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSection matches every UnknownSectionError via errors.Is.
	ErrUnknownSection = errors.New("formstate: unknown section")
	// ErrUnknownField matches every UnknownFieldError via errors.Is.
	ErrUnknownField = errors.New("formstate: unknown field")
	// ErrInvalidDeclaration is returned when a declaration cannot seed a store.
	ErrInvalidDeclaration = errors.New("formstate: invalid declaration")
)

// UnknownSectionError reports a reference to a section absent from the store.
type UnknownSectionError struct {
	Section Section
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("formstate: unknown section %q", string(e.Section))
}

// Is lets errors.Is match ErrUnknownSection.
func (e *UnknownSectionError) Is(target error) bool {
	return target == ErrUnknownSection
}

// UnknownFieldError reports a field key that was not declared in its section.
type UnknownFieldError struct {
	Section Section
	Key     FieldKey
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("formstate: unknown field %q in section %q", string(e.Key), string(e.Section))
}

// Is lets errors.Is match ErrUnknownField.
func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}
