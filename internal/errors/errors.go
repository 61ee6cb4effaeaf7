package errors

import (
	stderrors "errors"
	"fmt"
)

// DomainError is a coded error safe to surface to clients.
type DomainError struct {
	Code     string
	Message  string
	Category Category
}

func (e *DomainError) Error() string {
	return e.Message
}

// Category groups domain errors by how they are propagated.
type Category string

const (
	CategoryNone       Category = ""
	CategoryPermission Category = "permission"
	CategoryCapture    Category = "capture"
	CategoryDecode     Category = "decode"
	CategorySession    Category = "session"
)

// Terminal reports whether errors of this category end a scan session.
func (c Category) Terminal() bool {
	return c == CategoryPermission || c == CategoryCapture || c == CategorySession
}

// As returns the first DomainError in err's chain.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CategoryOf returns the category of the first DomainError in err's chain.
func CategoryOf(err error) Category {
	if de, ok := As(err); ok {
		return de.Category
	}
	return CategoryNone
}

// CodeOf returns the code of the first DomainError in err's chain, or
// "INTERNAL" for anything else.
func CodeOf(err error) string {
	if de, ok := As(err); ok {
		return de.Code
	}
	return "INTERNAL"
}

// Wrap attaches context to a domain error while keeping it matchable.
func Wrap(de *DomainError, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", de, fmt.Sprintf(format, args...))
}
