package errors

import (
	"fmt"
)

// ErrorType represents different categories of form processing errors
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValueNotFound
	ErrorTypeUnresolvedField
	ErrorTypeInvalidValue
	ErrorTypeMalformedDocument
	ErrorTypeRecordFailed
)

// Sentinel errors for use with errors.Is. They match any FormError of the
// same type regardless of field, value or record.
var (
	ErrValueNotFound     = &FormError{Type: ErrorTypeValueNotFound, Message: "value not found"}
	ErrUnresolvedField   = &FormError{Type: ErrorTypeUnresolvedField, Message: "unresolved field"}
	ErrInvalidValue      = &FormError{Type: ErrorTypeInvalidValue, Message: "invalid value"}
	ErrMalformedDocument = &FormError{Type: ErrorTypeMalformedDocument, Message: "malformed document"}
	ErrRecordFailed      = &FormError{Type: ErrorTypeRecordFailed, Message: "record failed"}
)

// FormError represents a form filling error with the field, value and
// record it relates to
type FormError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Value   string    `json:"value,omitempty"`
	Page    int       `json:"page,omitempty"`
	Record  int       `json:"record"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *FormError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field: %s)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any
func (e *FormError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a FormError of the same type
func (e *FormError) Is(target error) bool {
	t, ok := target.(*FormError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeValueNotFound:
		return "VALUE_NOT_FOUND"
	case ErrorTypeUnresolvedField:
		return "UNRESOLVED_FIELD"
	case ErrorTypeInvalidValue:
		return "INVALID_VALUE"
	case ErrorTypeMalformedDocument:
		return "MALFORMED_DOCUMENT"
	case ErrorTypeRecordFailed:
		return "RECORD_FAILED"
	default:
		return "UNKNOWN"
	}
}

// NewValueNotFound reports a choice value that has no entry in the
// field's options table
func NewValueNotFound(field, value string) *FormError {
	return &FormError{
		Type:    ErrorTypeValueNotFound,
		Message: fmt.Sprintf("export value %q not found", value),
		Field:   field,
		Value:   value,
	}
}

// NewUnresolvedField reports a widget whose unnamed parent chain does not
// end at a named field after one hop
func NewUnresolvedField(page int, message string) *FormError {
	return &FormError{
		Type:    ErrorTypeUnresolvedField,
		Message: fmt.Sprintf("%s on page %d", message, page),
		Page:    page,
	}
}

// NewInvalidValue reports an application value whose Go type does not fit
// the field type
func NewInvalidValue(field, fieldType string, value interface{}) *FormError {
	return &FormError{
		Type:    ErrorTypeInvalidValue,
		Message: fmt.Sprintf("cannot use %T value %v for %s field", value, value, fieldType),
		Field:   field,
		Value:   fmt.Sprint(value),
	}
}

// NewMalformedDocument reports a structural defect in the object graph
func NewMalformedDocument(message string, err error) *FormError {
	return &FormError{
		Type:    ErrorTypeMalformedDocument,
		Message: message,
		Err:     err,
	}
}

// NewRecordError wraps the failure of a single batch record
func NewRecordError(index int, err error) *FormError {
	return &FormError{
		Type:    ErrorTypeRecordFailed,
		Message: fmt.Sprintf("record %d failed", index),
		Record:  index,
		Err:     err,
	}
}

// WithField sets the field name on an existing FormError
func (e *FormError) WithField(field string) *FormError {
	e.Field = field
	return e
}

// WithPage sets the page number on an existing FormError
func (e *FormError) WithPage(page int) *FormError {
	e.Page = page
	return e
}
