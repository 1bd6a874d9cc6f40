package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/emrgen/docversion/internal/store"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrValidation is returned when required fields are missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a version does not exist or belongs to another document.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a concurrent writer changed the current version; retryable.
	ErrConflict = errors.New("concurrent modification")
)

// ValidationError lists the offending fields by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}

	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError names the missing entity.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// validationError converts ozzo validation errors. Internal rule errors are
// returned unchanged.
func validationError(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if errors.As(err, &errs) {
		fields := make(map[string]string, len(errs))
		for name, fieldErr := range errs {
			fields[name] = fieldErr.Error()
		}
		return &ValidationError{Fields: fields}
	}

	return err
}

// translate maps store errors onto the service taxonomy.
func translate(err error, op, docID string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%w: %s on document %s", ErrConflict, op, docID)
	}

	return err
}

func requireDocumentID(docID string) error {
	return validationError(validation.Errors{
		"documentId": validation.Validate(docID, validation.Required),
	}.Filter())
}
