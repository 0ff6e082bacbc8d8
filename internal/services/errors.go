package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/diewo77/go-stock/validation"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Error kinds. Every error returned by this package matches exactly one
// of them under errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrOutOfStock        = errors.New("out of stock")
	ErrStorage           = errors.New("storage failure")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError lists rejected input fields with their violation codes.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+"="+e.Violations[f])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// OutOfStockError reports a request for more units than are on hand.
type OutOfStockError struct {
	ProductID uint
	Name      string
	Requested int
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: %s (#%d) requested %d, available %d",
		e.Name, e.ProductID, e.Requested, e.Available)
}

func (e *OutOfStockError) Is(target error) bool { return target == ErrOutOfStock }

// StorageError wraps a database failure. The operation it belongs to
// was not applied.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Op + ": " + e.Err.Error() }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func (e *StorageError) Unwrap() error { return e.Err }

func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

func notFound(kind string, id uint) error {
	return errors.Wrapf(ErrNotFound, "%s #%d", kind, id)
}

// storageErr maps err to a service error. gorm.ErrRecordNotFound becomes
// ErrNotFound; errors that already carry a kind pass through.
func storageErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrOutOfStock), errors.Is(err, ErrStorage),
		errors.Is(err, ErrInvalidTransition):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(ErrNotFound, op)
	}
	return &StorageError{Op: op, Err: err}
}
