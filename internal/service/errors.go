package service

import (
	"errors"
	"fmt"

	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeStoreWriteFailed  = "STORE_WRITE_FAILED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeVersionConflict   = "VERSION_CONFLICT"
	CodeNotEligible       = "NOT_ELIGIBLE"
)

type Resource string

const (
	ResourceTask        Resource = "task"
	ResourceClient      Resource = "client"
	ResourceGem         Resource = "gem"
	ResourceTransaction Resource = "transaction"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error { return b.Err }

func ToDetail(key string, payload any) Detail {
	return Detail{Key: key, Payload: payload}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}
	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}
	return busErr
}

func NewNotFound(resource Resource, id string) *BusinessError {
	return NewBusinessError(CodeNotFound,
		fmt.Sprintf("%s %s not found", resource, id),
		ToDetail("resource", resource),
		ToDetail("id", id),
	)
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(CodeValidation,
		fmt.Sprintf("invalid value for '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

func NewStoreWriteFailed(op string, err error) *BusinessError {
	busErr := NewBusinessError(CodeStoreWriteFailed,
		fmt.Sprintf("could not persist %s", op),
		ToDetail("operation", op),
	)
	busErr.Err = err
	return busErr
}

func NewVersionConflict(resource Resource, id string) *BusinessError {
	return NewBusinessError(CodeVersionConflict,
		fmt.Sprintf("%s %s was modified concurrently", resource, id),
		ToDetail("resource", resource),
		ToDetail("id", id),
	)
}

// IsCode reports whether err is a BusinessError carrying code.
func IsCode(err error, code string) bool {
	var busErr *BusinessError
	return errors.As(err, &busErr) && busErr.Code == code
}

// writeError translates a store error returned from a write.
func writeError(op string, resource Resource, id string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewNotFound(resource, id)
	case errors.Is(err, repo.ErrVersionConflict):
		return NewVersionConflict(resource, id)
	default:
		return NewStoreWriteFailed(op, err)
	}
}

// readError translates a store error returned from a lookup.
func readError(resource Resource, id string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound(resource, id)
	}
	return fmt.Errorf("read %s %s: %w", resource, id, err)
}
