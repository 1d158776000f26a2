package workout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

var (
	ErrSessionNotFound     = errors.New("workout session not found")
	ErrSlotNotFound        = errors.New("exercise slot not found")
	ErrSetNotFound         = errors.New("set not found")
	ErrTemplateNotFound    = errors.New("routine template not found")
	ErrActiveSessionExists = errors.New("owner already has an active workout session")
	ErrInvalidTransition   = errors.New("invalid session state transition")
	ErrPauseAlreadyActive  = errors.New("session already has an active pause")
	ErrNoActivePause       = errors.New("session has no active pause")
	ErrSetAlreadyStarted   = errors.New("set already started")
	ErrSetAlreadyCompleted = errors.New("set already completed")
	ErrAlreadyRecorded     = errors.New("set already flagged as personal record")
)

// TransitionError is returned when an action is not allowed from the current status.
// It matches ErrInvalidTransition with errors.Is.
type TransitionError struct {
	From   Status
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a session that is %s", e.Action, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError carries every field problem found on an entity.
// Nothing is persisted when one is returned.
type ValidationError struct {
	Entity string
	errs   error
}

func NewValidationError(entity string, fields ...FieldError) *ValidationError {
	var errs error
	for _, f := range fields {
		errs = multierr.Append(errs, f)
	}
	return &ValidationError{Entity: entity, errs: errs}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0)
	for _, f := range e.Fields() {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(msgs, "; "))
}

func (e *ValidationError) Fields() []FieldError {
	var fields []FieldError
	for _, err := range multierr.Errors(e.errs) {
		var f FieldError
		if errors.As(err, &f) {
			fields = append(fields, f)
		}
	}
	return fields
}

func (e *ValidationError) Unwrap() []error {
	return multierr.Errors(e.errs)
}

type validator struct {
	entity string
	errs   error
}

func (v *validator) check(ok bool, field, format string, args ...any) {
	if ok {
		return
	}
	v.errs = multierr.Append(v.errs, FieldError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) err() error {
	if v.errs == nil {
		return nil
	}
	return &ValidationError{Entity: v.entity, errs: v.errs}
}

// CompletionError is the single failure reported when completing a session fails
// part way. The transaction is rolled back, so the session is left as it was and
// completion can be retried.
type CompletionError struct {
	SessionID uuid.UUID
	Err       error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("complete session %s: %s", e.SessionID, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// completionStepError marks failures that happen inside the completion sequence,
// as opposed to the lookups and guards before it.
type completionStepError struct {
	err error
}

func (e *completionStepError) Error() string {
	return e.err.Error()
}

func (e *completionStepError) Unwrap() error {
	return e.err
}
