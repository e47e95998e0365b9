package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an application error. Every rejection the scheduling
// engine produces is one of these recoverable kinds; callers branch on the
// kind, clients get the message.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindNoAvailability
	KindOutsideAvailability
	KindSlotOverlap
	KindAvailabilityConflict
	KindNoChangeRequested
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindNoAvailability:
		return "no_availability"
	case KindOutsideAvailability:
		return "outside_availability"
	case KindSlotOverlap:
		return "slot_overlap"
	case KindAvailabilityConflict:
		return "availability_conflict"
	case KindNoChangeRequested:
		return "no_change_requested"
	case KindStorage:
		return "storage_error"
	default:
		return "unknown"
	}
}

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NoAvailability(message string) *AppError {
	return &AppError{Kind: KindNoAvailability, Message: message}
}

func OutsideAvailability(message string) *AppError {
	return &AppError{Kind: KindOutsideAvailability, Message: message}
}

func SlotOverlap(message string) *AppError {
	return &AppError{Kind: KindSlotOverlap, Message: message}
}

func AvailabilityConflict(message string) *AppError {
	return &AppError{Kind: KindAvailabilityConflict, Message: message}
}

func NoChangeRequested(message string) *AppError {
	return &AppError{Kind: KindNoChangeRequested, Message: message}
}

func Storage(err error) *AppError {
	return &AppError{Kind: KindStorage, Message: "storage failure", Err: err}
}

// KindOf extracts the Kind from err, or zero when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
