package usermgmt

import (
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeValidation   = "VALIDATION_FAILED"
	textCodeRejected     = "REQUEST_REJECTED"
	textCodeUnauthorized = "UNAUTHORIZED"
	textCodeTransport    = "TRANSPORT_FAILURE"
)

// WrapValidationError converts a pre-dispatch validation failure into a rich
// error carrying the per-field messages. No network round trip happened.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}

	richErr := goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(textCodeValidation)

	if fields, ok := err.(validation.Errors); ok {
		meta := map[string]any{}
		for field, fieldErr := range fields {
			meta[field] = fieldErr.Error()
		}
		richErr = richErr.WithMetadata(meta)
	}

	return richErr
}

// NewRejectedError represents a server-side rejection (4xx other than 401).
// It carries the server's message verbatim and never mutates the session.
func NewRejectedError(status int, message string) error {
	switch status {
	case 403:
		return goerrors.New(message, goerrors.CategoryAuthz).
			WithCode(goerrors.CodeForbidden).
			WithTextCode(textCodeRejected)
	case 404:
		return goerrors.New(message, goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound).
			WithTextCode(textCodeRejected)
	default:
		return goerrors.New(message, goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(textCodeRejected).
			WithMetadata(map[string]any{"status": status})
	}
}

// NewUnauthorizedError represents an authorization failure (401). Only the
// gateway acts on it; callers must not run their own redirect logic.
func NewUnauthorizedError(message string) error {
	if message == "" {
		message = "authorization failed"
	}
	return goerrors.New(message, goerrors.CategoryAuth).
		WithCode(goerrors.CodeUnauthorized).
		WithTextCode(textCodeUnauthorized)
}

// WrapTransportError reports a network level failure. A dropped connection is
// not evidence the session is invalid, so these never touch the store.
func WrapTransportError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, "request transport failure").
		WithTextCode(textCodeTransport)
}

// IsValidation reports whether err is a client detected validation failure.
func IsValidation(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryValidation
}

// IsUnauthorized reports whether err is an authorization failure (401).
func IsUnauthorized(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryAuth
}

// IsRequestRejected reports whether err is a server-side rejection other
// than unauthorized: validation rejections, conflicts, not-found, and
// forbidden-due-to-role all land here.
func IsRequestRejected(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	switch richErr.Category {
	case goerrors.CategoryAuthz, goerrors.CategoryBadInput,
		goerrors.CategoryConflict, goerrors.CategoryNotFound:
		return true
	default:
		return false
	}
}

// IsForbidden reports whether err is a role denial (403). Forbidden is a
// rejection, not an authentication event: it must never end the session.
func IsForbidden(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryAuthz
}

// IsTransportFailure reports whether err is a network level failure, one
// where no server verdict was received at all.
func IsTransportFailure(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryOperation
}

// ValidationFieldErrors returns the per-field messages attached to a
// validation error, or nil when err carries none.
func ValidationFieldErrors(err error) map[string]any {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return nil
	}
	return richErr.Metadata
}
