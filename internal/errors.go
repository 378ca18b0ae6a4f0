package internal

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeEmployeeNotFound ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeMatriculeExists  ErrorCode = "MATRICULE_EXISTS"
	ErrCodeEmployeeHasRows  ErrorCode = "EMPLOYEE_HAS_PRESENCES"

	ErrCodeDuplicateEntry ErrorCode = "DUPLICATE_DAILY_ENTRY"
	ErrCodeNoOpenEntry    ErrorCode = "NO_OPEN_ENTRY"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	ErrCodeWrongPassword      ErrorCode = "WRONG_PASSWORD"
	ErrCodePasswordMismatch   ErrorCode = "PASSWORD_MISMATCH"
)

type AppError struct {
	Type       ErrorType
	Code       ErrorCode
	Message    string
	StatusCode int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// User-facing messages are kept in French, matching the rest of the UI.
var (
	ErrEmployeeNotFound     = NewNotFoundError("Matricule non trouvé.", ErrCodeEmployeeNotFound)
	ErrMatriculeExists      = NewConflictError("Ce matricule existe déjà.", ErrCodeMatriculeExists)
	ErrEmployeeHasPresences = NewConflictError("Impossible de supprimer: des présences existent pour cet employé.", ErrCodeEmployeeHasRows)

	ErrDuplicateEntry = NewConflictError("Une entrée a déjà été enregistrée pour aujourd'hui.", ErrCodeDuplicateEntry)
	ErrNoOpenEntry    = NewConflictError("Aucune entrée ouverte pour cet employé.", ErrCodeNoOpenEntry)

	ErrInvalidCredentials = NewUnauthorizedError("Email ou mot de passe incorrect", ErrCodeInvalidCredentials)
	ErrEmailTaken         = NewConflictError("Cet e-mail est déjà utilisé.", ErrCodeEmailTaken)
	ErrWrongPassword      = NewUnauthorizedError("Le mot de passe actuel est incorrect.", ErrCodeWrongPassword)
	ErrPasswordMismatch   = NewValidationError("Les nouveaux mots de passe ne correspondent pas.", ErrCodePasswordMismatch)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}
