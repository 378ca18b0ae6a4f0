package auth

import "strings"

// LoginDTO is the transport shape used by the login form.
type LoginDTO struct {
	Email    string
	Password string
}

// UpdateEmailDTO carries the settings email-change form.
type UpdateEmailDTO struct {
	Email string
}

// UpdatePasswordDTO carries the settings password-change form.
type UpdatePasswordDTO struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return ValidationError{Msg: "email is required"}
	}
	if strings.TrimSpace(d.Password) == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

func (d UpdateEmailDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return ValidationError{Msg: "L'email ne peut pas être vide."}
	}
	return nil
}

func (d UpdatePasswordDTO) Validate() error {
	if d.NewPassword == "" {
		return ValidationError{Msg: "Le nouveau mot de passe ne peut pas être vide."}
	}
	return nil
}
