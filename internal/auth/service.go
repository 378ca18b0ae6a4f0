package auth

import (
	"log/slog"
	"strings"

	"github.com/smdiallo/presence-management/internal"
	userDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

// The first startup seeds one administrator identity with these
// credentials if no user exists yet.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "1234"
)

type UserRepository interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	Create(user *userDatamodel.User) error
	UpdateEmail(id int64, email string) error
	UpdatePassword(id int64, passwordHash string) error
}

type Service struct {
	repo       UserRepository
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo UserRepository, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Authenticate validates credentials and returns the matching user.
func (s *Service) Authenticate(dto LoginDTO) (*userDatamodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(strings.TrimSpace(dto.Email))
	if err != nil {
		s.logger.Error("failed to look up user", "error", err)
		return nil, internal.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(dto.Password))); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) GetByID(id int64) (*userDatamodel.User, error) {
	return s.repo.GetByID(id)
}

// UpdateEmail changes the user's own email. Rejected when blank or
// already used by a different user.
func (s *Service) UpdateEmail(userID int64, dto UpdateEmailDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	newEmail := strings.TrimSpace(dto.Email)

	current, err := s.repo.GetByID(userID)
	if err != nil {
		return internal.NewInternalError("failed to load user", err)
	}
	if current == nil {
		return internal.ErrInvalidCredentials
	}

	if newEmail != current.Email {
		existing, err := s.repo.GetByEmail(newEmail)
		if err != nil {
			return internal.NewInternalError("failed to check email", err)
		}
		if existing != nil && existing.ID != userID {
			return internal.ErrEmailTaken
		}
	}

	if err := s.repo.UpdateEmail(userID, newEmail); err != nil {
		s.logger.Error("failed to update email", "user_id", userID, "error", err)
		return internal.NewInternalError("failed to update email", err)
	}

	s.logger.Info("email updated", "user_id", userID)
	return nil
}

// UpdatePassword changes the user's own password after verifying the
// current one and the confirmation.
func (s *Service) UpdatePassword(userID int64, dto UpdatePasswordDTO) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return internal.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return internal.ErrWrongPassword
	}

	if dto.NewPassword != dto.ConfirmPassword {
		return internal.ErrPasswordMismatch
	}

	if err := dto.Validate(); err != nil {
		return err
	}

	hash, err := s.HashPassword(dto.NewPassword)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.repo.UpdatePassword(userID, hash); err != nil {
		s.logger.Error("failed to update password", "user_id", userID, "error", err)
		return internal.NewInternalError("failed to update password", err)
	}

	s.logger.Info("password updated", "user_id", userID)
	return nil
}

// EnsureAdmin is the idempotent bootstrap step: it seeds the default
// administrator identity unless one already exists.
func (s *Service) EnsureAdmin() error {
	existing, err := s.repo.GetByEmail(DefaultAdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := s.HashPassword(DefaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &userDatamodel.User{
		Email:        DefaultAdminEmail,
		PasswordHash: hash,
	}
	if err := s.repo.Create(admin); err != nil {
		return err
	}

	s.logger.Info("seeded default admin user", "email", DefaultAdminEmail)
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
