package service

import (
	"errors"
	"log/slog"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkrishnan-neu/user-directory/internal/config"
	"github.com/mkrishnan-neu/user-directory/internal/database/models"
	"github.com/mkrishnan-neu/user-directory/internal/database/repository"
)

// UserService defines the interface for user business logic
type UserService interface {
	CreateUser(name, email, password string) error
	EditUser(email, name, password string) error
	DeleteUser(email string) error
	ListUsers() ([]models.User, error)
}

const minFieldLength = 6

// Only northeastern.edu addresses are accepted.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@northeastern\.edu$`)

type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	logger     *slog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repository.UserRepository, cfg *config.Config, logger *slog.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		bcryptCost: int(cfg.BcryptCost),
		logger:     logger,
	}
}

func (s *userService) CreateUser(name, email, password string) error {
	s.logger.Info("📝 [UserService] Creating user", "email", email)

	if len(password) < minFieldLength {
		return ErrPasswordTooShort
	}
	if len(name) < minFieldLength {
		return ErrNameTooShort
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailNotAllowed
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		s.logger.Error("❌ [UserService] Failed to hash password", "error", err)
		return err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
	}

	// Uniqueness is left to the store's constraint; concurrent creates
	// with the same email race on the unique index, not in here.
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.logger.Warn("⚠️ [UserService] Email already in use", "email", email)
		} else {
			s.logger.Error("❌ [UserService] Failed to create user", "error", err)
		}
		return err
	}

	s.logger.Info("✅ [UserService] User created", "user_id", user.ID)
	return nil
}

// EditUser updates name and/or password of the user matched by email or
// name. Email is immutable, and the immutability check runs before any
// field is touched.
func (s *userService) EditUser(email, name, password string) error {
	s.logger.Info("✏️ [UserService] Editing user", "email", email)

	user, err := s.userRepo.FindByEmailOrName(email, name)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Error("❌ [UserService] Failed to look up user", "error", err)
		}
		return err
	}

	if email != "" && email != user.Email {
		s.logger.Warn("⚠️ [UserService] Rejected email change attempt", "email", email)
		return ErrEmailImmutable
	}

	if name != "" {
		if len(name) < minFieldLength {
			return ErrNameTooShort
		}
		user.Name = name
	}

	if password != "" {
		if len(password) < minFieldLength {
			return ErrPasswordTooShort
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			s.logger.Error("❌ [UserService] Failed to hash password", "error", err)
			return err
		}
		user.Password = string(hashedPassword)
	}

	if err := s.userRepo.Update(user); err != nil {
		s.logger.Error("❌ [UserService] Failed to save user", "user_id", user.ID, "error", err)
		return err
	}

	s.logger.Info("✅ [UserService] User updated", "user_id", user.ID)
	return nil
}

func (s *userService) DeleteUser(email string) error {
	s.logger.Info("🗑️ [UserService] Deleting user", "email", email)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Error("❌ [UserService] Failed to look up user", "error", err)
		}
		return err
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		s.logger.Error("❌ [UserService] Failed to delete user", "user_id", user.ID, "error", err)
		return err
	}

	s.logger.Info("✅ [UserService] User deleted", "user_id", user.ID)
	return nil
}

func (s *userService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.ListProjected()
	if err != nil {
		s.logger.Error("❌ [UserService] Failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

// Service errors
var (
	ErrNameTooShort     = errors.New("name must be at least 6 characters long")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrEmailNotAllowed  = errors.New("email must be a northeastern.edu address")
	ErrEmailImmutable   = errors.New("email address cannot be updated")
)
