package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/repository"
	"github.com/templui/objectives/internal/validation"
)

// FileCleaner removes stored objects owned by a user.
type FileCleaner interface {
	DeleteAllUserFiles(ctx context.Context, userID string) error
}

// AdminService holds privileged user management. Callers must have
// checked the admin role already.
type AdminService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	goalRepository    repository.GoalRepository
	authService       *AuthService
	emailService      Mailer
	files             FileCleaner
}

func NewAdminService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	goalRepository repository.GoalRepository,
	authService *AuthService,
	emailService Mailer,
	files FileCleaner,
) *AdminService {
	return &AdminService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		goalRepository:    goalRepository,
		authService:       authService,
		emailService:      emailService,
		files:             files,
	}
}

// NewUser is the input for CreateUser.
type NewUser struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *AdminService) CreateUser(input NewUser) (*model.UserWithProfile, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	name := strings.TrimSpace(input.Name)
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = model.RoleViewer
	}

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	err = validation.ValidateName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	err = validation.ValidatePassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	hash, err := s.authService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    time.Now(),
	}
	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile := &model.Profile{
		UserID:          user.ID,
		Name:            name,
		Role:            role,
		DefaultCurrency: model.BaseCurrency,
	}
	err = s.profileRepository.Create(profile)
	if err != nil {
		// Roll back the identity so the email can be reused
		delErr := s.userRepository.Delete(user.ID)
		if delErr != nil {
			slog.Error("failed to remove user after profile creation failed", "error", delErr, "user_id", user.ID)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(user.Email, name)
	if err != nil {
		slog.Warn("failed to send welcome email", "user_id", user.ID, "error", err)
	}

	slog.Info("user created", "user_id", user.ID, "role", role)
	return &model.UserWithProfile{User: user, Profile: profile}, nil
}

// ListUsers returns every user with its profile, ordered by email.
func (s *AdminService) ListUsers() ([]*model.UserWithProfile, error) {
	users, err := s.userRepository.Users()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	profiles, err := s.profileRepository.Profiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	byUser := make(map[string]*model.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	result := make([]*model.UserWithProfile, 0, len(users))
	for _, u := range users {
		result = append(result, &model.UserWithProfile{User: u, Profile: byUser[u.ID]})
	}

	return result, nil
}

func (s *AdminService) SetRole(userID, role string) error {
	if !model.ValidRole(role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	err := s.profileRepository.UpdateRole(userID, role)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	slog.Info("user role changed", "user_id", userID, "role", role)
	return nil
}

// UpdatePassword sets a new password for any user.
func (s *AdminService) UpdatePassword(userID, newPassword string) error {
	err := validation.ValidatePassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepository.UpdatePassword(userID, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password updated by admin", "user_id", userID)
	return nil
}

// DeleteUser removes the profile first and then the identity. When the
// profile cannot be removed the identity is left untouched.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	name := "there"
	profile, err := s.profileRepository.ByUserID(userID)
	if err == nil && profile.Name != "" {
		name = profile.Name
	}

	err = s.profileRepository.DeleteByUserID(userID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	// Orphaned objects are better than a failed deletion
	err = s.files.DeleteAllUserFiles(ctx, userID)
	if err != nil {
		slog.Warn("failed to delete user files from storage", "user_id", userID, "error", err)
	}

	// Foreign key CASCADE removes goals, entries, milestones and documents
	err = s.userRepository.Delete(userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	err = s.emailService.SendAccountDeletedEmail(user.Email, name)
	if err != nil {
		slog.Warn("failed to send account deleted email", "user_id", userID, "error", err)
	}

	slog.Info("user deleted", "user_id", userID)
	return nil
}

// DeleteGoal removes any user's goal with everything attached to it.
func (s *AdminService) DeleteGoal(goalID string) error {
	err := s.goalRepository.DeleteAny(goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	slog.Info("goal deleted by admin", "goal_id", goalID)
	return nil
}
