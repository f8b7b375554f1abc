package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/repository"
	"github.com/templui/objectives/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	goalRepo    repository.GoalRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, goalRepo repository.GoalRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		goalRepo:    goalRepo,
	}
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	return s.profileRepo.ByUserID(userID)
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil fields are left as they are.
type ProfileUpdate struct {
	Name            *string `json:"name"`
	DefaultCurrency *string `json:"default_currency"`
}

func (s *ProfileService) Update(userID string, update ProfileUpdate) (*model.Profile, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		err := validation.ValidateName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		profile.Name = name
	}

	if update.DefaultCurrency != nil {
		currency := model.ParseCurrency(*update.DefaultCurrency)
		if !currency.Valid() {
			return nil, fmt.Errorf("%w: unsupported currency %q", ErrInvalidInput, *update.DefaultCurrency)
		}
		profile.DefaultCurrency = currency
	}

	err = s.profileRepo.Update(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// ActiveGoal loads the user's selected goal. It returns nil without error
// when nothing is selected.
func (s *ProfileService) ActiveGoal(userID string) (*model.Goal, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	if profile.ActiveGoalID == nil {
		return nil, nil
	}

	goal, err := s.goalRepo.ByID(userID, *profile.ActiveGoalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active goal: %w", err)
	}

	return goal, nil
}

// SetActiveGoal saves the selection. A nil goalID clears it.
func (s *ProfileService) SetActiveGoal(userID string, goalID *string) error {
	if goalID != nil {
		// Verify ownership
		_, err := s.goalRepo.ByID(userID, *goalID)
		if err != nil {
			return err
		}
	}

	return s.profileRepo.SetActiveGoal(userID, goalID)
}
