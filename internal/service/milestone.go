package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/repository"
)

// MilestoneService manages a goal's ordered checklist. Order indexes are
// assigned once at creation and never renumbered.
type MilestoneService struct {
	goalRepository      repository.GoalRepository
	milestoneRepository repository.MilestoneRepository
}

func NewMilestoneService(goalRepository repository.GoalRepository, milestoneRepository repository.MilestoneRepository) *MilestoneService {
	return &MilestoneService{
		goalRepository:      goalRepository,
		milestoneRepository: milestoneRepository,
	}
}

// SeedItem is one milestone of a bulk seed.
type SeedItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Append adds a milestone at the end of the checklist. Its order index is
// the number of milestones the goal had before the call.
func (s *MilestoneService) Append(userID, goalID, title, description string) (*model.Milestone, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyDescription
	}

	// Verify ownership
	_, err := s.goalRepository.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	count, err := s.milestoneRepository.Count(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to count milestones: %w", err)
	}

	milestone := &model.Milestone{
		ID:          uuid.New().String(),
		GoalID:      goalID,
		Title:       title,
		Description: strings.TrimSpace(description),
		OrderIndex:  count,
		CreatedAt:   time.Now(),
	}

	err = s.milestoneRepository.Create(milestone)
	if err != nil {
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}

	return milestone, nil
}

// BulkSeed populates an empty checklist with items in input order, indexed
// 0..n-1. Seeding a checklist that already has milestones fails with
// ErrChecklistNotEmpty. Either every item is stored or none.
func (s *MilestoneService) BulkSeed(userID, goalID string, items []SeedItem) ([]*model.Milestone, error) {
	// Verify ownership
	_, err := s.goalRepository.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	return s.seed(goalID, items)
}

func (s *MilestoneService) seed(goalID string, items []SeedItem) ([]*model.Milestone, error) {
	if len(items) == 0 {
		return []*model.Milestone{}, nil
	}

	count, err := s.milestoneRepository.Count(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to count milestones: %w", err)
	}
	if count > 0 {
		return nil, ErrChecklistNotEmpty
	}

	now := time.Now()
	milestones := make([]*model.Milestone, 0, len(items))
	for i, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			return nil, fmt.Errorf("item %d: %w", i, ErrEmptyDescription)
		}
		milestones = append(milestones, &model.Milestone{
			ID:          uuid.New().String(),
			GoalID:      goalID,
			Title:       title,
			Description: strings.TrimSpace(item.Description),
			OrderIndex:  i,
			CreatedAt:   now,
		})
	}

	err = s.milestoneRepository.CreateMany(milestones)
	if err != nil {
		return nil, fmt.Errorf("failed to seed milestones: %w", err)
	}

	return milestones, nil
}

// Toggle flips the completion flag. Ordering is unaffected.
func (s *MilestoneService) Toggle(userID, goalID, milestoneID string) (*model.Milestone, error) {
	milestone, err := s.owned(userID, goalID, milestoneID)
	if err != nil {
		return nil, err
	}

	milestone.Completed = !milestone.Completed
	err = s.milestoneRepository.SetCompleted(milestone.ID, milestone.Completed)
	if err != nil {
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}

	return milestone, nil
}

// Remove deletes a milestone. Remaining indexes keep their values.
func (s *MilestoneService) Remove(userID, goalID, milestoneID string) error {
	milestone, err := s.owned(userID, goalID, milestoneID)
	if err != nil {
		return err
	}

	err = s.milestoneRepository.Delete(milestone.ID)
	if err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}

	return nil
}

func (s *MilestoneService) List(userID, goalID string) ([]*model.Milestone, error) {
	// Verify ownership
	_, err := s.goalRepository.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	milestones, err := s.milestoneRepository.Milestones(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get milestones: %w", err)
	}

	return milestones, nil
}

// owned loads a milestone of goalID and checks that the goal belongs to
// userID. A foreign milestone is reported as not found.
func (s *MilestoneService) owned(userID, goalID, milestoneID string) (*model.Milestone, error) {
	milestone, err := s.milestoneRepository.ByID(milestoneID)
	if err != nil {
		return nil, err
	}
	if milestone.GoalID != goalID {
		return nil, repository.ErrMilestoneNotFound
	}

	_, err = s.goalRepository.ByID(userID, milestone.GoalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, repository.ErrMilestoneNotFound
	}
	if err != nil {
		return nil, err
	}

	return milestone, nil
}
