package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/templui/objectives/internal/ledger"
	"github.com/templui/objectives/internal/markdown"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/repository"
	"github.com/templui/objectives/internal/service/generation"
)

const (
	generationTimeout = 60 * time.Second

	// MilestonesNotGeneratedWarning is returned with a goal whose checklist
	// could not be generated.
	MilestonesNotGeneratedWarning = "goal created, milestones not generated, retry available"
)

type GoalService struct {
	repo             repository.GoalRepository
	entryRepo        repository.LedgerEntryRepository
	milestoneRepo    repository.MilestoneRepository
	profileRepo      repository.ProfileRepository
	rateService      *RateService
	milestoneService *MilestoneService
	generator        generation.Provider
	markdown         *markdown.Parser
}

func NewGoalService(
	repo repository.GoalRepository,
	entryRepo repository.LedgerEntryRepository,
	milestoneRepo repository.MilestoneRepository,
	profileRepo repository.ProfileRepository,
	rateService *RateService,
	milestoneService *MilestoneService,
	generator generation.Provider,
	markdown *markdown.Parser,
) *GoalService {
	return &GoalService{
		repo:             repo,
		entryRepo:        entryRepo,
		milestoneRepo:    milestoneRepo,
		profileRepo:      profileRepo,
		rateService:      rateService,
		milestoneService: milestoneService,
		generator:        generator,
		markdown:         markdown,
	}
}

// GoalInput is a goal as submitted by a client. Updates replace every field.
type GoalInput struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Kind           string          `json:"kind"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	TargetCurrency string          `json:"target_currency"`
	TargetDate     string          `json:"target_date"` // YYYY-MM-DD, optional
	Status         string          `json:"status"`
	SkipGeneration bool            `json:"skip_generation"`
}

// GoalCreated is the result of Create. A goal is always returned; the
// checklist may be missing when generation failed.
type GoalCreated struct {
	Goal                *model.Goal        `json:"goal"`
	Milestones          []*model.Milestone `json:"milestones"`
	MilestonesGenerated bool               `json:"milestones_generated"`
	Warning             string             `json:"warning,omitempty"`
}

func (s *GoalService) Create(ctx context.Context, userID string, input GoalInput) (*GoalCreated, error) {
	goal, err := s.buildGoal(input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	goal.ID = uuid.New().String()
	goal.UserID = userID
	goal.CreatedAt = now
	goal.UpdatedAt = now

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	result := &GoalCreated{Goal: goal, Milestones: []*model.Milestone{}}
	if input.SkipGeneration {
		return result, nil
	}

	milestones := s.seedGenerated(ctx, goal)
	if len(milestones) == 0 {
		result.Warning = MilestonesNotGeneratedWarning
		return result, nil
	}

	result.Milestones = milestones
	result.MilestonesGenerated = true
	return result, nil
}

// GenerateMilestones asks the provider for a checklist. Every failure is
// logged and yields an empty slice, so callers never fail because of it.
func (s *GoalService) GenerateMilestones(ctx context.Context, goal *model.Goal) []generation.Milestone {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	milestones, err := s.generator.Generate(ctx, generation.Request{
		ObjectiveName: goal.Title,
		Description:   goal.Description,
		TargetAmount:  goal.TargetAmount,
		Currency:      goal.TargetCurrency,
	})
	if err != nil {
		slog.Warn("milestone generation failed", "error", err, "goal_id", goal.ID, "provider", s.generator.Name())
		return []generation.Milestone{}
	}

	return milestones
}

// seedGenerated generates and stores a checklist for a goal with none.
// It returns nil when nothing was stored.
func (s *GoalService) seedGenerated(ctx context.Context, goal *model.Goal) []*model.Milestone {
	generated := s.GenerateMilestones(ctx, goal)
	if len(generated) == 0 {
		return nil
	}

	items := make([]SeedItem, len(generated))
	for i, m := range generated {
		items[i] = SeedItem{Title: m.Title, Description: m.Description}
	}

	milestones, err := s.milestoneService.seed(goal.ID, items)
	if err != nil {
		slog.Error("failed to store generated milestones", "error", err, "goal_id", goal.ID)
		return nil
	}

	return milestones
}

// RegenerateMilestones retries generation for a goal whose checklist is
// still empty. Unlike Create, failures are returned.
func (s *GoalService) RegenerateMilestones(ctx context.Context, userID, goalID string) ([]*model.Milestone, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	count, err := s.milestoneRepo.Count(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to count milestones: %w", err)
	}
	if count > 0 {
		return nil, ErrChecklistNotEmpty
	}

	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	generated, err := s.generator.Generate(ctx, generation.Request{
		ObjectiveName: goal.Title,
		Description:   goal.Description,
		TargetAmount:  goal.TargetAmount,
		Currency:      goal.TargetCurrency,
	})
	if err != nil {
		return nil, err
	}
	if len(generated) == 0 {
		return nil, fmt.Errorf("%w: no milestones returned", generation.ErrUpstreamGeneration)
	}

	items := make([]SeedItem, len(generated))
	for i, m := range generated {
		items[i] = SeedItem{Title: m.Title, Description: m.Description}
	}

	return s.milestoneService.seed(goal.ID, items)
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(userID, goalID)
}

func (s *GoalService) Goals(userID, sortBy string) ([]*model.Goal, error) {
	return s.repo.Goals(userID, sortBy)
}

// Update replaces the goal's fields. Concurrent updates are last write wins.
func (s *GoalService) Update(userID, goalID string, input GoalInput) (*model.Goal, error) {
	existing, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal, err := s.buildGoal(input)
	if err != nil {
		return nil, err
	}

	goal.ID = existing.ID
	goal.UserID = existing.UserID
	goal.CreatedAt = existing.CreatedAt

	err = s.repo.Update(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Delete(userID, goalID string) error {
	err := s.repo.Delete(userID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	return nil
}

func (s *GoalService) buildGoal(input GoalInput) (*model.Goal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > 200 {
		return nil, fmt.Errorf("%w: title is too long (max 200 characters)", ErrInvalidInput)
	}

	if !input.TargetAmount.IsPositive() {
		return nil, fmt.Errorf("%w: target amount must be greater than zero", ErrInvalidInput)
	}

	currency := model.ParseCurrency(input.TargetCurrency)
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: %q", ledger.ErrUnsupportedCurrency, input.TargetCurrency)
	}

	kind := strings.TrimSpace(input.Kind)
	if kind == "" {
		kind = model.GoalKindOther
	}
	if !model.ValidGoalKind(kind) {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = model.GoalStatusActive
	}
	if !model.ValidGoalStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	var targetDate *time.Time
	if strings.TrimSpace(input.TargetDate) != "" {
		date, err := parseDate(input.TargetDate)
		if err != nil {
			return nil, err
		}
		targetDate = &date
	}

	return &model.Goal{
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Kind:           kind,
		TargetAmount:   input.TargetAmount,
		TargetCurrency: currency,
		TargetDate:     targetDate,
		Status:         status,
	}, nil
}
