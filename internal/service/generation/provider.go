// Package generation asks an external model to break an objective into an
// ordered checklist of milestones.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/templui/objectives/internal/model"
)

var (
	ErrMissingCredential  = errors.New("milestone generation is not configured")
	ErrUpstreamGeneration = errors.New("milestone generation failed")
)

// Request describes the objective to decompose.
type Request struct {
	ObjectiveName string          `json:"objectiveName"`
	Description   string          `json:"description"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	Currency      model.Currency  `json:"currency"`
}

// Milestone is one generated checklist item.
type Milestone struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
}

// Provider defines the interface that all generation backends implement
type Provider interface {
	// Generate returns milestones ordered by OrderIndex. Every failure
	// wraps ErrUpstreamGeneration or is ErrMissingCredential.
	Generate(ctx context.Context, req Request) ([]Milestone, error)

	// Name returns the provider name (e.g., "gemini")
	Name() string
}

// Prompt renders the fixed instruction sent to the model.
func Prompt(req Request) string {
	return fmt.Sprintf("Decompose the objective '%s' (%s) with a budget of %s %s into 12 to 18 milestones.",
		req.ObjectiveName, req.Description, req.TargetAmount.String(), req.Currency)
}

// decodeMilestones parses the model's JSON array and orders it by
// order_index, keeping the model's order for ties.
func decodeMilestones(raw string) ([]Milestone, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUpstreamGeneration)
	}

	var milestones []Milestone
	err := json.Unmarshal([]byte(raw), &milestones)
	if err != nil {
		return nil, fmt.Errorf("%w: response does not match schema: %v", ErrUpstreamGeneration, err)
	}

	for i := range milestones {
		milestones[i].Title = strings.TrimSpace(milestones[i].Title)
		milestones[i].Description = strings.TrimSpace(milestones[i].Description)
		if milestones[i].Title == "" {
			return nil, fmt.Errorf("%w: milestone %d has no title", ErrUpstreamGeneration, i)
		}
	}

	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].OrderIndex < milestones[j].OrderIndex
	})

	return milestones, nil
}
