package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/objectives/internal/ledger"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/repository"
	"github.com/templui/objectives/internal/service/generation"
)

func tripInput() GoalInput {
	return GoalInput{
		Title:          "Viagem para Lisboa",
		Description:    "Duas semanas em **Lisboa**",
		Kind:           model.GoalKindTrip,
		TargetAmount:   decimal.NewFromInt(15000),
		TargetCurrency: "brl",
		TargetDate:     "2027-05-01",
	}
}

func TestCreateGoalSeedsGeneratedMilestones(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	env.provider.milestones = []generation.Milestone{
		{Title: "Tirar passaporte", OrderIndex: 0},
		{Title: "Comprar passagens", Description: "Promoções de março", OrderIndex: 1},
		{Title: "Reservar hotel", OrderIndex: 2},
	}

	created, err := env.goals.Create(context.Background(), user.ID, tripInput())
	require.NoError(t, err)

	assert.True(t, created.MilestonesGenerated)
	assert.Empty(t, created.Warning)
	assert.Equal(t, model.CurrencyBRL, created.Goal.TargetCurrency)
	assert.Equal(t, model.GoalStatusActive, created.Goal.Status)
	require.NotNil(t, created.Goal.TargetDate)
	require.Len(t, created.Milestones, 3)

	assert.Equal(t, 1, env.provider.calls)
	assert.Equal(t, "Viagem para Lisboa", env.provider.last.ObjectiveName)
	assert.Equal(t, model.CurrencyBRL, env.provider.last.Currency)

	stored, err := env.milestones.List(user.ID, created.Goal.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, m := range stored {
		assert.Equal(t, i, m.OrderIndex)
		assert.False(t, m.Completed)
	}
	assert.Equal(t, "Comprar passagens", stored[1].Title)
	assert.Equal(t, "Promoções de março", stored[1].Description)
}

func TestCreateGoalSurvivesGenerationFailure(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	env.provider.err = generation.ErrUpstreamGeneration

	created, err := env.goals.Create(context.Background(), user.ID, tripInput())
	require.NoError(t, err)

	assert.False(t, created.MilestonesGenerated)
	assert.Equal(t, MilestonesNotGeneratedWarning, created.Warning)
	assert.Empty(t, created.Milestones)

	goal, err := env.goals.ByID(user.ID, created.Goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Viagem para Lisboa", goal.Title)

	// The empty checklist still accepts manual milestones
	milestone, err := env.milestones.Append(user.ID, created.Goal.ID, "Comprar passagens", "")
	require.NoError(t, err)
	assert.Equal(t, 0, milestone.OrderIndex)
	assert.Equal(t, created.Goal.ID, milestone.GoalID)
}

func TestCreateGoalSkipGeneration(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)

	input := tripInput()
	input.SkipGeneration = true
	created, err := env.goals.Create(context.Background(), user.ID, input)
	require.NoError(t, err)

	assert.Equal(t, 0, env.provider.calls)
	assert.False(t, created.MilestonesGenerated)
	assert.Empty(t, created.Warning)
}

func TestCreateGoalValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)

	tests := []struct {
		name   string
		modify func(*GoalInput)
		want   error
	}{
		{"blank title", func(in *GoalInput) { in.Title = "  " }, ErrInvalidInput},
		{"zero target", func(in *GoalInput) { in.TargetAmount = decimal.Zero }, ErrInvalidInput},
		{"negative target", func(in *GoalInput) { in.TargetAmount = decimal.NewFromInt(-5) }, ErrInvalidInput},
		{"unsupported currency", func(in *GoalInput) { in.TargetCurrency = "JPY" }, ledger.ErrUnsupportedCurrency},
		{"unknown kind", func(in *GoalInput) { in.Kind = "yacht" }, ErrInvalidInput},
		{"unknown status", func(in *GoalInput) { in.Status = "paused" }, ErrInvalidInput},
		{"bad date", func(in *GoalInput) { in.TargetDate = "01/05/2027" }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tripInput()
			tt.modify(&input)
			_, err := env.goals.Create(context.Background(), user.ID, input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 0, env.provider.calls)
}

func TestRegenerateMilestones(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	env.provider.err = generation.ErrUpstreamGeneration

	created, err := env.goals.Create(context.Background(), user.ID, tripInput())
	require.NoError(t, err)
	goalID := created.Goal.ID

	_, err = env.goals.RegenerateMilestones(context.Background(), user.ID, goalID)
	assert.ErrorIs(t, err, generation.ErrUpstreamGeneration)

	env.provider.err = nil
	env.provider.milestones = []generation.Milestone{}
	_, err = env.goals.RegenerateMilestones(context.Background(), user.ID, goalID)
	assert.ErrorIs(t, err, generation.ErrUpstreamGeneration)

	env.provider.milestones = []generation.Milestone{{Title: "Tirar passaporte"}, {Title: "Comprar passagens"}}
	milestones, err := env.goals.RegenerateMilestones(context.Background(), user.ID, goalID)
	require.NoError(t, err)
	require.Len(t, milestones, 2)
	assert.Equal(t, 1, milestones[1].OrderIndex)

	_, err = env.goals.RegenerateMilestones(context.Background(), user.ID, goalID)
	assert.ErrorIs(t, err, ErrChecklistNotEmpty)

	other := env.createUser(t, "bia@example.com", "viagem-2027", model.RoleEditor)
	_, err = env.goals.RegenerateMilestones(context.Background(), other.ID, goalID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestUpdateGoalReplacesFields(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	goal := env.createGoal(t, user.ID, "1000", model.CurrencyUSD)

	updated, err := env.goals.Update(user.ID, goal.ID, GoalInput{
		Title:          "Notebook",
		Kind:           model.GoalKindPurchase,
		TargetAmount:   decimal.NewFromInt(800),
		TargetCurrency: "EUR",
		Status:         model.GoalStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, goal.ID, updated.ID)

	stored, err := env.goals.ByID(user.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notebook", stored.Title)
	assert.Equal(t, model.CurrencyEUR, stored.TargetCurrency)
	assert.Equal(t, model.GoalStatusCompleted, stored.Status)
	assert.Nil(t, stored.TargetDate)
	assert.True(t, stored.TargetAmount.Equal(decimal.NewFromInt(800)))

	other := env.createUser(t, "bia@example.com", "viagem-2027", model.RoleEditor)
	_, err = env.goals.Update(other.ID, goal.ID, tripInput())
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
	assert.ErrorIs(t, env.goals.Delete(other.ID, goal.ID), repository.ErrGoalNotFound)

	require.NoError(t, env.goals.Delete(user.ID, goal.ID))
	_, err = env.goals.ByID(user.ID, goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestSummaryBasicScenario(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	goal := env.createGoal(t, user.ID, "1000", model.CurrencyUSD)

	record := func(amount, direction, currency, category string) {
		_, err := env.ledger.Record(user.ID, goal.ID, EntryInput{
			Amount:    decimal.RequireFromString(amount),
			Direction: direction,
			Currency:  currency,
			Category:  category,
		})
		require.NoError(t, err)
	}
	record("500", "income", "USD", "")
	record("200", "income", "EUR", "")
	record("100", "expense", "BRL", "transporte")

	_, err := env.milestones.Append(user.ID, goal.ID, "Tirar passaporte", "")
	require.NoError(t, err)
	second, err := env.milestones.Append(user.ID, goal.ID, "Comprar passagens", "")
	require.NoError(t, err)
	_, err = env.milestones.Toggle(user.ID, goal.ID, second.ID)
	require.NoError(t, err)

	summary, err := env.goals.Summary(user.ID, goal.ID, "usd")
	require.NoError(t, err)

	assert.Equal(t, model.CurrencyUSD, summary.Totals.Currency)
	assert.Equal(t, 70, summary.Totals.ProgressPercent)
	assert.Equal(t, 2, summary.MilestonesTotal)
	assert.Equal(t, 1, summary.MilestonesCompleted)
	require.Len(t, summary.Breakdown, 1)
	assert.Equal(t, "Transporte", summary.Breakdown[0].Category)
	assert.Len(t, summary.History, 1)
	assert.NotEmpty(t, summary.Formatted.Balance)
	assert.False(t, summary.RatesUpdatedAt.IsZero())
}

func TestSummaryDisplayCurrency(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	goal := env.createGoal(t, user.ID, "100", model.CurrencyUSD)

	summary, err := env.goals.Summary(user.ID, goal.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.CurrencyBRL, summary.Totals.Currency)
	assert.True(t, summary.Totals.Target.Equal(decimal.NewFromInt(545)))
	assert.Equal(t, 0, summary.Totals.ProgressPercent)
	assert.NotNil(t, summary.History)
	assert.NotNil(t, summary.Breakdown)

	eur := "EUR"
	_, err = env.profile.Update(user.ID, ProfileUpdate{DefaultCurrency: &eur})
	require.NoError(t, err)

	summary, err = env.goals.Summary(user.ID, goal.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.CurrencyEUR, summary.Totals.Currency)

	_, err = env.goals.Summary(user.ID, goal.ID, "JPY")
	assert.ErrorIs(t, err, ledger.ErrUnsupportedCurrency)

	other := env.createUser(t, "bia@example.com", "viagem-2027", model.RoleViewer)
	_, err = env.goals.Summary(other.ID, goal.ID, "BRL")
	assert.True(t, errors.Is(err, repository.ErrGoalNotFound))
}

func TestSummaryRendersDescription(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)

	input := tripInput()
	input.SkipGeneration = true
	created, err := env.goals.Create(context.Background(), user.ID, input)
	require.NoError(t, err)

	summary, err := env.goals.Summary(user.ID, created.Goal.ID, "BRL")
	require.NoError(t, err)
	assert.Contains(t, summary.DescriptionHTML, "<strong>Lisboa</strong>")
	assert.Equal(t, "Duas semanas em **Lisboa**", summary.Goal.Description)
}
