package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/templui/objectives/internal/db/dbtest"
	"github.com/templui/objectives/internal/model"
)

type RepositoryTestSuite struct {
	suite.Suite
	db *sqlx.DB

	users      UserRepository
	profiles   ProfileRepository
	goals      GoalRepository
	entries    LedgerEntryRepository
	milestones MilestoneRepository
	rates      ExchangeRateRepository
	documents  DocumentRepository
	user       *model.User
	goal       *model.Goal
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) SetupTest() {
	s.db = dbtest.New(s.T())
	s.users = NewUserRepository(s.db)
	s.profiles = NewProfileRepository(s.db)
	s.goals = NewGoalRepository(s.db)
	s.entries = NewLedgerEntryRepository(s.db)
	s.milestones = NewMilestoneRepository(s.db)
	s.rates = NewExchangeRateRepository(s.db)
	s.documents = NewDocumentRepository(s.db)

	s.user = s.createUser("ana@example.com")
	s.goal = s.createGoal(s.user.ID, "Lisbon trip")
}

func (s *RepositoryTestSuite) createUser(email string) *model.User {
	hash := "hash"
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    time.Now(),
	}
	require.NoError(s.T(), s.users.Create(user))
	require.NoError(s.T(), s.profiles.Create(&model.Profile{UserID: user.ID, Name: "Ana", Role: model.RoleEditor}))
	return user
}

func (s *RepositoryTestSuite) createGoal(userID, title string) *model.Goal {
	now := time.Now()
	goal := &model.Goal{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          title,
		Kind:           model.GoalKindTrip,
		TargetAmount:   decimal.NewFromInt(1000),
		TargetCurrency: model.CurrencyUSD,
		Status:         model.GoalStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(s.T(), s.goals.Create(goal))
	return goal
}

func (s *RepositoryTestSuite) milestone(title string, order int) *model.Milestone {
	return &model.Milestone{
		ID:         uuid.New().String(),
		GoalID:     s.goal.ID,
		Title:      title,
		OrderIndex: order,
		CreatedAt:  time.Now(),
	}
}

func (s *RepositoryTestSuite) TestUserDuplicateEmail() {
	hash := "x"
	err := s.users.Create(&model.User{ID: uuid.New().String(), Email: s.user.Email, PasswordHash: &hash, CreatedAt: time.Now()})
	assert.ErrorIs(s.T(), err, ErrDuplicateEmail)
}

func (s *RepositoryTestSuite) TestUserUpdatePasswordAndDelete() {
	require.NoError(s.T(), s.users.UpdatePassword(s.user.ID, "new-hash"))

	user, err := s.users.ByEmail(s.user.Email)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "new-hash", *user.PasswordHash)

	assert.ErrorIs(s.T(), s.users.UpdatePassword("missing", "x"), ErrUserNotFound)

	require.NoError(s.T(), s.profiles.DeleteByUserID(s.user.ID))
	require.NoError(s.T(), s.users.Delete(s.user.ID))

	_, err = s.users.ByID(s.user.ID)
	assert.ErrorIs(s.T(), err, ErrUserNotFound)
	assert.ErrorIs(s.T(), s.users.Delete(s.user.ID), ErrUserNotFound)
}

func (s *RepositoryTestSuite) TestProfileDefaultsAndActiveGoal() {
	profile, err := s.profiles.ByUserID(s.user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), model.CurrencyBRL, profile.DefaultCurrency)
	assert.Nil(s.T(), profile.ActiveGoalID)

	require.NoError(s.T(), s.profiles.SetActiveGoal(s.user.ID, &s.goal.ID))
	profile, err = s.profiles.ByUserID(s.user.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), profile.ActiveGoalID)
	assert.Equal(s.T(), s.goal.ID, *profile.ActiveGoalID)

	// Deleting the goal clears the selection
	require.NoError(s.T(), s.goals.Delete(s.user.ID, s.goal.ID))
	profile, err = s.profiles.ByUserID(s.user.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), profile.ActiveGoalID)
}

func (s *RepositoryTestSuite) TestProfileUpdateRole() {
	require.NoError(s.T(), s.profiles.UpdateRole(s.user.ID, model.RoleAdmin))
	profile, err := s.profiles.ByUserID(s.user.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), profile.IsAdmin())

	assert.ErrorIs(s.T(), s.profiles.UpdateRole("missing", model.RoleAdmin), ErrProfileNotFound)
}

func (s *RepositoryTestSuite) TestGoalOwnership() {
	other := s.createUser("bruno@example.com")

	_, err := s.goals.ByID(other.ID, s.goal.ID)
	assert.ErrorIs(s.T(), err, ErrGoalNotFound)

	goal, err := s.goals.AnyByID(s.goal.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.goal.Title, goal.Title)
	assert.True(s.T(), goal.TargetAmount.Equal(decimal.NewFromInt(1000)))

	assert.ErrorIs(s.T(), s.goals.Delete(other.ID, s.goal.ID), ErrGoalNotFound)
}

func (s *RepositoryTestSuite) TestGoalUpdateReplacesFields() {
	date := time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC)
	s.goal.Title = "Porto trip"
	s.goal.TargetAmount = decimal.RequireFromString("2500.50")
	s.goal.TargetCurrency = model.CurrencyEUR
	s.goal.TargetDate = &date
	require.NoError(s.T(), s.goals.Update(s.goal))

	goal, err := s.goals.ByID(s.user.ID, s.goal.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Porto trip", goal.Title)
	assert.Equal(s.T(), model.CurrencyEUR, goal.TargetCurrency)
	assert.True(s.T(), goal.TargetAmount.Equal(decimal.RequireFromString("2500.5")))
	require.NotNil(s.T(), goal.TargetDate)
	assert.Equal(s.T(), 2027, goal.TargetDate.Year())
}

func (s *RepositoryTestSuite) TestGoalsSortedByTitle() {
	s.createGoal(s.user.ID, "apartment")

	goals, err := s.goals.Goals(s.user.ID, GoalSortTitle)
	require.NoError(s.T(), err)
	require.Len(s.T(), goals, 2)
	assert.Equal(s.T(), "apartment", goals[0].Title)
}

func (s *RepositoryTestSuite) TestLedgerEntriesNewestFirst() {
	for i, day := range []int{3, 10, 7} {
		entry := &model.LedgerEntry{
			ID:              uuid.New().String(),
			GoalID:          s.goal.ID,
			Amount:          decimal.NewFromInt(int64(100 * (i + 1))),
			Direction:       model.DirectionIncome,
			Currency:        model.CurrencyBRL,
			Category:        model.DefaultCategory,
			TransactionDate: time.Date(2026, time.May, day, 0, 0, 0, 0, time.UTC),
			ExchangeRate:    decimal.NewFromInt(1),
			CreatedAt:       time.Now(),
		}
		require.NoError(s.T(), s.entries.Create(entry))
	}

	entries, err := s.entries.Entries(s.goal.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), entries, 3)
	assert.Equal(s.T(), 10, entries[0].TransactionDate.Day())
	assert.Equal(s.T(), 3, entries[2].TransactionDate.Day())
	assert.True(s.T(), entries[0].Amount.Equal(decimal.NewFromInt(200)))
}

func (s *RepositoryTestSuite) TestMilestoneOrderStableAcrossMutations() {
	require.NoError(s.T(), s.milestones.CreateMany([]*model.Milestone{
		s.milestone("Book flights", 0),
		s.milestone("Renew passport", 1),
		s.milestone("Reserve hotel", 2),
	}))

	list, err := s.milestones.Milestones(s.goal.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 3)

	require.NoError(s.T(), s.milestones.SetCompleted(list[2].ID, true))
	require.NoError(s.T(), s.milestones.Delete(list[1].ID))
	require.NoError(s.T(), s.milestones.Create(s.milestone("Buy insurance", 2)))

	after, err := s.milestones.Milestones(s.goal.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), after, 3)
	assert.Equal(s.T(), "Book flights", after[0].Title)
	assert.Equal(s.T(), 0, after[0].OrderIndex)
	assert.Equal(s.T(), "Reserve hotel", after[1].Title)
	assert.True(s.T(), after[1].Completed)
	assert.Equal(s.T(), 2, after[1].OrderIndex)
	assert.Equal(s.T(), "Buy insurance", after[2].Title)

	count, err := s.milestones.Count(s.goal.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3, count)
}

func (s *RepositoryTestSuite) TestMilestoneCreateManyIsAtomic() {
	dup := s.milestone("Twice", 0)
	err := s.milestones.CreateMany([]*model.Milestone{dup, dup})
	assert.Error(s.T(), err)

	count, err := s.milestones.Count(s.goal.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, count)
}

func (s *RepositoryTestSuite) TestMilestoneNotFound() {
	_, err := s.milestones.ByID("missing")
	assert.ErrorIs(s.T(), err, ErrMilestoneNotFound)
	assert.ErrorIs(s.T(), s.milestones.SetCompleted("missing", true), ErrMilestoneNotFound)
	assert.ErrorIs(s.T(), s.milestones.Delete("missing"), ErrMilestoneNotFound)
}

func (s *RepositoryTestSuite) TestExchangeRateSeedAndUpsert() {
	seeded, err := s.rates.Latest()
	require.NoError(s.T(), err)
	assert.True(s.T(), seeded.USD.Equal(decimal.RequireFromString("5.45")))
	assert.True(s.T(), seeded.EUR.Equal(decimal.RequireFromString("6.05")))

	next := &model.ExchangeRateSnapshot{
		BRL: decimal.NewFromInt(1),
		USD: decimal.RequireFromString("5.5"),
		EUR: decimal.RequireFromString("6.1"),
	}
	require.NoError(s.T(), s.rates.Upsert(next))
	assert.Equal(s.T(), seeded.ID, next.ID, "latest row is updated in place")

	latest, err := s.rates.Latest()
	require.NoError(s.T(), err)
	assert.True(s.T(), latest.USD.Equal(decimal.RequireFromString("5.5")))

	var count int
	require.NoError(s.T(), s.db.Get(&count, `SELECT COUNT(*) FROM exchange_rate_snapshots`))
	assert.Equal(s.T(), 1, count)
}

func (s *RepositoryTestSuite) TestExchangeRateUpsertIntoEmptyTable() {
	_, err := s.db.Exec(`DELETE FROM exchange_rate_snapshots`)
	require.NoError(s.T(), err)

	_, err = s.rates.Latest()
	assert.ErrorIs(s.T(), err, ErrRateSnapshotNotFound)

	snapshot := &model.ExchangeRateSnapshot{BRL: decimal.NewFromInt(1), USD: decimal.NewFromInt(5), EUR: decimal.NewFromInt(6)}
	require.NoError(s.T(), s.rates.Upsert(snapshot))
	assert.NotEmpty(s.T(), snapshot.ID)

	latest, err := s.rates.Latest()
	require.NoError(s.T(), err)
	assert.Equal(s.T(), snapshot.ID, latest.ID)
}

func (s *RepositoryTestSuite) TestDocumentsLifecycle() {
	now := time.Now()
	doc := &model.Document{
		ID:        uuid.New().String(),
		GoalID:    s.goal.ID,
		UserID:    s.user.ID,
		Name:      "Passport",
		Category:  "Documentação",
		Kind:      model.DocumentKindChecklist,
		Status:    model.DocumentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(s.T(), s.documents.Create(doc))

	path := "documents/passport.pdf"
	doc.StoragePath = &path
	doc.Kind = model.DocumentKindPDF
	doc.Status = model.DocumentStatusDone
	require.NoError(s.T(), s.documents.Update(doc))

	got, err := s.documents.ByID(s.user.ID, doc.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), got.HasFile())
	assert.Equal(s.T(), model.DocumentStatusDone, got.Status)

	docs, err := s.documents.Documents(s.goal.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), docs, 1)

	require.NoError(s.T(), s.documents.Delete(doc.ID))
	_, err = s.documents.ByID(s.user.ID, doc.ID)
	assert.ErrorIs(s.T(), err, ErrDocumentNotFound)
}

func TestExpectRows(t *testing.T) {
	database := dbtest.New(t)
	result, err := database.Exec(`UPDATE users SET email = email WHERE id = 'none'`)
	require.NoError(t, err)
	assert.ErrorIs(t, expectRows(result, ErrUserNotFound), ErrUserNotFound)
}
