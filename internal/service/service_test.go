package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/templui/objectives/internal/db/dbtest"
	"github.com/templui/objectives/internal/markdown"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/repository"
	"github.com/templui/objectives/internal/service/generation"
	"github.com/templui/objectives/internal/storage"
)

// fakeProvider returns canned milestones or an error and counts calls.
type fakeProvider struct {
	milestones []generation.Milestone
	err        error
	calls      int
	last       generation.Request
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Generate(_ context.Context, req generation.Request) ([]generation.Milestone, error) {
	p.calls++
	p.last = req
	if p.err != nil {
		return nil, p.err
	}
	return p.milestones, nil
}

type sentEmail struct {
	kind  string
	email string
}

type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (m *fakeMailer) record(kind, email string) error {
	m.sent = append(m.sent, sentEmail{kind: kind, email: email})
	return m.err
}

func (m *fakeMailer) SendWelcomeEmail(email, _ string) error { return m.record("welcome", email) }

func (m *fakeMailer) SendPasswordChangedEmail(email, _ string) error {
	return m.record("password_changed", email)
}

func (m *fakeMailer) SendAccountDeletedEmail(email, _ string) error {
	return m.record("account_deleted", email)
}

// memoryStorage is an in-memory storage.Storage.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	saveErr error
}

var _ storage.Storage = (*memoryStorage)(nil)

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (s *memoryStorage) Save(_ context.Context, key string, body io.Reader, _ string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memoryStorage) URL(_ context.Context, key string) (string, error) {
	return "https://files.test/" + key, nil
}

func (s *memoryStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// testEnv wires every service against a fresh database.
type testEnv struct {
	db        *sqlx.DB
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	goalsRepo repository.GoalRepository
	provider  *fakeProvider
	mailer    *fakeMailer
	storage   *memoryStorage

	auth       *AuthService
	user       *UserService
	profile    *ProfileService
	admin      *AdminService
	rates      *RateService
	ledger     *LedgerService
	milestones *MilestoneService
	goals      *GoalService
	documents  *DocumentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := dbtest.New(t)
	env := &testEnv{
		db:        database,
		users:     repository.NewUserRepository(database),
		profiles:  repository.NewProfileRepository(database),
		goalsRepo: repository.NewGoalRepository(database),
		provider:  &fakeProvider{},
		mailer:    &fakeMailer{},
		storage:   newMemoryStorage(),
	}

	entries := repository.NewLedgerEntryRepository(database)
	milestones := repository.NewMilestoneRepository(database)
	documents := repository.NewDocumentRepository(database)

	env.auth = NewAuthService(env.users, "test-secret", false, time.Hour)
	env.user = NewUserService(env.users, env.profiles, env.mailer)
	env.profile = NewProfileService(env.profiles, env.goalsRepo)
	env.rates = NewRateService(repository.NewExchangeRateRepository(database), nil, "")
	env.ledger = NewLedgerService(env.goalsRepo, entries, env.rates)
	env.milestones = NewMilestoneService(env.goalsRepo, milestones)
	env.goals = NewGoalService(env.goalsRepo, entries, milestones, env.profiles, env.rates, env.milestones, env.provider, markdown.NewParser())
	env.documents = NewDocumentService(documents, env.goalsRepo, env.storage)
	env.admin = NewAdminService(env.users, env.profiles, env.goalsRepo, env.auth, env.mailer, env.documents)

	return env
}

// createUser stores a user with the given role and password.
func (e *testEnv) createUser(t *testing.T, email, password, role string) *model.User {
	t.Helper()

	created, err := e.admin.CreateUser(NewUser{Email: email, Name: "Test User", Password: password, Role: role})
	require.NoError(t, err)
	e.mailer.sent = nil
	return created.User
}

func (e *testEnv) createGoal(t *testing.T, userID string, amount string, currency model.Currency) *model.Goal {
	t.Helper()

	created, err := e.goals.Create(context.Background(), userID, GoalInput{
		Title:          fmt.Sprintf("Goal %s", uuid.NewString()[:8]),
		TargetAmount:   decimal.RequireFromString(amount),
		TargetCurrency: string(currency),
		SkipGeneration: true,
	})
	require.NoError(t, err)
	return created.Goal
}

func pdfUpload() Upload {
	content := []byte("%PDF-1.7\nfake")
	return Upload{
		Body:     bytes.NewReader(content),
		Filename: "Ticket.PDF",
		MimeType: "application/pdf",
		Size:     int64(len(content)),
	}
}
