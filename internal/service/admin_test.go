package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/repository"
)

func TestAdminCreateUser(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.admin.CreateUser(NewUser{
		Email:    "  Ana@Example.com ",
		Name:     "Ana",
		Password: "viagem-2027",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", created.User.Email)
	assert.Equal(t, model.RoleViewer, created.Profile.Role)
	assert.Equal(t, model.CurrencyBRL, created.Profile.DefaultCurrency)
	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, sentEmail{kind: "welcome", email: "ana@example.com"}, env.mailer.sent[0])

	user, err := env.auth.Login("ANA@example.com", "viagem-2027")
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, user.ID)

	_, err = env.admin.CreateUser(NewUser{Email: "ana@example.com", Name: "Ana", Password: "viagem-2027"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAdminCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		input NewUser
		want  error
	}{
		{"bad email", NewUser{Email: "not-an-email", Name: "Ana", Password: "viagem-2027"}, ErrInvalidInput},
		{"display name email", NewUser{Email: "ana <ana@example.com>", Name: "Ana", Password: "viagem-2027"}, ErrInvalidInput},
		{"missing name", NewUser{Email: "ana@example.com", Password: "viagem-2027"}, ErrInvalidInput},
		{"short password", NewUser{Email: "ana@example.com", Name: "Ana", Password: "abc"}, ErrInvalidInput},
		{"common password", NewUser{Email: "ana@example.com", Name: "Ana", Password: "password"}, ErrInvalidInput},
		{"unknown role", NewUser{Email: "ana@example.com", Name: "Ana", Password: "viagem-2027", Role: "owner"}, ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.admin.CreateUser(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	users, err := env.admin.ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Empty(t, env.mailer.sent)
}

func TestAdminCreateUserIgnoresMailFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = errors.New("smtp down")

	_, err := env.admin.CreateUser(NewUser{Email: "ana@example.com", Name: "Ana", Password: "viagem-2027"})
	assert.NoError(t, err)
}

func TestAdminListUsersAndSetRole(t *testing.T) {
	env := newTestEnv(t)
	bia := env.createUser(t, "bia@example.com", "viagem-2027", model.RoleViewer)
	env.createUser(t, "Ana@example.com", "viagem-2027", model.RoleAdmin)

	users, err := env.admin.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ana@example.com", users[0].User.Email)
	assert.Equal(t, model.RoleAdmin, users[0].Profile.Role)

	require.NoError(t, env.admin.SetRole(bia.ID, model.RoleEditor))
	profile, err := env.profile.ByUserID(bia.ID)
	require.NoError(t, err)
	assert.True(t, profile.CanEdit())
	assert.False(t, profile.IsAdmin())

	assert.ErrorIs(t, env.admin.SetRole(bia.ID, "owner"), ErrInvalidRole)
}

func TestAdminUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleViewer)

	err := env.admin.UpdatePassword(user.ID, "12345")
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, env.admin.UpdatePassword(user.ID, "lisboa-maio"))

	_, err = env.auth.Login("ana@example.com", "viagem-2027")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login("ana@example.com", "lisboa-maio")
	assert.NoError(t, err)
}

func TestAdminDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	goal := env.createGoal(t, user.ID, "1000", model.CurrencyBRL)
	_, err := env.milestones.Append(user.ID, goal.ID, "Passaporte", "")
	require.NoError(t, err)

	doc, err := env.documents.Create(user.ID, goal.ID, "Passaporte", "Documentação")
	require.NoError(t, err)
	_, err = env.documents.Attach(context.Background(), user.ID, doc.ID, pdfUpload())
	require.NoError(t, err)
	require.Equal(t, 1, env.storage.count())

	require.NoError(t, env.admin.DeleteUser(context.Background(), user.ID))

	_, err = env.user.ByID(user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = env.profile.ByUserID(user.ID)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
	_, err = env.goalsRepo.AnyByID(goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
	assert.Equal(t, 0, env.storage.count())

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "account_deleted", env.mailer.sent[0].kind)

	err = env.admin.DeleteUser(context.Background(), user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

// failingProfiles fails profile deletion and passes everything else through.
type failingProfiles struct {
	repository.ProfileRepository
}

func (failingProfiles) DeleteByUserID(string) error {
	return errors.New("disk full")
}

func TestAdminDeleteUserKeepsIdentityWhenProfileDeleteFails(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	goal := env.createGoal(t, user.ID, "1000", model.CurrencyBRL)

	doc, err := env.documents.Create(user.ID, goal.ID, "Passaporte", "Documentação")
	require.NoError(t, err)
	_, err = env.documents.Attach(context.Background(), user.ID, doc.ID, pdfUpload())
	require.NoError(t, err)
	require.Equal(t, 1, env.storage.count())

	admin := NewAdminService(env.users, failingProfiles{env.profiles}, env.goalsRepo, env.auth, env.mailer, env.documents)

	err = admin.DeleteUser(context.Background(), user.ID)
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")

	found, err := env.users.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", found.Email)

	_, err = env.profile.ByUserID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, env.storage.count())
	assert.Empty(t, env.mailer.sent)

	_, err = env.auth.Login("ana@example.com", "viagem-2027")
	assert.NoError(t, err)
}

func TestAdminDeleteGoal(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com", "viagem-2027", model.RoleEditor)
	goal := env.createGoal(t, user.ID, "1000", model.CurrencyBRL)

	require.NoError(t, env.admin.DeleteGoal(goal.ID))
	_, err := env.goals.ByID(user.ID, goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	assert.ErrorIs(t, env.admin.DeleteGoal(goal.ID), repository.ErrGoalNotFound)
}
