package users_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/UnknownOlympus/hestia/internal/services/users"
	mocks "github.com/UnknownOlympus/hestia/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var departments = []string{"Recepcion", "Sistemas"}

func newService(t *testing.T) (*users.Service, *mocks.UserRepoIface, *auth.TokenManager) {
	t.Helper()

	tokens, err := auth.NewTokenManager("secret", time.Hour)
	require.NoError(t, err)
	repo := mocks.NewUserRepoIface(t)

	return users.NewService(slog.New(slog.DiscardHandler), repo, tokens, departments), repo, tokens
}

func storedUser(t *testing.T, password string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	return models.User{ID: 1, Username: "recepcion", PasswordHash: hash, Role: models.RoleStaff, Department: "Recepcion"}
}

func TestLogin(t *testing.T) {
	svc, repo, tokens := newService(t)
	user := storedUser(t, "pass123")

	repo.On("GetUserByUsername", mock.Anything, "recepcion").Return(user, nil).Once()

	token, got, err := svc.Login(t.Context(), " recepcion ", "pass123")

	require.NoError(t, err)
	assert.Equal(t, user, got)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "Recepcion", claims.Department)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.On("GetUserByUsername", mock.Anything, "recepcion").Return(storedUser(t, "pass123"), nil).Once()

	token, _, err := svc.Login(t.Context(), "recepcion", "wrong")

	require.ErrorIs(t, err, users.ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.On("GetUserByUsername", mock.Anything, "ghost").
		Return(models.User{}, repository.ErrNotFound).Once()

	token, _, err := svc.Login(t.Context(), "ghost", "pass123")

	require.ErrorIs(t, err, users.ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestLogin_StoreError(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.On("GetUserByUsername", mock.Anything, "recepcion").Return(models.User{}, assert.AnError).Once()

	_, _, err := svc.Login(t.Context(), "recepcion", "pass123")

	require.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestCreateUser(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		ok, err := auth.CheckPassword("pw", u.PasswordHash)
		return err == nil && ok && u.Username == "ama1" && u.Role == models.RoleStaff &&
			u.Department == "Recepcion" && u.Phone == "+34600000001"
	})).Return(models.User{ID: 7, Username: "ama1", Role: models.RoleStaff, Department: "Recepcion"}, nil).Once()

	created, err := svc.CreateUser(t.Context(), users.NewUser{
		Username: "ama1", Password: "pw", Department: "Recepcion", Phone: " +34600000001 ",
	})

	require.NoError(t, err)
	assert.Equal(t, 7, created.ID)
}

func TestCreateUser_Duplicate(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.On("CreateUser", mock.Anything, mock.Anything).
		Return(models.User{}, repository.ErrAlreadyExists).Once()

	_, err := svc.CreateUser(t.Context(), users.NewUser{
		Username: "ama1", Password: "pw", Role: "staff", Department: "Recepcion",
	})

	require.ErrorIs(t, err, users.ErrUserExists)
}

func TestCreateUser_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   users.NewUser
	}{
		{name: "no username", in: users.NewUser{Password: "pw", Department: "Recepcion"}},
		{name: "no password", in: users.NewUser{Username: "a", Department: "Recepcion"}},
		{name: "unknown role", in: users.NewUser{Username: "a", Password: "pw", Role: "root", Department: "Recepcion"}},
		{name: "unknown department", in: users.NewUser{Username: "a", Password: "pw", Department: "Spa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)

			_, err := svc.CreateUser(t.Context(), tt.in)

			require.ErrorIs(t, err, users.ErrInvalidUser)
			repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		})
	}
}

func TestChangePassword(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.On("UpdatePassword", mock.Anything, "ama1", mock.MatchedBy(func(hash string) bool {
		ok, err := auth.CheckPassword("new-pass", hash)
		return err == nil && ok
	})).Return(nil).Once()
	repo.On("UpdatePassword", mock.Anything, "ghost", mock.Anything).Return(repository.ErrNotFound).Once()

	require.NoError(t, svc.ChangePassword(t.Context(), "ama1", "new-pass"))
	require.ErrorIs(t, svc.ChangePassword(t.Context(), "ghost", "new-pass"), users.ErrUserNotFound)
	require.ErrorIs(t, svc.ChangePassword(t.Context(), "", "new-pass"), users.ErrInvalidUser)
	require.ErrorIs(t, svc.ChangePassword(t.Context(), "ama1", ""), users.ErrInvalidUser)
}

func TestEnsureAdmin(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.On("EnsureUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "sistemas" && u.Role == models.RoleSistemas && u.Department == "Sistemas" &&
			u.PasswordHash != "Sistemas"
	})).Return(true, nil).Once()

	require.NoError(t, svc.EnsureAdmin(t.Context(), "sistemas", "Sistemas", "Sistemas"))
}

func TestEnsureAdmin_SkippedWithoutPassword(t *testing.T) {
	svc, repo, _ := newService(t)

	require.NoError(t, svc.EnsureAdmin(t.Context(), "sistemas", "", "Sistemas"))
	repo.AssertNotCalled(t, "EnsureUser", mock.Anything, mock.Anything)
}

func TestEnsureAdmin_StoreError(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.On("EnsureUser", mock.Anything, mock.Anything).Return(false, assert.AnError).Once()

	require.ErrorIs(t, svc.EnsureAdmin(t.Context(), "sistemas", "Sistemas", "Sistemas"), assert.AnError)
}
