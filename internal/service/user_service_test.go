package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushall/hallbook-api/internal/models"
	appErrors "github.com/campushall/hallbook-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	listUsers []models.User
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	if m.listUsers != nil {
		return m.listUsers, nil
	}
	var users []models.User
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	if user.ID == "" {
		user.ID = "u-" + user.Email
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

func newUserService(repo *mockUserRepo) *UserService {
	return NewUserService(repo, validator.New(), zap.NewNop())
}

func TestUserServiceRegisterHashesPassword(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo)

	user, err := svc.Register(context.Background(), RegisterUserRequest{
		Name: "Asha Rao", Email: "asha@iiit.ac.in", UserType: models.RoleFaculty, Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestUserServiceRegisterDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Name: "Asha", Email: "asha@iiit.ac.in", UserType: models.RoleFaculty},
	}}
	svc := newUserService(repo)

	_, err := svc.Register(context.Background(), RegisterUserRequest{
		Name: "Other", Email: "asha@iiit.ac.in", UserType: models.RoleStaff, Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserServiceRegisterUnknownRole(t *testing.T) {
	svc := newUserService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), RegisterUserRequest{
		Name: "Asha", Email: "asha@iiit.ac.in", UserType: models.UserRole("janitor"), Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceListOrdersByRolePrecedence(t *testing.T) {
	repo := &mockUserRepo{listUsers: []models.User{
		{ID: "u1", UserType: models.RoleStudent},
		{ID: "u2", UserType: models.RoleFaculty},
		{ID: "u3", UserType: models.RoleStaff},
		{ID: "u4", UserType: models.RoleAdmin},
	}}
	svc := newUserService(repo)

	users, err := svc.List(context.Background(), models.UserFilter{})
	require.NoError(t, err)
	require.Len(t, users, 4)
	assert.Equal(t, models.RoleFaculty, users[0].UserType)
	assert.Equal(t, models.RoleStaff, users[1].UserType)
	assert.Equal(t, models.RoleStudent, users[2].UserType)
	assert.Equal(t, models.RoleAdmin, users[3].UserType)
}

func TestUserServiceDeleteNotFound(t *testing.T) {
	svc := newUserService(&mockUserRepo{})

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
