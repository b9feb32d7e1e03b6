package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/internal/usecase"
	"talent-pool-backend/pkg/apperror"
	"talent-pool-backend/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthUsecase(allowAdmin bool) (domain.AuthUsecase, *MockUserRepo, *MockTalentRepo, *MockRecruiterRepo) {
	users := new(MockUserRepo)
	talents := new(MockTalentRepo)
	recruiters := new(MockRecruiterRepo)
	return usecase.NewAuthUsecase(users, talents, recruiters, stubTokens{}, allowAdmin), users, talents, recruiters
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, users, talents, _ := newAuthUsecase(false)
	ctx := context.Background()

	var created *domain.User
	users.On("GetByEmail", ctx, "jane@example.com").Return(nil, domain.ErrNotFound).Once()
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.User)
		created.ID = "user-1"
	}).Return(nil).Once()
	talents.On("Create", ctx, mock.MatchedBy(func(p *domain.TalentProfile) bool {
		return p.UserID == "user-1" && p.Location.Country == "Kenya"
	})).Return(nil).Once()

	in := domain.RegisterInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     " Jane@Example.com ",
		Password:  "secret123",
		Country:   "Kenya",
	}
	session, err := uc.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "token-user-1-talent", session.Token)
	require.NotNil(t, created)
	assert.Equal(t, "jane@example.com", created.Email)
	assert.NotEqual(t, "secret123", created.PasswordHash)
	assert.True(t, auth.CheckPassword(created.PasswordHash, "secret123"))

	// second registration with the same address
	users.On("GetByEmail", ctx, "jane@example.com").Return(created, nil).Once()
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	users.AssertNumberOfCalls(t, "Create", 1)
	talents.AssertExpectations(t)
}

func TestRegisterRecruiterCreatesRecruiterProfile(t *testing.T) {
	uc, users, _, recruiters := newAuthUsecase(false)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "rec@corp.io").Return(nil, domain.ErrNotFound)
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "user-2"
	}).Return(nil)
	recruiters.On("Create", ctx, mock.MatchedBy(func(r *domain.RecruiterProfile) bool {
		return r.UserID == "user-2" && r.Company == "Corp" && r.Position == "Lead"
	})).Return(nil)

	_, err := uc.Register(ctx, domain.RegisterInput{
		FirstName: "Rec",
		LastName:  "Ruiter",
		Email:     "rec@corp.io",
		Password:  "secret123",
		Role:      domain.RoleRecruiter,
		Country:   "Ghana",
		Company:   "Corp",
		Position:  "Lead",
	})
	require.NoError(t, err)
	recruiters.AssertExpectations(t)
}

func TestRegisterAdminRefused(t *testing.T) {
	uc, users, _, _ := newAuthUsecase(false)

	_, err := uc.Register(context.Background(), domain.RegisterInput{
		Email:    "root@example.com",
		Password: "secret123",
		Role:     domain.RoleAdmin,
	})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusForbidden, appErr.Code)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterAdminAllowedCreatesNoProfile(t *testing.T) {
	uc, users, talents, recruiters := newAuthUsecase(true)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "root@example.com").Return(nil, domain.ErrNotFound)
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "admin-1"
	}).Return(nil)

	session, err := uc.Register(ctx, domain.RegisterInput{
		FirstName: "Root",
		LastName:  "User",
		Email:     "root@example.com",
		Password:  "secret123",
		Role:      domain.RoleAdmin,
		Country:   "Kenya",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-admin-1-admin", session.Token)
	talents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	recruiters.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterRemovesAccountWhenProfileFails(t *testing.T) {
	uc, users, talents, _ := newAuthUsecase(false)
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	users.On("GetByEmail", ctx, "jane@example.com").Return(nil, domain.ErrNotFound)
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "user-9"
	}).Return(nil)
	talents.On("Create", ctx, mock.AnythingOfType("*domain.TalentProfile")).Return(dbErr)
	users.On("Delete", ctx, "user-9").Return(nil).Once()

	session, err := uc.Register(ctx, domain.RegisterInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "secret123",
		Country:   "Kenya",
	})
	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, session)
	users.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	user := &domain.User{ID: "user-1", Email: "jane@example.com", PasswordHash: hash, Role: domain.RoleTalent, IsActive: true}

	tests := []struct {
		name     string
		password string
		role     string
		wantErr  error
	}{
		{"valid credentials", "secret123", "", nil},
		{"matching role hint", "secret123", domain.RoleTalent, nil},
		{"wrong password", "nope", "", domain.ErrInvalidCredentials},
		{"role mismatch", "secret123", domain.RoleRecruiter, domain.ErrRoleMismatch},
		{"wrong password hides role mismatch", "nope", domain.RoleRecruiter, domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, users, _, _ := newAuthUsecase(false)
			ctx := context.Background()
			users.On("GetByEmail", ctx, "jane@example.com").Return(user, nil)
			users.On("UpdateLastLogin", ctx, "user-1", mock.Anything).Return(nil)

			session, err := uc.Login(ctx, domain.LoginInput{Email: "jane@example.com", Password: tt.password, Role: tt.role})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				users.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "token-user-1-talent", session.Token)
			assert.Equal(t, "user-1", session.User.ID)
		})
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	uc, users, _, _ := newAuthUsecase(false)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	_, err := uc.Login(context.Background(), domain.LoginInput{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	hash, _ := auth.HashPassword("secret123")
	uc, users, _, _ := newAuthUsecase(false)
	users.On("GetByEmail", mock.Anything, "off@example.com").Return(&domain.User{
		ID: "u", PasswordHash: hash, Role: domain.RoleTalent, IsActive: false,
	}, nil)

	_, err := uc.Login(context.Background(), domain.LoginInput{Email: "off@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)
}

func TestGetCurrentUserNotFound(t *testing.T) {
	uc, users, _, _ := newAuthUsecase(false)
	users.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	_, err := uc.GetCurrentUser(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
