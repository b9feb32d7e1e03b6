package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/apperror"
	"talent-pool-backend/pkg/auth"
	"talent-pool-backend/pkg/logger"
)

type authUsecase struct {
	userRepo      domain.UserRepository
	talentRepo    domain.TalentRepository
	recruiterRepo domain.RecruiterRepository
	tokens        domain.TokenIssuer
	allowAdmin    bool
	now           func() time.Time
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	talentRepo domain.TalentRepository,
	recruiterRepo domain.RecruiterRepository,
	tokens domain.TokenIssuer,
	allowAdminRegistration bool,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:      userRepo,
		talentRepo:    talentRepo,
		recruiterRepo: recruiterRepo,
		tokens:        tokens,
		allowAdmin:    allowAdminRegistration,
		now:           time.Now,
	}
}

// Register creates the account and the profile matching its role, then
// returns a signed token.
func (u *authUsecase) Register(ctx context.Context, in domain.RegisterInput) (*domain.Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := in.Role
	if role == "" {
		role = domain.RoleTalent
	}
	if role == domain.RoleAdmin && !u.allowAdmin {
		return nil, apperror.Forbidden("Admin registration is disabled")
	}

	existing, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Country:      strings.TrimSpace(in.Country),
		Company:      optional(in.Company),
		Position:     optional(in.Position),
		IsActive:     true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	switch role {
	case domain.RoleTalent:
		err = u.talentRepo.Create(ctx, domain.NewTalentProfile(user.ID, user.Country))
	case domain.RoleRecruiter:
		err = u.recruiterRepo.Create(ctx, domain.NewRecruiterProfile(
			user.ID, strings.TrimSpace(in.Company), strings.TrimSpace(in.Position), user.Country,
		))
	}
	if err != nil {
		logger.Log.Error("profile creation failed after registration", "user_id", user.ID, "role", role, "error", err)
		// Remove the account so the email can register again.
		if delErr := u.userRepo.Delete(ctx, user.ID); delErr != nil {
			logger.Log.Error("failed to remove account after profile error", "user_id", user.ID, "error", delErr)
		}
		return nil, err
	}

	return u.issue(user)
}

// Login checks the password before the optional role hint so the hint cannot
// reveal which emails exist.
func (u *authUsecase) Login(ctx context.Context, in domain.LoginInput) (*domain.Session, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, apperror.Internal(err)
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	if in.Role != "" && in.Role != user.Role {
		return nil, domain.ErrRoleMismatch
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	if err := u.userRepo.UpdateLastLogin(ctx, user.ID, u.now()); err != nil {
		return nil, apperror.Internal(err)
	}

	return u.issue(user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *authUsecase) issue(user *domain.User) (*domain.Session, error) {
	token, err := u.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.Session{Token: token, User: user}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
