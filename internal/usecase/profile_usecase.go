package usecase

import (
	"context"
	"errors"
	"time"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/apperror"
)

type profileUsecase struct {
	profileRepo domain.ProfileRepository
	now         func() time.Time
}

func NewProfileUsecase(profileRepo domain.ProfileRepository) domain.ProfileUsecase {
	return &profileUsecase{
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

func (u *profileUsecase) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := u.profileRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	return profiles, nil
}

// UpsertProfile creates the caller's profile or applies the supplied fields
// to the existing one.
func (u *profileUsecase) UpsertProfile(ctx context.Context, userID string, in domain.ProfileInput) (*domain.Profile, error) {
	p, err := u.profileRepo.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		p = &domain.Profile{UserID: userID, Skills: []string{}, SponsorshipRequired: "no"}
	case err != nil:
		return nil, apperror.Internal(err)
	}

	in.ApplyTo(p)
	if p.Date.IsZero() {
		p.Date = u.now()
	}
	if err := u.profileRepo.Upsert(ctx, p); err != nil {
		return nil, apperror.Internal(err)
	}
	return p, nil
}

func (u *profileUsecase) GetMyProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return u.GetByUserID(ctx, userID)
}

func (u *profileUsecase) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, apperror.Internal(err)
	}
	return p, nil
}
