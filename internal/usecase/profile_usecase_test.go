package usecase_test

import (
	"context"
	"testing"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileUpsert(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepo)
	uc := usecase.NewProfileUsecase(repo)

	existing := &domain.Profile{
		UserID:              "u1",
		Title:               "Engineer",
		Skills:              []string{"go"},
		SponsorshipRequired: "no",
		Social:              domain.ProfileLinks{LinkedIn: "https://linkedin.com/in/old"},
	}
	repo.On("GetByUserID", ctx, "u1").Return(existing, nil)
	repo.On("Upsert", ctx, existing).Return(nil)

	p, err := uc.UpsertProfile(ctx, "u1", domain.ProfileInput{
		Bio:    "Hello",
		Social: domain.ProfileLinks{GitHub: "https://github.com/u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", p.Title)
	assert.Equal(t, "Hello", p.Bio)
	assert.Empty(t, p.Social.LinkedIn)
	assert.Equal(t, "https://github.com/u1", p.Social.GitHub)
	assert.False(t, p.Date.IsZero())
}

func TestProfileUpsertCreates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepo)
	uc := usecase.NewProfileUsecase(repo)

	repo.On("GetByUserID", ctx, "u2").Return(nil, domain.ErrNotFound)
	repo.On("Upsert", ctx, mock.MatchedBy(func(p *domain.Profile) bool {
		return p.UserID == "u2" && p.Title == "Designer" && p.SponsorshipRequired == "no"
	})).Return(nil)

	_, err := uc.UpsertProfile(ctx, "u2", domain.ProfileInput{Title: "Designer"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProfileGetByUserIDNotFound(t *testing.T) {
	repo := new(MockProfileRepo)
	uc := usecase.NewProfileUsecase(repo)
	repo.On("GetByUserID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	_, err := uc.GetMyProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileListNeverNil(t *testing.T) {
	repo := new(MockProfileRepo)
	uc := usecase.NewProfileUsecase(repo)
	repo.On("List", mock.Anything).Return(nil, nil)

	profiles, err := uc.ListProfiles(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}
