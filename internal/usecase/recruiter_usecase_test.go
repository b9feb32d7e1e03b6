package usecase_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type recruiterFixture struct {
	uc         domain.RecruiterUsecase
	recruiters *MockRecruiterRepo
	talents    *MockTalentRepo
	store      *MockFileStore
	events     *MockPublisher
}

func newRecruiterFixture() *recruiterFixture {
	f := &recruiterFixture{
		recruiters: new(MockRecruiterRepo),
		talents:    new(MockTalentRepo),
		store:      new(MockFileStore),
		events:     new(MockPublisher),
	}
	f.uc = usecase.NewRecruiterUsecase(f.recruiters, f.talents, f.store, f.events, nil, 2000000)
	return f
}

func TestShortlistTalentTwice(t *testing.T) {
	ctx := context.Background()
	f := newRecruiterFixture()
	profile := domain.NewRecruiterProfile("r1", "Corp", "Lead", "Ghana")
	f.recruiters.On("GetByUserID", ctx, "r1").Return(profile, nil)
	f.recruiters.On("Update", ctx, profile).Return(nil)
	f.talents.On("Exists", ctx, "t1").Return(true, nil)
	f.events.On("Publish", ctx, domain.EventTalentShortlisted, mock.Anything).Return(nil)

	list, err := f.uc.ShortlistTalent(ctx, "r1", domain.ShortlistInput{TalentID: "t1", Notes: " strong Go "})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t1", list[0].TalentID)
	assert.Equal(t, "strong Go", list[0].Notes)

	_, err = f.uc.ShortlistTalent(ctx, "r1", domain.ShortlistInput{TalentID: "t1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyShortlisted)
	assert.Len(t, profile.Shortlist, 1)
	f.events.AssertNumberOfCalls(t, "Publish", 1)
}

func TestShortlistTalentNotFound(t *testing.T) {
	ctx := context.Background()

	t.Run("recruiter missing", func(t *testing.T) {
		f := newRecruiterFixture()
		f.recruiters.On("GetByUserID", ctx, "r1").Return(nil, domain.ErrNotFound)

		_, err := f.uc.ShortlistTalent(ctx, "r1", domain.ShortlistInput{TalentID: "t1"})
		assert.ErrorIs(t, err, domain.ErrRecruiterNotFound)
	})

	t.Run("talent missing", func(t *testing.T) {
		f := newRecruiterFixture()
		f.recruiters.On("GetByUserID", ctx, "r1").Return(domain.NewRecruiterProfile("r1", "Corp", "Lead", "Ghana"), nil)
		f.talents.On("Exists", ctx, "ghost").Return(false, nil)

		_, err := f.uc.ShortlistTalent(ctx, "r1", domain.ShortlistInput{TalentID: "ghost"})
		assert.ErrorIs(t, err, domain.ErrTalentNotFound)
	})
}

func TestRemoveFromShortlist(t *testing.T) {
	ctx := context.Background()
	f := newRecruiterFixture()
	profile := domain.NewRecruiterProfile("r1", "Corp", "Lead", "Ghana")
	entry := profile.AddToShortlist("t1", "", time.Now())
	f.recruiters.On("GetByUserID", ctx, "r1").Return(profile, nil)
	f.recruiters.On("Update", ctx, profile).Return(nil)

	list, err := f.uc.RemoveFromShortlist(ctx, "r1", entry.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.uc.RemoveFromShortlist(ctx, "r1", entry.ID)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestSearchTalentRecordsRecentSearches(t *testing.T) {
	ctx := context.Background()
	f := newRecruiterFixture()
	profile := domain.NewRecruiterProfile("r1", "Corp", "Lead", "Ghana")
	f.recruiters.On("GetByUserID", ctx, "r1").Return(profile, nil)
	f.recruiters.On("Update", ctx, profile).Return(nil)
	f.talents.On("Search", ctx, mock.Anything).Return([]domain.TalentProfile{}, int64(0), nil)

	caller := domain.Identity{UserID: "r1", Role: domain.RoleRecruiter}
	for i := 0; i < 15; i++ {
		_, err := f.uc.SearchTalent(ctx, caller, domain.TalentSearchFilter{}, map[string]string{"keyword": fmt.Sprint(i)})
		require.NoError(t, err)
	}

	require.Len(t, profile.RecentSearches, domain.MaxRecentSearches)
	assert.Equal(t, "14", profile.RecentSearches[0].Query["keyword"])
	assert.Equal(t, "5", profile.RecentSearches[9].Query["keyword"])
}

func TestSearchTalentWithoutRecruiterProfile(t *testing.T) {
	ctx := context.Background()
	f := newRecruiterFixture()
	f.recruiters.On("GetByUserID", ctx, "admin").Return(nil, domain.ErrNotFound)
	f.talents.On("Search", ctx, mock.Anything).Return([]domain.TalentProfile{{ID: "t1"}}, int64(1), nil)

	res, err := f.uc.SearchTalent(ctx, domain.Identity{UserID: "admin", Role: domain.RoleAdmin}, domain.TalentSearchFilter{}, nil)
	require.NoError(t, err)
	assert.Len(t, res.Talents, 1)
	f.recruiters.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSearchTalentPagination(t *testing.T) {
	ctx := context.Background()
	f := newRecruiterFixture()
	f.recruiters.On("GetByUserID", ctx, mock.Anything).Return(nil, domain.ErrNotFound)

	years := 3
	f.talents.On("Search", ctx, mock.MatchedBy(func(filter domain.TalentSearchFilter) bool {
		return filter.Page == 2 && filter.Limit == domain.MaxSearchLimit &&
			assert.ObjectsAreEqual([]string{"python", "go"}, filter.Skills) &&
			filter.YearsOfExperience != nil && *filter.YearsOfExperience == 3
	})).Return([]domain.TalentProfile{}, int64(250), nil)

	res, err := f.uc.SearchTalent(ctx, domain.Identity{UserID: "r1"}, domain.TalentSearchFilter{
		Skills:            []string{"python", "go"},
		YearsOfExperience: &years,
		Page:              2,
		Limit:             500,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Pagination{Total: 250, Page: 2, Limit: 100, Pages: 3}, res.Pagination)
	assert.NotNil(t, res.Talents)
}

func TestExportShortlist(t *testing.T) {
	ctx := context.Background()
	f := newRecruiterFixture()
	f.recruiters.On("GetByUserID", ctx, "r1").Return(domain.NewRecruiterProfile("r1", "Corp", "Lead", "Ghana"), nil)
	f.recruiters.On("GetShortlist", ctx, "r1").Return([]domain.ShortlistedTalent{
		{
			ID: "e1",
			Talent: &domain.TalentSummary{
				ID:                "t1",
				Headline:          "Backend engineer",
				Location:          domain.Location{Country: "Kenya"},
				Skills:            []string{"go", "sql"},
				YearsOfExperience: 5,
				User:              &domain.UserSummary{FirstName: "Ada", LastName: "Obi"},
			},
			Notes:     "call back",
			DateAdded: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{ID: "e2", Notes: "gone"},
	}, nil)

	data, err := f.uc.ExportShortlist(ctx, "r1")
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Shortlist")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// shortlist rows carry the owner's name only, so every header must have data behind it
	assert.Equal(t, []string{
		"Name", "Headline", "Country", "Skills", "Years of Experience", "Completeness", "Notes", "Date Added",
	}, rows[0])
	assert.Equal(t, []string{"Ada Obi", "Backend engineer", "Kenya", "go, sql", "5", "0", "call back", "2024-03-01"}, rows[1])
	assert.Equal(t, "(removed profile)", rows[2][0])
	assert.Equal(t, "gone", rows[2][6])
}

func TestUploadLogo(t *testing.T) {
	ctx := context.Background()

	img := image.NewRGBA(image.Rect(0, 0, 600, 300))
	for x := 0; x < 600; x++ {
		img.Set(x, 150, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	pngData := buf.Bytes()

	t.Run("stores a jpeg thumbnail", func(t *testing.T) {
		f := newRecruiterFixture()
		profile := domain.NewRecruiterProfile("r1", "Corp", "Lead", "Ghana")
		profile.CompanyLogoPath = "logos/r1-1.jpg"
		f.recruiters.On("GetByUserID", ctx, "r1").Return(profile, nil)
		f.recruiters.On("Update", ctx, profile).Return(nil)
		f.store.On("Save", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "logos/r1-") && strings.HasSuffix(key, ".jpg")
		}), "image/jpeg", mock.Anything).Return(&domain.StoredFile{Path: "logos/r1-2.jpg", URL: "/uploads/logos/r1-2.jpg"}, nil)
		f.store.On("Delete", ctx, "logos/r1-1.jpg").Return(nil)

		p, err := f.uc.UploadLogo(ctx, "r1", &domain.LogoUpload{
			Filename: "logo.png",
			Size:     int64(len(pngData)),
			Content:  bytes.NewReader(pngData),
		})
		require.NoError(t, err)
		assert.Equal(t, "/uploads/logos/r1-2.jpg", p.CompanyLogo)
		f.store.AssertCalled(t, "Delete", ctx, "logos/r1-1.jpg")
	})

	t.Run("rejects non images", func(t *testing.T) {
		f := newRecruiterFixture()
		_, err := f.uc.UploadLogo(ctx, "r1", &domain.LogoUpload{
			Filename: "logo.png",
			Content:  bytes.NewReader(samplePDF),
		})
		assert.ErrorIs(t, err, domain.ErrUnsupportedImage)
	})
}
