package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/internal/usecase"
	"talent-pool-backend/pkg/security/antivirus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

type talentFixture struct {
	uc        domain.TalentUsecase
	repo      *MockTalentRepo
	store     *MockFileStore
	extractor *MockExtractor
	events    *MockPublisher
}

func newTalentFixture(maxBytes int64) *talentFixture {
	f := &talentFixture{
		repo:      new(MockTalentRepo),
		store:     new(MockFileStore),
		extractor: new(MockExtractor),
		events:    new(MockPublisher),
	}
	f.uc = usecase.NewTalentUsecase(f.repo, f.store, f.extractor, f.events, nil, maxBytes)
	return f
}

func (f *talentFixture) withScanner(s usecase.MalwareScanner, maxBytes int64) *talentFixture {
	f.uc = usecase.NewTalentUsecase(f.repo, f.store, f.extractor, f.events, s, maxBytes)
	return f
}

func TestUpsertTalentProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a missing profile when country is given", func(t *testing.T) {
		f := newTalentFixture(5000000)
		f.repo.On("GetByUserID", ctx, "u1").Return(nil, domain.ErrNotFound)
		f.repo.On("Create", ctx, mock.AnythingOfType("*domain.TalentProfile")).Return(nil)

		p, err := f.uc.UpsertProfile(ctx, "u1", domain.TalentProfileInput{Country: "Nigeria", Headline: "Go dev"})
		require.NoError(t, err)
		assert.Equal(t, "Nigeria", p.Location.Country)
		assert.Equal(t, "Go dev", p.Headline)
		assert.True(t, p.IsOpenToWork)
	})

	t.Run("refuses to create without country", func(t *testing.T) {
		f := newTalentFixture(5000000)
		f.repo.On("GetByUserID", ctx, "u1").Return(nil, domain.ErrNotFound)

		_, err := f.uc.UpsertProfile(ctx, "u1", domain.TalentProfileInput{Headline: "Go dev"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "country")
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("updates only supplied fields", func(t *testing.T) {
		f := newTalentFixture(5000000)
		existing := domain.NewTalentProfile("u1", "Kenya")
		existing.Headline = "Old"
		existing.YearsOfExperience = 4
		f.repo.On("GetByUserID", ctx, "u1").Return(existing, nil)
		f.repo.On("Update", ctx, existing).Return(nil)

		zero := 0
		closed := false
		p, err := f.uc.UpsertProfile(ctx, "u1", domain.TalentProfileInput{
			Biography:         "Writes services",
			YearsOfExperience: &zero,
			IsOpenToWork:      &closed,
		})
		require.NoError(t, err)
		assert.Equal(t, "Old", p.Headline)
		assert.Equal(t, 4, p.YearsOfExperience)
		assert.Equal(t, "Writes services", p.Biography)
		assert.False(t, p.IsOpenToWork)
	})
}

func TestEducationRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newTalentFixture(5000000)
	profile := domain.NewTalentProfile("u1", "Kenya")
	f.repo.On("GetByUserID", ctx, "u1").Return(profile, nil)
	f.repo.On("Update", ctx, profile).Return(nil)

	p, err := f.uc.AddEducation(ctx, "u1", domain.EducationInput{Institution: "University of Nairobi", Degree: "BSc"})
	require.NoError(t, err)
	require.Len(t, p.Education, 1)
	entryID := p.Education[0].ID
	assert.NotEmpty(t, entryID)

	p, err = f.uc.DeleteEducation(ctx, "u1", entryID)
	require.NoError(t, err)
	assert.Empty(t, p.Education)

	_, err = f.uc.DeleteEducation(ctx, "u1", entryID)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestExperienceRequiresStartDate(t *testing.T) {
	f := newTalentFixture(5000000)
	_, err := f.uc.AddExperience(context.Background(), "u1", domain.ExperienceInput{Company: "Acme", Position: "Engineer"})
	require.Error(t, err)
	f.repo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestAddExperiencePrepends(t *testing.T) {
	ctx := context.Background()
	f := newTalentFixture(5000000)
	profile := domain.NewTalentProfile("u1", "Kenya")
	f.repo.On("GetByUserID", ctx, "u1").Return(profile, nil)
	f.repo.On("Update", ctx, profile).Return(nil)

	start := domain.Date{Time: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	_, err := f.uc.AddExperience(ctx, "u1", domain.ExperienceInput{Company: "First", Position: "Dev", StartDate: &start})
	require.NoError(t, err)
	p, err := f.uc.AddExperience(ctx, "u1", domain.ExperienceInput{Company: "Second", Position: "Lead", StartDate: &start})
	require.NoError(t, err)

	require.Len(t, p.WorkExperience, 2)
	assert.Equal(t, "Second", p.WorkExperience[0].Company)
	assert.Equal(t, start.Time, p.WorkExperience[1].StartDate)
	assert.Nil(t, p.WorkExperience[1].EndDate)
}

func TestUploadResume(t *testing.T) {
	ctx := context.Background()

	t.Run("no file", func(t *testing.T) {
		f := newTalentFixture(5000000)
		_, err := f.uc.UploadResume(ctx, "u1", nil)
		assert.ErrorIs(t, err, domain.ErrNoFileProvided)
	})

	t.Run("executable rejected", func(t *testing.T) {
		f := newTalentFixture(5000000)
		_, err := f.uc.UploadResume(ctx, "u1", &domain.ResumeUpload{
			Filename: "resume.exe",
			MimeType: "application/octet-stream",
			Content:  bytes.NewReader([]byte("MZ\x90\x00\x03\x00\x00\x00")),
		})
		assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
		f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("renamed executable rejected", func(t *testing.T) {
		f := newTalentFixture(5000000)
		_, err := f.uc.UploadResume(ctx, "u1", &domain.ResumeUpload{
			Filename: "resume.pdf",
			MimeType: "application/pdf",
			Content:  bytes.NewReader([]byte("MZ\x90\x00\x03\x00\x00\x00")),
		})
		assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	})

	t.Run("too large", func(t *testing.T) {
		f := newTalentFixture(16)
		_, err := f.uc.UploadResume(ctx, "u1", &domain.ResumeUpload{
			Filename: "resume.pdf",
			MimeType: "application/pdf",
			Size:     int64(len(samplePDF)),
			Content:  bytes.NewReader(samplePDF),
		})
		assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	})

	t.Run("valid pdf replaces previous resume", func(t *testing.T) {
		f := newTalentFixture(5000000)
		profile := domain.NewTalentProfile("u1", "Kenya")
		profile.ID = "t1"
		profile.Resume = &domain.ResumeMeta{Filename: "old.pdf", Path: "resumes/u1-1.pdf"}
		f.repo.On("GetByUserID", ctx, "u1").Return(profile, nil)
		f.repo.On("Update", ctx, profile).Return(nil)

		keyMatcher := mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "resumes/u1-") && strings.HasSuffix(key, ".pdf")
		})
		f.store.On("Save", ctx, keyMatcher, "application/pdf", mock.Anything).
			Return(&domain.StoredFile{Path: "resumes/u1-2.pdf", URL: "/uploads/resumes/u1-2.pdf"}, nil)
		f.store.On("Delete", ctx, "resumes/u1-1.pdf").Return(nil)
		f.extractor.On("Extract", ".pdf", samplePDF).Return("golang postgres", nil)
		f.events.On("Publish", ctx, domain.EventResumeUploaded, mock.MatchedBy(func(e domain.ResumeUploadedEvent) bool {
			return e.TalentID == "t1" && e.HasText
		})).Return(nil)

		p, err := f.uc.UploadResume(ctx, "u1", &domain.ResumeUpload{
			Filename: "My Resume.pdf",
			MimeType: "application/pdf",
			Size:     int64(len(samplePDF)),
			Content:  bytes.NewReader(samplePDF),
		})
		require.NoError(t, err)
		require.NotNil(t, p.Resume)
		assert.Equal(t, "resumes/u1-2.pdf", p.Resume.Path)
		assert.Equal(t, "My Resume.pdf", p.Resume.Filename)
		assert.Equal(t, "golang postgres", p.ResumeText)

		f.store.AssertCalled(t, "Delete", ctx, "resumes/u1-1.pdf")
		f.events.AssertExpectations(t)
	})

	t.Run("failed save keeps the previous resume", func(t *testing.T) {
		f := newTalentFixture(5000000)
		profile := domain.NewTalentProfile("u1", "Kenya")
		profile.Resume = &domain.ResumeMeta{Path: "resumes/u1-1.pdf"}
		f.repo.On("GetByUserID", ctx, "u1").Return(profile, nil)
		f.repo.On("Update", ctx, profile).Return(assert.AnError)
		f.store.On("Save", ctx, mock.Anything, "application/pdf", mock.Anything).
			Return(&domain.StoredFile{Path: "resumes/u1-2.pdf"}, nil)
		f.store.On("Delete", ctx, "resumes/u1-2.pdf").Return(nil)
		f.extractor.On("Extract", ".pdf", mock.Anything).Return("", nil)

		_, err := f.uc.UploadResume(ctx, "u1", &domain.ResumeUpload{
			Filename: "resume.pdf",
			Content:  bytes.NewReader(samplePDF),
		})
		require.Error(t, err)
		f.store.AssertNotCalled(t, "Delete", ctx, "resumes/u1-1.pdf")
		f.store.AssertCalled(t, "Delete", ctx, "resumes/u1-2.pdf")
	})
}

func TestUploadResumeMalwareScan(t *testing.T) {
	ctx := context.Background()
	upload := func() *domain.ResumeUpload {
		return &domain.ResumeUpload{
			Filename: "cv.pdf",
			MimeType: "application/pdf",
			Size:     int64(len(samplePDF)),
			Content:  bytes.NewReader(samplePDF),
		}
	}

	t.Run("infected file is never stored", func(t *testing.T) {
		scanner := new(MockScanner)
		scanner.On("Scan", ctx, samplePDF).Return(antivirus.Verdict{Infected: true, Threat: "Eicar-Test-Signature"}, nil)
		f := newTalentFixture(5000000).withScanner(scanner, 5000000)
		f.repo.On("GetByUserID", ctx, "u1").Return(domain.NewTalentProfile("u1", "Kenya"), nil)

		_, err := f.uc.UploadResume(ctx, "u1", upload())
		assert.ErrorIs(t, err, domain.ErrMalwareDetected)
		f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("scanner outage fails closed", func(t *testing.T) {
		scanner := new(MockScanner)
		scanner.On("Scan", ctx, samplePDF).Return(antivirus.Verdict{}, errors.New("connect to clamd: refused"))
		f := newTalentFixture(5000000).withScanner(scanner, 5000000)
		f.repo.On("GetByUserID", ctx, "u1").Return(domain.NewTalentProfile("u1", "Kenya"), nil)

		_, err := f.uc.UploadResume(ctx, "u1", upload())
		assert.ErrorIs(t, err, domain.ErrScanUnavailable)
		f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetProfileByIDCountsView(t *testing.T) {
	ctx := context.Background()
	f := newTalentFixture(5000000)
	f.repo.On("IncrementViews", ctx, "t1").Return(&domain.TalentProfile{ID: "t1", ProfileViews: 3}, nil)
	f.repo.On("IncrementViews", ctx, "nope").Return(nil, domain.ErrNotFound)

	p, err := f.uc.GetProfileByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.ProfileViews)

	_, err = f.uc.GetProfileByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
