package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/apperror"
	"talent-pool-backend/pkg/logger"
	"talent-pool-backend/pkg/resumetext"
	"talent-pool-backend/pkg/security"
)

type talentUsecase struct {
	talentRepo     domain.TalentRepository
	store          domain.FileStore
	extractor      domain.TextExtractor
	events         domain.EventPublisher
	scanner        MalwareScanner
	maxResumeBytes int64
	now            func() time.Time
}

func NewTalentUsecase(
	talentRepo domain.TalentRepository,
	store domain.FileStore,
	extractor domain.TextExtractor,
	events domain.EventPublisher,
	scanner MalwareScanner,
	maxResumeBytes int64,
) domain.TalentUsecase {
	return &talentUsecase{
		talentRepo:     talentRepo,
		store:          store,
		extractor:      extractor,
		events:         events,
		scanner:        scanner,
		maxResumeBytes: maxResumeBytes,
		now:            time.Now,
	}
}

func (u *talentUsecase) load(ctx context.Context, userID string) (*domain.TalentProfile, error) {
	p, err := u.talentRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, apperror.Internal(err)
	}
	return p, nil
}

func (u *talentUsecase) save(ctx context.Context, p *domain.TalentProfile) error {
	if err := u.talentRepo.Update(ctx, p); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrProfileNotFound
		}
		return err
	}
	return nil
}

func (u *talentUsecase) GetMyProfile(ctx context.Context, userID string) (*domain.TalentProfile, error) {
	return u.load(ctx, userID)
}

// UpsertProfile applies the supplied fields, creating the profile when the
// user has none yet.
func (u *talentUsecase) UpsertProfile(ctx context.Context, userID string, in domain.TalentProfileInput) (*domain.TalentProfile, error) {
	p, err := u.load(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	if p == nil {
		p = domain.NewTalentProfile(userID, "")
		in.ApplyTo(p)
		if p.Location.Country == "" {
			return nil, apperror.BadRequest("country is required")
		}
		if err := u.talentRepo.Create(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}

	in.ApplyTo(p)
	if err := u.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *talentUsecase) AddEducation(ctx context.Context, userID string, in domain.EducationInput) (*domain.TalentProfile, error) {
	p, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	p.AddEducation(domain.EducationEntry{
		Institution: strings.TrimSpace(in.Institution),
		Degree:      strings.TrimSpace(in.Degree),
		Field:       strings.TrimSpace(in.Field),
		StartDate:   in.StartDate.TimePtr(),
		EndDate:     in.EndDate.TimePtr(),
		Current:     in.Current,
	})
	if err := u.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *talentUsecase) DeleteEducation(ctx context.Context, userID, entryID string) (*domain.TalentProfile, error) {
	p, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.RemoveEducation(entryID) {
		return nil, domain.ErrEntryNotFound
	}
	if err := u.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *talentUsecase) AddExperience(ctx context.Context, userID string, in domain.ExperienceInput) (*domain.TalentProfile, error) {
	if in.StartDate == nil {
		return nil, apperror.BadRequest("startDate is required")
	}
	p, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	p.AddExperience(domain.ExperienceEntry{
		Company:     strings.TrimSpace(in.Company),
		Position:    strings.TrimSpace(in.Position),
		Description: strings.TrimSpace(in.Description),
		StartDate:   in.StartDate.Time,
		EndDate:     in.EndDate.TimePtr(),
		Current:     in.Current,
	})
	if err := u.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *talentUsecase) DeleteExperience(ctx context.Context, userID, entryID string) (*domain.TalentProfile, error) {
	p, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.RemoveExperience(entryID) {
		return nil, domain.ErrEntryNotFound
	}
	if err := u.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UploadResume validates and stores a new resume, replacing the previous file.
// Checks run in order: presence, type, size, malware.
func (u *talentUsecase) UploadResume(ctx context.Context, userID string, file *domain.ResumeUpload) (*domain.TalentProfile, error) {
	if file == nil || file.Content == nil {
		return nil, domain.ErrNoFileProvided
	}

	data, err := io.ReadAll(io.LimitReader(file.Content, u.maxResumeBytes+1))
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("read upload: %w", err))
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	ext, err := security.ResumeFiles.Validate(file.Filename, file.MimeType, head)
	if err != nil {
		return nil, domain.ErrUnsupportedFileType
	}
	if file.Size > u.maxResumeBytes || int64(len(data)) > u.maxResumeBytes {
		return nil, domain.ErrFileTooLarge
	}

	p, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := scanUpload(ctx, u.scanner, userID, file.Filename, data); err != nil {
		return nil, err
	}

	now := u.now()
	key := fmt.Sprintf("resumes/%s-%d%s", userID, now.UnixMilli(), ext)
	contentType := security.ResumeFiles.ContentType(ext)
	stored, err := u.store.Save(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	text, err := u.extractor.Extract(ext, data)
	if err != nil && !errors.Is(err, resumetext.ErrUnsupported) {
		logger.Log.Warn("resume text extraction failed", "user_id", userID, "key", key, "error", err)
	}

	previous := p.Resume
	p.Resume = &domain.ResumeMeta{
		Filename:   filepath.Base(file.Filename),
		Path:       stored.Path,
		URL:        stored.URL,
		MimeType:   contentType,
		UploadedAt: now,
	}
	p.ResumeText = text

	if err := u.save(ctx, p); err != nil {
		u.discard(ctx, stored.Path)
		return nil, err
	}

	if previous != nil && previous.Path != "" && previous.Path != stored.Path {
		u.discard(ctx, previous.Path)
	}

	u.publish(ctx, domain.EventResumeUploaded, domain.ResumeUploadedEvent{
		TalentID: p.ID,
		UserID:   userID,
		Path:     stored.Path,
		MimeType: contentType,
		HasText:  text != "",
	})
	return p, nil
}

// GetProfileByID returns a profile and counts the read as a view.
func (u *talentUsecase) GetProfileByID(ctx context.Context, id string) (*domain.TalentProfile, error) {
	p, err := u.talentRepo.IncrementViews(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, apperror.Internal(err)
	}
	return p, nil
}

// discard removes a stored file, logging instead of failing.
func (u *talentUsecase) discard(ctx context.Context, key string) {
	if err := u.store.Delete(ctx, key); err != nil {
		logger.Log.Warn("failed to delete stored file", "key", key, "error", err)
	}
}

func (u *talentUsecase) publish(ctx context.Context, routingKey string, payload any) {
	if err := u.events.Publish(ctx, routingKey, payload); err != nil {
		logger.Log.Warn("event publish failed", "routing_key", routingKey, "error", err)
	}
}
