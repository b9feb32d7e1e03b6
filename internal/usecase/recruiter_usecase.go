package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/apperror"
	"talent-pool-backend/pkg/imaging"
	"talent-pool-backend/pkg/logger"
	"talent-pool-backend/pkg/security"
)

const (
	logoDimension = 256
	logoQuality   = 85
)

type recruiterUsecase struct {
	recruiterRepo domain.RecruiterRepository
	talentRepo    domain.TalentRepository
	store         domain.FileStore
	events        domain.EventPublisher
	scanner       MalwareScanner
	maxLogoBytes  int64
	now           func() time.Time
}

func NewRecruiterUsecase(
	recruiterRepo domain.RecruiterRepository,
	talentRepo domain.TalentRepository,
	store domain.FileStore,
	events domain.EventPublisher,
	scanner MalwareScanner,
	maxLogoBytes int64,
) domain.RecruiterUsecase {
	return &recruiterUsecase{
		recruiterRepo: recruiterRepo,
		talentRepo:    talentRepo,
		store:         store,
		events:        events,
		scanner:       scanner,
		maxLogoBytes:  maxLogoBytes,
		now:           time.Now,
	}
}

func (u *recruiterUsecase) load(ctx context.Context, userID string) (*domain.RecruiterProfile, error) {
	r, err := u.recruiterRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrRecruiterNotFound
		}
		return nil, apperror.Internal(err)
	}
	return r, nil
}

func (u *recruiterUsecase) save(ctx context.Context, r *domain.RecruiterProfile) error {
	if err := u.recruiterRepo.Update(ctx, r); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrRecruiterNotFound
		}
		return err
	}
	return nil
}

func (u *recruiterUsecase) GetMyProfile(ctx context.Context, userID string) (*domain.RecruiterProfile, error) {
	return u.load(ctx, userID)
}

func (u *recruiterUsecase) UpsertProfile(ctx context.Context, userID string, in domain.RecruiterProfileInput) (*domain.RecruiterProfile, error) {
	r, err := u.load(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrRecruiterNotFound) {
		return nil, err
	}

	if r == nil {
		r = domain.NewRecruiterProfile(userID, "", "", "")
		in.ApplyTo(r)
		if r.Location.Country == "" {
			return nil, apperror.BadRequest("country is required")
		}
		if err := u.recruiterRepo.Create(ctx, r); err != nil {
			return nil, err
		}
		return r, nil
	}

	in.ApplyTo(r)
	if err := u.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// UploadLogo validates the image, stores a square-bounded JPEG thumbnail and
// replaces the previous logo.
func (u *recruiterUsecase) UploadLogo(ctx context.Context, userID string, file *domain.LogoUpload) (*domain.RecruiterProfile, error) {
	if file == nil || file.Content == nil {
		return nil, domain.ErrNoFileProvided
	}

	data, err := io.ReadAll(io.LimitReader(file.Content, u.maxLogoBytes+1))
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("read upload: %w", err))
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if _, err := security.LogoImages.Validate(file.Filename, "", head); err != nil {
		return nil, domain.ErrUnsupportedImage
	}
	if file.Size > u.maxLogoBytes || int64(len(data)) > u.maxLogoBytes {
		return nil, domain.ErrFileTooLarge
	}

	r, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := scanUpload(ctx, u.scanner, userID, file.Filename, data); err != nil {
		return nil, err
	}

	thumb, err := imaging.Thumbnail(bytes.NewReader(data), logoDimension, logoQuality)
	if err != nil {
		return nil, domain.ErrUnsupportedImage
	}

	key := fmt.Sprintf("logos/%s-%d.jpg", userID, u.now().UnixMilli())
	stored, err := u.store.Save(ctx, key, "image/jpeg", bytes.NewReader(thumb))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	previous := r.CompanyLogoPath
	r.CompanyLogo = stored.URL
	r.CompanyLogoPath = stored.Path
	if err := u.save(ctx, r); err != nil {
		u.discard(ctx, stored.Path)
		return nil, err
	}
	if previous != "" && previous != stored.Path {
		u.discard(ctx, previous)
	}
	return r, nil
}

// SearchTalent runs a filtered talent search. When the caller owns a
// recruiter profile the raw query is pushed onto its recent searches first.
func (u *recruiterUsecase) SearchTalent(
	ctx context.Context,
	caller domain.Identity,
	filter domain.TalentSearchFilter,
	rawQuery map[string]string,
) (*domain.TalentSearchResult, error) {
	filter.Normalize()

	if caller.UserID != "" {
		u.recordSearch(ctx, caller.UserID, rawQuery)
	}

	talents, total, err := u.talentRepo.Search(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if talents == nil {
		talents = []domain.TalentProfile{}
	}

	return &domain.TalentSearchResult{
		Talents:    talents,
		Pagination: domain.NewPagination(total, filter.Page, filter.Limit),
	}, nil
}

func (u *recruiterUsecase) recordSearch(ctx context.Context, userID string, rawQuery map[string]string) {
	r, err := u.recruiterRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Log.Warn("recent search lookup failed", "user_id", userID, "error", err)
		}
		return
	}

	query := make(map[string]string, len(rawQuery))
	for k, v := range rawQuery {
		query[k] = v
	}
	r.RecordSearch(query, u.now())
	if err := u.recruiterRepo.Update(ctx, r); err != nil {
		logger.Log.Warn("failed to record recent search", "user_id", userID, "error", err)
	}
}

func (u *recruiterUsecase) ShortlistTalent(ctx context.Context, userID string, in domain.ShortlistInput) ([]domain.ShortlistEntry, error) {
	r, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	talentID := strings.TrimSpace(in.TalentID)
	exists, err := u.talentRepo.Exists(ctx, talentID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !exists {
		return nil, domain.ErrTalentNotFound
	}
	if r.HasShortlisted(talentID) {
		return nil, domain.ErrAlreadyShortlisted
	}

	entry := r.AddToShortlist(talentID, in.Notes, u.now())
	if err := u.save(ctx, r); err != nil {
		return nil, err
	}

	if err := u.events.Publish(ctx, domain.EventTalentShortlisted, domain.TalentShortlistedEvent{
		RecruiterID: r.ID,
		TalentID:    talentID,
		EntryID:     entry.ID,
	}); err != nil {
		logger.Log.Warn("event publish failed", "routing_key", domain.EventTalentShortlisted, "error", err)
	}
	return r.Shortlist, nil
}

func (u *recruiterUsecase) RemoveFromShortlist(ctx context.Context, userID, entryID string) ([]domain.ShortlistEntry, error) {
	r, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !r.RemoveFromShortlist(entryID) {
		return nil, domain.ErrEntryNotFound
	}
	if err := u.save(ctx, r); err != nil {
		return nil, err
	}
	return r.Shortlist, nil
}

func (u *recruiterUsecase) GetShortlist(ctx context.Context, userID string) ([]domain.ShortlistedTalent, error) {
	if _, err := u.load(ctx, userID); err != nil {
		return nil, err
	}

	list, err := u.recruiterRepo.GetShortlist(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if list == nil {
		list = []domain.ShortlistedTalent{}
	}
	return list, nil
}

// ExportShortlist renders the expanded shortlist as an xlsx workbook.
func (u *recruiterUsecase) ExportShortlist(ctx context.Context, userID string) ([]byte, error) {
	list, err := u.GetShortlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := shortlistWorkbook(list)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return data, nil
}

var shortlistColumns = []string{
	"Name", "Headline", "Country", "Skills", "Years of Experience", "Completeness", "Notes", "Date Added",
}

func shortlistWorkbook(list []domain.ShortlistedTalent) ([]byte, error) {
	const sheet = "Shortlist"

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, name := range shortlistColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	endCell, _ := excelize.CoordinatesToCellName(len(shortlistColumns), 1)
	f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	for rowIdx, entry := range list {
		for colIdx, value := range shortlistRow(entry) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	for i := range shortlistColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func shortlistRow(e domain.ShortlistedTalent) []any {
	added := e.DateAdded.Format("2006-01-02")
	t := e.Talent
	if t == nil {
		return []any{"(removed profile)", "", "", "", "", "", e.Notes, added}
	}

	var name string
	if t.User != nil {
		name = strings.TrimSpace(t.User.FirstName + " " + t.User.LastName)
	}
	return []any{
		name,
		t.Headline,
		t.Location.Country,
		strings.Join(t.Skills, ", "),
		t.YearsOfExperience,
		t.ProfileCompleteness,
		e.Notes,
		added,
	}
}

func (u *recruiterUsecase) discard(ctx context.Context, key string) {
	if err := u.store.Delete(ctx, key); err != nil {
		logger.Log.Warn("failed to delete stored file", "key", key, "error", err)
	}
}
