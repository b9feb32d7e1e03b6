package domain

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxRecentSearches bounds the recent search log kept per recruiter.
const MaxRecentSearches = 10

type ShortlistEntry struct {
	ID        string    `json:"id"`
	TalentID  string    `json:"talent"`
	Notes     string    `json:"notes"`
	DateAdded time.Time `json:"dateAdded"`
}

type RecentSearch struct {
	Query     map[string]string `json:"query"`
	Timestamp time.Time         `json:"timestamp"`
}

type RecruiterProfile struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"userId"`
	User               *UserSummary     `json:"user,omitempty"`
	Company            string           `json:"company"`
	Position           string           `json:"position"`
	Industry           string           `json:"industry,omitempty"`
	Location           Location         `json:"location"`
	CompanyDescription string           `json:"companyDescription,omitempty"`
	CompanyWebsite     string           `json:"companyWebsite,omitempty"`
	CompanyLogo        string           `json:"companyLogo,omitempty"`
	CompanyLogoPath    string           `json:"-"`
	Shortlist          []ShortlistEntry `json:"shortlistedTalent"`
	RecentSearches     []RecentSearch   `json:"recentSearches"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

func NewRecruiterProfile(userID, company, position, country string) *RecruiterProfile {
	return &RecruiterProfile{
		UserID:         userID,
		Company:        company,
		Position:       position,
		Location:       Location{Country: country},
		Shortlist:      []ShortlistEntry{},
		RecentSearches: []RecentSearch{},
	}
}

func (r *RecruiterProfile) HasShortlisted(talentID string) bool {
	for _, e := range r.Shortlist {
		if e.TalentID == talentID {
			return true
		}
	}
	return false
}

// AddToShortlist prepends a new entry. Callers check HasShortlisted first.
func (r *RecruiterProfile) AddToShortlist(talentID, notes string, now time.Time) ShortlistEntry {
	entry := ShortlistEntry{
		ID:        uuid.NewString(),
		TalentID:  talentID,
		Notes:     strings.TrimSpace(notes),
		DateAdded: now,
	}
	r.Shortlist = append([]ShortlistEntry{entry}, r.Shortlist...)
	return entry
}

func (r *RecruiterProfile) RemoveFromShortlist(entryID string) bool {
	for i, e := range r.Shortlist {
		if e.ID == entryID {
			r.Shortlist = append(r.Shortlist[:i], r.Shortlist[i+1:]...)
			return true
		}
	}
	return false
}

// RecordSearch prepends the query and keeps the newest MaxRecentSearches entries.
func (r *RecruiterProfile) RecordSearch(query map[string]string, now time.Time) {
	r.RecentSearches = append([]RecentSearch{{Query: query, Timestamp: now}}, r.RecentSearches...)
	if len(r.RecentSearches) > MaxRecentSearches {
		r.RecentSearches = r.RecentSearches[:MaxRecentSearches]
	}
}

// ============================================================================
// Shortlist projection
// ============================================================================

// TalentSummary is the talent projection shown on a shortlist.
type TalentSummary struct {
	ID                  string       `json:"id"`
	Headline            string       `json:"headline"`
	Location            Location     `json:"location"`
	Skills              []string     `json:"skills"`
	YearsOfExperience   int          `json:"yearsOfExperience"`
	ProfileCompleteness int          `json:"profileCompleteness"`
	User                *UserSummary `json:"user,omitempty"`
}

// ShortlistedTalent is a shortlist entry with its talent expanded. Talent is
// nil when the referenced profile no longer exists.
type ShortlistedTalent struct {
	ID        string         `json:"id"`
	Talent    *TalentSummary `json:"talent"`
	Notes     string         `json:"notes"`
	DateAdded time.Time      `json:"dateAdded"`
}

// ============================================================================
// Inputs
// ============================================================================

type RecruiterProfileInput struct {
	Company            string  `json:"company" binding:"required,max=200"`
	Position           string  `json:"position" binding:"required,max=200"`
	Industry           string  `json:"industry" binding:"omitempty,max=200"`
	City               string  `json:"city" binding:"omitempty,max=100"`
	State              string  `json:"state" binding:"omitempty,max=100"`
	Country            *string `json:"country" binding:"omitempty,min=1,max=100"`
	CompanyDescription string  `json:"companyDescription" binding:"omitempty,max=5000"`
	CompanyWebsite     string  `json:"companyWebsite" binding:"omitempty,url"`
}

func (in RecruiterProfileInput) ApplyTo(r *RecruiterProfile) {
	if in.Company != "" {
		r.Company = strings.TrimSpace(in.Company)
	}
	if in.Position != "" {
		r.Position = strings.TrimSpace(in.Position)
	}
	if in.Industry != "" {
		r.Industry = strings.TrimSpace(in.Industry)
	}
	if in.City != "" {
		r.Location.City = strings.TrimSpace(in.City)
	}
	if in.State != "" {
		r.Location.State = strings.TrimSpace(in.State)
	}
	if in.Country != nil && strings.TrimSpace(*in.Country) != "" {
		r.Location.Country = strings.TrimSpace(*in.Country)
	}
	if in.CompanyDescription != "" {
		r.CompanyDescription = strings.TrimSpace(in.CompanyDescription)
	}
	if in.CompanyWebsite != "" {
		r.CompanyWebsite = in.CompanyWebsite
	}
}

type ShortlistInput struct {
	TalentID string `json:"talentId" binding:"required"`
	Notes    string `json:"notes" binding:"omitempty,max=2000"`
}

// LogoUpload is an image part received for a company logo.
type LogoUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ============================================================================
// Repository & Usecase Interfaces
// ============================================================================

type RecruiterRepository interface {
	Create(ctx context.Context, r *RecruiterProfile) error
	Update(ctx context.Context, r *RecruiterProfile) error
	GetByUserID(ctx context.Context, userID string) (*RecruiterProfile, error)
	// GetShortlist expands every shortlist entry of the recruiter owned by userID.
	GetShortlist(ctx context.Context, userID string) ([]ShortlistedTalent, error)
}

type RecruiterUsecase interface {
	GetMyProfile(ctx context.Context, userID string) (*RecruiterProfile, error)
	UpsertProfile(ctx context.Context, userID string, in RecruiterProfileInput) (*RecruiterProfile, error)
	UploadLogo(ctx context.Context, userID string, file *LogoUpload) (*RecruiterProfile, error)
	SearchTalent(ctx context.Context, caller Identity, filter TalentSearchFilter, rawQuery map[string]string) (*TalentSearchResult, error)
	ShortlistTalent(ctx context.Context, userID string, in ShortlistInput) ([]ShortlistEntry, error)
	RemoveFromShortlist(ctx context.Context, userID, entryID string) ([]ShortlistEntry, error)
	GetShortlist(ctx context.Context, userID string) ([]ShortlistedTalent, error)
	ExportShortlist(ctx context.Context, userID string) ([]byte, error)
}
