package domain

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Availability values accepted on a talent profile.
const (
	AvailabilityImmediate  = "immediate"
	AvailabilityTwoWeeks   = "two_weeks"
	AvailabilityMonth      = "month"
	AvailabilityNegotiable = "negotiable"
)

// ============================================================================
// Talent Profile
// ============================================================================

type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country"`
}

type EducationEntry struct {
	ID          string     `json:"id"`
	Institution string     `json:"institution"`
	Degree      string     `json:"degree,omitempty"`
	Field       string     `json:"field,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Current     bool       `json:"current"`
}

type ExperienceEntry struct {
	ID          string     `json:"id"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Description string     `json:"description,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Current     bool       `json:"current"`
}

// ResumeMeta describes the stored resume file. Path is the storage key.
type ResumeMeta struct {
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	URL        string    `json:"url,omitempty"`
	MimeType   string    `json:"mimetype"`
	UploadedAt time.Time `json:"uploadDate"`
}

type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

type TalentProfile struct {
	ID                  string            `json:"id"`
	UserID              string            `json:"userId"`
	User                *UserSummary      `json:"user,omitempty"`
	Headline            string            `json:"headline"`
	Location            Location          `json:"location"`
	Skills              []string          `json:"skills"`
	YearsOfExperience   int               `json:"yearsOfExperience"`
	Biography           string            `json:"biography"`
	Education           []EducationEntry  `json:"education"`
	WorkExperience      []ExperienceEntry `json:"workExperience"`
	Resume              *ResumeMeta       `json:"resume,omitempty"`
	ResumeText          string            `json:"-"`
	ProfileViews        int               `json:"profileViews"`
	ProfileCompleteness int               `json:"profileCompleteness"`
	SocialLinks         SocialLinks       `json:"socialLinks"`
	Availability        string            `json:"availability"`
	IsOpenToWork        bool              `json:"isOpenToWork"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// NewTalentProfile returns an empty profile with the defaults applied.
func NewTalentProfile(userID, country string) *TalentProfile {
	return &TalentProfile{
		UserID:         userID,
		Location:       Location{Country: country},
		Skills:         []string{},
		Education:      []EducationEntry{},
		WorkExperience: []ExperienceEntry{},
		Availability:   AvailabilityNegotiable,
		IsOpenToWork:   true,
	}
}

// completenessChecklist is the number of items RecomputeCompleteness scores.
const completenessChecklist = 8

// RecomputeCompleteness scores the profile over headline, country, skills,
// years of experience, biography, education, work experience and resume.
// Zero years of experience counts as missing.
func (p *TalentProfile) RecomputeCompleteness() int {
	done := 0
	present := []bool{
		strings.TrimSpace(p.Headline) != "",
		strings.TrimSpace(p.Location.Country) != "",
		len(p.Skills) > 0,
		p.YearsOfExperience > 0,
		strings.TrimSpace(p.Biography) != "",
		len(p.Education) > 0,
		len(p.WorkExperience) > 0,
		p.Resume != nil && p.Resume.Path != "",
	}
	for _, ok := range present {
		if ok {
			done++
		}
	}

	p.ProfileCompleteness = int(math.Round(float64(done) * 100 / completenessChecklist))
	return p.ProfileCompleteness
}

// AddEducation prepends the entry under a fresh id.
func (p *TalentProfile) AddEducation(e EducationEntry) EducationEntry {
	e.ID = uuid.NewString()
	p.Education = append([]EducationEntry{e}, p.Education...)
	return e
}

// RemoveEducation deletes the entry with the given id and reports whether it existed.
func (p *TalentProfile) RemoveEducation(id string) bool {
	for i, e := range p.Education {
		if e.ID == id {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}

func (p *TalentProfile) AddExperience(e ExperienceEntry) ExperienceEntry {
	e.ID = uuid.NewString()
	p.WorkExperience = append([]ExperienceEntry{e}, p.WorkExperience...)
	return e
}

func (p *TalentProfile) RemoveExperience(id string) bool {
	for i, e := range p.WorkExperience {
		if e.ID == id {
			p.WorkExperience = append(p.WorkExperience[:i], p.WorkExperience[i+1:]...)
			return true
		}
	}
	return false
}

// ============================================================================
// Inputs
// ============================================================================

// SkillList decodes either a JSON array or a comma separated string.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = NormalizeSkills(list)
		return nil
	}

	var csv string
	if err := json.Unmarshal(data, &csv); err != nil {
		return err
	}
	*s = NormalizeSkills(strings.Split(csv, ","))
	return nil
}

// NormalizeSkills trims every skill and drops the empty ones.
func NormalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, skill := range in {
		if skill = strings.TrimSpace(skill); skill != "" {
			out = append(out, skill)
		}
	}
	return out
}

// TalentProfileInput is a partial update. Empty fields are left untouched.
type TalentProfileInput struct {
	Headline          string    `json:"headline" binding:"omitempty,max=200,no_emoji"`
	City              string    `json:"city" binding:"omitempty,max=100"`
	State             string    `json:"state" binding:"omitempty,max=100"`
	Country           string    `json:"country" binding:"omitempty,max=100"`
	Skills            SkillList `json:"skills"`
	YearsOfExperience *int      `json:"yearsOfExperience" binding:"omitempty,min=0,max=80"`
	Biography         string    `json:"biography" binding:"omitempty,max=5000"`
	LinkedIn          string    `json:"linkedin" binding:"omitempty,url"`
	GitHub            string    `json:"github" binding:"omitempty,url"`
	Portfolio         string    `json:"portfolio" binding:"omitempty,url"`
	Availability      string    `json:"availability" binding:"omitempty,oneof=immediate two_weeks month negotiable"`
	IsOpenToWork      *bool     `json:"isOpenToWork"`
}

// ApplyTo copies the supplied fields onto p.
func (in TalentProfileInput) ApplyTo(p *TalentProfile) {
	if in.Headline != "" {
		p.Headline = strings.TrimSpace(in.Headline)
	}
	if in.City != "" {
		p.Location.City = strings.TrimSpace(in.City)
	}
	if in.State != "" {
		p.Location.State = strings.TrimSpace(in.State)
	}
	if in.Country != "" {
		p.Location.Country = strings.TrimSpace(in.Country)
	}
	if len(in.Skills) > 0 {
		p.Skills = []string(in.Skills)
	}
	if in.YearsOfExperience != nil && *in.YearsOfExperience != 0 {
		p.YearsOfExperience = *in.YearsOfExperience
	}
	if in.Biography != "" {
		p.Biography = strings.TrimSpace(in.Biography)
	}
	if in.LinkedIn != "" {
		p.SocialLinks.LinkedIn = in.LinkedIn
	}
	if in.GitHub != "" {
		p.SocialLinks.GitHub = in.GitHub
	}
	if in.Portfolio != "" {
		p.SocialLinks.Portfolio = in.Portfolio
	}
	if in.Availability != "" {
		p.Availability = in.Availability
	}
	if in.IsOpenToWork != nil {
		p.IsOpenToWork = *in.IsOpenToWork
	}
}

var ErrInvalidDate = errors.New("dates must be formatted as YYYY-MM-DD or RFC 3339")

// Date accepts a calendar date ("2019-06-01") or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidDate
	}
	raw = strings.TrimSpace(raw)

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return ErrInvalidDate
}

// TimePtr returns nil for a nil Date.
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

type EducationInput struct {
	Institution string `json:"institution" binding:"required,max=200"`
	Degree      string `json:"degree" binding:"omitempty,max=200"`
	Field       string `json:"field" binding:"omitempty,max=200"`
	StartDate   *Date  `json:"startDate"`
	EndDate     *Date  `json:"endDate"`
	Current     bool   `json:"current"`
}

type ExperienceInput struct {
	Company     string `json:"company" binding:"required,max=200"`
	Position    string `json:"position" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	StartDate   *Date  `json:"startDate" binding:"required"`
	EndDate     *Date  `json:"endDate"`
	Current     bool   `json:"current"`
}

// ResumeUpload is a file part received for a resume upload.
type ResumeUpload struct {
	Filename string
	MimeType string // as declared by the client
	Size     int64
	Content  io.Reader
}

// ============================================================================
// Repository & Usecase Interfaces
// ============================================================================

type TalentRepository interface {
	// Create and Update recompute ProfileCompleteness before writing.
	Create(ctx context.Context, p *TalentProfile) error
	Update(ctx context.Context, p *TalentProfile) error
	GetByID(ctx context.Context, id string) (*TalentProfile, error)
	GetByUserID(ctx context.Context, userID string) (*TalentProfile, error)
	// IncrementViews bumps profile_views and returns the profile with its owner.
	IncrementViews(ctx context.Context, id string) (*TalentProfile, error)
	Search(ctx context.Context, filter TalentSearchFilter) ([]TalentProfile, int64, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type TalentUsecase interface {
	GetMyProfile(ctx context.Context, userID string) (*TalentProfile, error)
	UpsertProfile(ctx context.Context, userID string, in TalentProfileInput) (*TalentProfile, error)
	AddEducation(ctx context.Context, userID string, in EducationInput) (*TalentProfile, error)
	DeleteEducation(ctx context.Context, userID, entryID string) (*TalentProfile, error)
	AddExperience(ctx context.Context, userID string, in ExperienceInput) (*TalentProfile, error)
	DeleteExperience(ctx context.Context, userID, entryID string) (*TalentProfile, error)
	UploadResume(ctx context.Context, userID string, file *ResumeUpload) (*TalentProfile, error)
	GetProfileByID(ctx context.Context, id string) (*TalentProfile, error)
}
