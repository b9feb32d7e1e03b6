package domain

import (
	"context"
	"strings"
	"time"
)

// Profile is the generic profile served under /api/profile.
type Profile struct {
	ID                  string       `json:"id"`
	UserID              string       `json:"userId"`
	User                *UserSummary `json:"user,omitempty"`
	Title               string       `json:"title,omitempty"`
	Bio                 string       `json:"bio,omitempty"`
	Headline            string       `json:"headline,omitempty"`
	Summary             string       `json:"summary,omitempty"`
	Skills              []string     `json:"skills"`
	Location            string       `json:"location,omitempty"`
	YearsOfExperience   int          `json:"yearsOfExperience,omitempty"`
	Phone               string       `json:"phone,omitempty"`
	Website             string       `json:"website,omitempty"`
	Availability        string       `json:"availability,omitempty"`
	SponsorshipRequired string       `json:"sponsorshipRequired"`
	SponsorshipComments string       `json:"sponsorshipComments,omitempty"`
	Social              ProfileLinks `json:"social"`
	Date                time.Time    `json:"date"`
}

type ProfileLinks struct {
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type ProfileInput struct {
	Title               string       `json:"title" binding:"omitempty,max=200"`
	Bio                 string       `json:"bio" binding:"omitempty,max=5000"`
	Headline            string       `json:"headline" binding:"omitempty,max=200"`
	Summary             string       `json:"summary" binding:"omitempty,max=5000"`
	Skills              SkillList    `json:"skills"`
	Location            string       `json:"location" binding:"omitempty,max=200"`
	YearsOfExperience   *int         `json:"yearsOfExperience" binding:"omitempty,min=0,max=80"`
	Phone               string       `json:"phone" binding:"omitempty,max=40"`
	Website             string       `json:"website" binding:"omitempty,url"`
	Availability        string       `json:"availability" binding:"omitempty,max=100"`
	SponsorshipRequired string       `json:"sponsorshipRequired" binding:"omitempty,oneof=yes no"`
	SponsorshipComments string       `json:"sponsorshipComments" binding:"omitempty,max=2000"`
	Social              ProfileLinks `json:"social"`
}

func (in ProfileInput) ApplyTo(p *Profile) {
	if in.Title != "" {
		p.Title = strings.TrimSpace(in.Title)
	}
	if in.Bio != "" {
		p.Bio = strings.TrimSpace(in.Bio)
	}
	if in.Headline != "" {
		p.Headline = strings.TrimSpace(in.Headline)
	}
	if in.Summary != "" {
		p.Summary = strings.TrimSpace(in.Summary)
	}
	if len(in.Skills) > 0 {
		p.Skills = []string(in.Skills)
	}
	if in.Location != "" {
		p.Location = strings.TrimSpace(in.Location)
	}
	if in.YearsOfExperience != nil && *in.YearsOfExperience != 0 {
		p.YearsOfExperience = *in.YearsOfExperience
	}
	if in.Phone != "" {
		p.Phone = strings.TrimSpace(in.Phone)
	}
	if in.Website != "" {
		p.Website = in.Website
	}
	if in.Availability != "" {
		p.Availability = in.Availability
	}
	if in.SponsorshipRequired != "" {
		p.SponsorshipRequired = in.SponsorshipRequired
	}
	if in.SponsorshipComments != "" {
		p.SponsorshipComments = strings.TrimSpace(in.SponsorshipComments)
	}
	// social is rebuilt from the request on every write
	p.Social = in.Social
}

type ProfileRepository interface {
	// Upsert inserts or replaces the profile keyed by user id.
	Upsert(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
}

type ProfileUsecase interface {
	ListProfiles(ctx context.Context) ([]Profile, error)
	UpsertProfile(ctx context.Context, userID string, in ProfileInput) (*Profile, error)
	GetMyProfile(ctx context.Context, userID string) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
}
