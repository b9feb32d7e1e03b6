package postgres

import (
	"context"
	"fmt"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

const profileSelect = `SELECT p.id, p.user_id, p.title, p.bio, p.headline, p.summary, p.skills, p.location,
	p.years_of_experience, p.phone, p.website, p.availability, p.sponsorship_required,
	p.sponsorship_comments, p.social, p.date, u.first_name, u.last_name, u.email, u.role
	FROM profiles p
	JOIN users u ON u.id = p.user_id`

func (r *profileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.SponsorshipRequired == "" {
		p.SponsorshipRequired = "no"
	}
	social, err := toJSONB(p.Social)
	if err != nil {
		return apperror.Internal(err)
	}

	query := `INSERT INTO profiles (user_id, title, bio, headline, summary, skills, location, years_of_experience,
		phone, website, availability, sponsorship_required, sponsorship_comments, social)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::jsonb)
		ON CONFLICT (user_id) DO UPDATE SET
			title = EXCLUDED.title, bio = EXCLUDED.bio, headline = EXCLUDED.headline,
			summary = EXCLUDED.summary, skills = EXCLUDED.skills, location = EXCLUDED.location,
			years_of_experience = EXCLUDED.years_of_experience, phone = EXCLUDED.phone,
			website = EXCLUDED.website, availability = EXCLUDED.availability,
			sponsorship_required = EXCLUDED.sponsorship_required,
			sponsorship_comments = EXCLUDED.sponsorship_comments, social = EXCLUDED.social
		RETURNING id, date`
	err = r.db.QueryRow(ctx, query,
		p.UserID, p.Title, p.Bio, p.Headline, p.Summary, pq.Array(p.Skills), p.Location, p.YearsOfExperience,
		p.Phone, p.Website, p.Availability, p.SponsorshipRequired, p.SponsorshipComments, social,
	).Scan(&p.ID, &p.Date)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, profileSelect+` WHERE p.user_id = $1`, userID))
}

func (r *profileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.Query(ctx, profileSelect+` ORDER BY p.date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p      domain.Profile
		owner  domain.UserSummary
		social []byte
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Bio, &p.Headline, &p.Summary, pq.Array(&p.Skills), &p.Location,
		&p.YearsOfExperience, &p.Phone, &p.Website, &p.Availability, &p.SponsorshipRequired,
		&p.SponsorshipComments, &social, &p.Date, &owner.FirstName, &owner.LastName, &owner.Email, &owner.Role,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if err := fromJSONB(social, &p.Social); err != nil {
		return nil, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	owner.ID = p.UserID
	p.User = &owner
	return &p, nil
}
