package postgres

import (
	"context"
	"errors"
	"fmt"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type recruiterRepo struct {
	db *pgxpool.Pool
}

func NewRecruiterRepository(db *pgxpool.Pool) domain.RecruiterRepository {
	return &recruiterRepo{db: db}
}

func (r *recruiterRepo) Create(ctx context.Context, p *domain.RecruiterProfile) error {
	args, err := recruiterWriteArgs(p)
	if err != nil {
		return apperror.Internal(err)
	}

	query := `INSERT INTO recruiter_profiles (user_id, company, position, industry, city, state, country,
		company_description, company_website, company_logo, company_logo_path, shortlist, recent_searches)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13::jsonb)
		RETURNING id, created_at, updated_at`
	err = r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("Recruiter profile already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *recruiterRepo) Update(ctx context.Context, p *domain.RecruiterProfile) error {
	args, err := recruiterWriteArgs(p)
	if err != nil {
		return apperror.Internal(err)
	}

	query := `UPDATE recruiter_profiles SET company = $2, position = $3, industry = $4, city = $5, state = $6,
		country = $7, company_description = $8, company_website = $9, company_logo = $10,
		company_logo_path = $11, shortlist = $12::jsonb, recent_searches = $13::jsonb, updated_at = NOW()
		WHERE user_id = $1
		RETURNING id, updated_at`
	err = r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		if errors.Is(notFound(err), domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return apperror.Internal(err)
	}
	return nil
}

func recruiterWriteArgs(p *domain.RecruiterProfile) ([]any, error) {
	if p.Shortlist == nil {
		p.Shortlist = []domain.ShortlistEntry{}
	}
	if p.RecentSearches == nil {
		p.RecentSearches = []domain.RecentSearch{}
	}

	shortlist, err := toJSONB(p.Shortlist)
	if err != nil {
		return nil, err
	}
	searches, err := toJSONB(p.RecentSearches)
	if err != nil {
		return nil, err
	}

	return []any{
		p.UserID, p.Company, p.Position, p.Industry, p.Location.City, p.Location.State, p.Location.Country,
		p.CompanyDescription, p.CompanyWebsite, p.CompanyLogo, p.CompanyLogoPath, shortlist, searches,
	}, nil
}

func (r *recruiterRepo) GetByUserID(ctx context.Context, userID string) (*domain.RecruiterProfile, error) {
	query := `SELECT r.id, r.user_id, r.company, r.position, r.industry, r.city, r.state, r.country,
		r.company_description, r.company_website, r.company_logo, r.company_logo_path, r.shortlist, r.recent_searches,
		r.created_at, r.updated_at, u.first_name, u.last_name, u.email
		FROM recruiter_profiles r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1`

	var (
		p                   domain.RecruiterProfile
		owner               domain.UserSummary
		shortlist, searches []byte
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Company, &p.Position, &p.Industry, &p.Location.City, &p.Location.State,
		&p.Location.Country, &p.CompanyDescription, &p.CompanyWebsite, &p.CompanyLogo, &p.CompanyLogoPath,
		&shortlist, &searches,
		&p.CreatedAt, &p.UpdatedAt, &owner.FirstName, &owner.LastName, &owner.Email,
	)
	if err != nil {
		return nil, notFound(err)
	}

	if err := fromJSONB(shortlist, &p.Shortlist); err != nil {
		return nil, err
	}
	if err := fromJSONB(searches, &p.RecentSearches); err != nil {
		return nil, err
	}
	owner.ID = p.UserID
	p.User = &owner
	return &p, nil
}

// GetShortlist expands shortlist entries in stored order. Entries whose talent
// profile is gone keep a nil Talent.
func (r *recruiterRepo) GetShortlist(ctx context.Context, userID string) ([]domain.ShortlistedTalent, error) {
	query := `SELECT e.entry, t.id, t.headline, t.city, t.state, t.country, t.skills,
		t.years_of_experience, t.profile_completeness, u.id, u.first_name, u.last_name
		FROM recruiter_profiles r
		CROSS JOIN LATERAL jsonb_array_elements(r.shortlist) WITH ORDINALITY AS e(entry, ord)
		LEFT JOIN talent_profiles t ON t.id::text = e.entry->>'talent'
		LEFT JOIN users u ON u.id = t.user_id
		WHERE r.user_id = $1
		ORDER BY e.ord`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		if errors.Is(notFound(err), domain.ErrNotFound) {
			return []domain.ShortlistedTalent{}, nil
		}
		return nil, fmt.Errorf("query shortlist: %w", err)
	}
	defer rows.Close()

	result := []domain.ShortlistedTalent{}
	for rows.Next() {
		item, err := scanShortlisted(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func scanShortlisted(row pgx.Row) (*domain.ShortlistedTalent, error) {
	var (
		raw                          []byte
		talentID, headline           *string
		city, state, country         *string
		skills                       []string
		years, completeness          *int
		ownerID, firstName, lastName *string
	)
	err := row.Scan(&raw, &talentID, &headline, &city, &state, &country, pq.Array(&skills),
		&years, &completeness, &ownerID, &firstName, &lastName)
	if err != nil {
		return nil, fmt.Errorf("scan shortlist: %w", err)
	}

	var entry domain.ShortlistEntry
	if err := fromJSONB(raw, &entry); err != nil {
		return nil, err
	}

	item := &domain.ShortlistedTalent{
		ID:        entry.ID,
		Notes:     entry.Notes,
		DateAdded: entry.DateAdded,
	}
	if talentID != nil {
		if skills == nil {
			skills = []string{}
		}
		item.Talent = &domain.TalentSummary{
			ID:                  *talentID,
			Headline:            deref(headline),
			Location:            domain.Location{City: deref(city), State: deref(state), Country: deref(country)},
			Skills:              skills,
			YearsOfExperience:   derefInt(years),
			ProfileCompleteness: derefInt(completeness),
		}
		if ownerID != nil {
			item.Talent.User = &domain.UserSummary{ID: *ownerID, FirstName: deref(firstName), LastName: deref(lastName)}
		}
	}
	return item, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
