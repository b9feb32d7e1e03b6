package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type talentRepo struct {
	db *pgxpool.Pool
}

func NewTalentRepository(db *pgxpool.Pool) domain.TalentRepository {
	return &talentRepo{db: db}
}

// talentSelect reads a profile with its owner. Callers append WHERE/ORDER.
const talentSelect = `SELECT t.id, t.user_id, t.headline, t.city, t.state, t.country, t.skills,
	t.years_of_experience, t.biography, t.education, t.work_experience, t.resume, t.resume_text,
	t.profile_views, t.profile_completeness, t.social_links, t.availability, t.is_open_to_work,
	t.created_at, t.updated_at, u.first_name, u.last_name, u.email
	FROM talent_profiles t
	JOIN users u ON u.id = t.user_id`

func (r *talentRepo) Create(ctx context.Context, p *domain.TalentProfile) error {
	p.RecomputeCompleteness()
	args, err := talentWriteArgs(p)
	if err != nil {
		return apperror.Internal(err)
	}

	query := `INSERT INTO talent_profiles (user_id, headline, city, state, country, skills,
		years_of_experience, biography, education, work_experience, resume, resume_text,
		profile_completeness, social_links, availability, is_open_to_work)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10::jsonb, $11::jsonb, $12, $13, $14::jsonb, $15, $16)
		RETURNING id, profile_views, created_at, updated_at`
	err = r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.ProfileViews, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("Talent profile already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

// Update writes every mutable column. profile_views is left to IncrementViews.
func (r *talentRepo) Update(ctx context.Context, p *domain.TalentProfile) error {
	p.RecomputeCompleteness()
	args, err := talentWriteArgs(p)
	if err != nil {
		return apperror.Internal(err)
	}

	query := `UPDATE talent_profiles SET headline = $2, city = $3, state = $4, country = $5, skills = $6,
		years_of_experience = $7, biography = $8, education = $9::jsonb, work_experience = $10::jsonb,
		resume = $11::jsonb, resume_text = $12, profile_completeness = $13, social_links = $14::jsonb,
		availability = $15, is_open_to_work = $16, updated_at = NOW()
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

func talentWriteArgs(p *domain.TalentProfile) ([]any, error) {
	if p.Education == nil {
		p.Education = []domain.EducationEntry{}
	}
	if p.WorkExperience == nil {
		p.WorkExperience = []domain.ExperienceEntry{}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}

	education, err := toJSONB(p.Education)
	if err != nil {
		return nil, err
	}
	experience, err := toJSONB(p.WorkExperience)
	if err != nil {
		return nil, err
	}
	resume, err := toJSONB(p.Resume)
	if err != nil {
		return nil, err
	}
	social, err := toJSONB(p.SocialLinks)
	if err != nil {
		return nil, err
	}
	return []any{
		p.UserID, p.Headline, p.Location.City, p.Location.State, p.Location.Country, pq.Array(p.Skills),
		p.YearsOfExperience, p.Biography, education, experience, resume, p.ResumeText,
		p.ProfileCompleteness, social, p.Availability, p.IsOpenToWork,
	}, nil
}

func (r *talentRepo) GetByID(ctx context.Context, id string) (*domain.TalentProfile, error) {
	return scanTalent(r.db.QueryRow(ctx, talentSelect+` WHERE t.id = $1`, id))
}

func (r *talentRepo) GetByUserID(ctx context.Context, userID string) (*domain.TalentProfile, error) {
	return scanTalent(r.db.QueryRow(ctx, talentSelect+` WHERE t.user_id = $1`, userID))
}

func (r *talentRepo) IncrementViews(ctx context.Context, id string) (*domain.TalentProfile, error) {
	var bumped string
	err := r.db.QueryRow(ctx,
		`UPDATE talent_profiles SET profile_views = profile_views + 1 WHERE id = $1 RETURNING id`, id,
	).Scan(&bumped)
	if err != nil {
		return nil, notFound(err)
	}
	return r.GetByID(ctx, bumped)
}

func (r *talentRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM talent_profiles WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		if errors.Is(notFound(err), domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *talentRepo) Search(ctx context.Context, filter domain.TalentSearchFilter) ([]domain.TalentProfile, int64, error) {
	where, args := buildTalentSearchQuery(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM talent_profiles t JOIN users u ON u.id = t.user_id` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count talent: %w", err)
	}

	page, pageArgs := talentSearchPage(filter, len(args))
	query := talentSelect + where + page
	args = append(args, pageArgs...)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search talent: %w", err)
	}
	defer rows.Close()

	talents := []domain.TalentProfile{}
	for rows.Next() {
		p, err := scanTalent(rows)
		if err != nil {
			return nil, 0, err
		}
		// search results only carry the owner's name
		p.User.Email = ""
		talents = append(talents, *p)
	}
	return talents, total, rows.Err()
}

// buildTalentSearchQuery returns the WHERE clause (empty or starting with a
// space) and its positional arguments.
func buildTalentSearchQuery(filter domain.TalentSearchFilter) (string, []any) {
	var conditions []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Skills) > 0 {
		conditions = append(conditions, fmt.Sprintf("t.skills && %s::text[]", next(pq.Array(filter.Skills))))
	}
	if filter.Country != "" {
		conditions = append(conditions, fmt.Sprintf("t.country = %s", next(filter.Country)))
	}
	if filter.YearsOfExperience != nil {
		conditions = append(conditions, fmt.Sprintf("t.years_of_experience >= %s", next(*filter.YearsOfExperience)))
	}
	if filter.Availability != "" {
		conditions = append(conditions, fmt.Sprintf("t.availability = %s", next(filter.Availability)))
	}
	if filter.IsOpenToWork != nil {
		conditions = append(conditions, fmt.Sprintf("t.is_open_to_work = %s", next(*filter.IsOpenToWork)))
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		p := next("%" + escapeLike(kw) + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(t.headline ILIKE %[1]s OR t.biography ILIKE %[1]s OR t.resume_text ILIKE %[1]s)", p))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// talentSearchPage returns the ordering and paging suffix. Placeholders
// continue after the argc arguments already bound by the WHERE clause.
func talentSearchPage(filter domain.TalentSearchFilter, argc int) (string, []any) {
	suffix := fmt.Sprintf(" ORDER BY t.profile_completeness DESC, t.created_at DESC LIMIT $%d OFFSET $%d", argc+1, argc+2)
	return suffix, []any{filter.Limit, filter.Offset()}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanTalent(row pgx.Row) (*domain.TalentProfile, error) {
	var (
		p                                     domain.TalentProfile
		owner                                 domain.UserSummary
		education, experience, resume, social []byte
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Headline, &p.Location.City, &p.Location.State, &p.Location.Country,
		pq.Array(&p.Skills), &p.YearsOfExperience, &p.Biography, &education, &experience, &resume,
		&p.ResumeText, &p.ProfileViews, &p.ProfileCompleteness, &social, &p.Availability, &p.IsOpenToWork,
		&p.CreatedAt, &p.UpdatedAt, &owner.FirstName, &owner.LastName, &owner.Email,
	)
	if err != nil {
		return nil, notFound(err)
	}

	if err := fromJSONB(education, &p.Education); err != nil {
		return nil, err
	}
	if err := fromJSONB(experience, &p.WorkExperience); err != nil {
		return nil, err
	}
	if err := fromJSONB(resume, &p.Resume); err != nil {
		return nil, err
	}
	if err := fromJSONB(social, &p.SocialLinks); err != nil {
		return nil, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}

	owner.ID = p.UserID
	p.User = &owner
	return &p, nil
}
