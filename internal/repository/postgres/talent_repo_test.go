package postgres

import (
	"testing"

	"talent-pool-backend/internal/domain"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestBuildTalentSearchQuery(t *testing.T) {
	years := 3
	open := false

	tests := []struct {
		name      string
		filter    domain.TalentSearchFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filters",
			filter:    domain.TalentSearchFilter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "skills and years",
			filter:    domain.TalentSearchFilter{Skills: []string{"python", "go"}, YearsOfExperience: &years},
			wantWhere: " WHERE t.skills && $1::text[] AND t.years_of_experience >= $2",
			wantArgs:  []any{pq.Array([]string{"python", "go"}), 3},
		},
		{
			name: "country availability open",
			filter: domain.TalentSearchFilter{
				Country:      "Kenya",
				Availability: "immediate",
				IsOpenToWork: &open,
			},
			wantWhere: " WHERE t.country = $1 AND t.availability = $2 AND t.is_open_to_work = $3",
			wantArgs:  []any{"Kenya", "immediate", false},
		},
		{
			name:      "keyword is escaped",
			filter:    domain.TalentSearchFilter{Keyword: " 100%_go "},
			wantWhere: " WHERE (t.headline ILIKE $1 OR t.biography ILIKE $1 OR t.resume_text ILIKE $1)",
			wantArgs:  []any{`%100\%\_go%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildTalentSearchQuery(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestTalentSearchOrderAndPaging(t *testing.T) {
	years := 3
	filter := domain.TalentSearchFilter{Skills: []string{"python", "go"}, YearsOfExperience: &years, Page: 2, Limit: 10}

	where, args := buildTalentSearchQuery(filter)
	page, pageArgs := talentSearchPage(filter, len(args))

	assert.Equal(t,
		" WHERE t.skills && $1::text[] AND t.years_of_experience >= $2"+
			" ORDER BY t.profile_completeness DESC, t.created_at DESC LIMIT $3 OFFSET $4",
		where+page)
	assert.Equal(t, []any{10, 10}, pageArgs)

	page, pageArgs = talentSearchPage(domain.TalentSearchFilter{Page: 1, Limit: 25}, 0)
	assert.Equal(t, " ORDER BY t.profile_completeness DESC, t.created_at DESC LIMIT $1 OFFSET $2", page)
	assert.Equal(t, []any{25, 0}, pageArgs)
}

func TestToJSONB(t *testing.T) {
	var missing *domain.ResumeMeta
	got, err := toJSONB(missing)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = toJSONB([]domain.EducationEntry{})
	assert.NoError(t, err)
	assert.Equal(t, "[]", *got)
}
