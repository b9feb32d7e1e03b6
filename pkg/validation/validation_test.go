package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type registerSample struct {
	FirstName string `json:"firstName" binding:"required" validate:"required,valid_name"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"omitempty,oneof=talent recruiter admin"`
	Headline  string `json:"headline" validate:"no_emoji"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := validator.New()
	RegisterValidators(v)

	err := v.Struct(registerSample{
		FirstName: "R2D2",
		Email:     "nope",
		Password:  "123",
		Role:      "owner",
		Headline:  "Gopher \U0001F600",
	})

	assert.Equal(t, []string{
		"firstName may only contain letters, spaces and . ' -",
		"Please include a valid email",
		"password must be at least 6 characters",
		"role must be one of: talent, recruiter, admin",
		"headline must not contain emoji",
	}, FormatValidationErrors(err))
}

func TestFormatJSONErrors(t *testing.T) {
	var dst struct {
		Years int `json:"yearsOfExperience"`
	}
	err := json.Unmarshal([]byte(`{"yearsOfExperience":"three"}`), &dst)
	assert.Equal(t, []string{"yearsOfExperience: invalid type, expected int"}, FormatValidationErrors(err))

	err = json.Unmarshal([]byte(`{`), &dst)
	assert.Equal(t, []string{"Malformed JSON body"}, FormatValidationErrors(err))
}
