package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin manager user"`
	Title string `json:"title" validate:"max=10"`
	Count int    `json:"count" validate:"omitempty,gte=1,lte=24"`
}

func TestValidatePasses(t *testing.T) {
	v := New()
	err := v.Validate(&sampleRequest{Email: "a@b.com", Role: "admin", Count: 3})
	assert.NoError(t, err)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(&sampleRequest{})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "email")
	assert.NotContains(t, vErr.Errors, "Email")
	assert.Equal(t, "This field is required", vErr.Errors["email"])
}

func TestValidateMessages(t *testing.T) {
	v := New()
	err := v.Validate(&sampleRequest{
		Email: "not-an-email",
		Role:  "root",
		Title: "this title is far too long",
		Count: 99,
	})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Equal(t, "Must be one of: admin, manager, user", vErr.Errors["role"])
	assert.Equal(t, "Must be at most 10 items/characters long", vErr.Errors["title"])
	assert.Equal(t, "Must be less than or equal to 24", vErr.Errors["count"])
}

func TestValidationErrorString(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{"email": "This field is required"}}
	assert.Contains(t, err.Error(), "Validation failed")
	assert.Contains(t, err.Error(), "field 'email'")
}
