package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorNonblank(t *testing.T) {
	t.Parallel()
	v := NewValidator()

	type form struct {
		Text string `json:"text" validate:"required,nonblank"`
	}

	assert.NoError(t, v.Validate(form{Text: "hello"}))
	assert.Error(t, v.Validate(form{Text: ""}))
	assert.Error(t, v.Validate(form{Text: "   \t"}))
}

func TestValidatorUsesJSONTagNames(t *testing.T) {
	t.Parallel()
	v := NewValidator()

	type form struct {
		EmailAddress string `json:"email_address" validate:"required,email"`
	}

	err := v.Validate(form{EmailAddress: "nope"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email_address")
}
