package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avocadoapp/identity/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("passes with valid input", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.RequiredString("username", "alice"),
			validator.ValidEmail("email", "alice@example.com"),
			validator.MinLenString("password", "longenough1", 8),
			validator.ValidDate("birthdate", "2000-01-01", "2006-01-02"),
		)
		require.NoError(t, err)
	})

	t.Run("collects all failures", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.RequiredString("username", "  "),
			validator.ValidEmail("email", "not-an-email"),
			validator.MinLenString("password", "short", 8),
		)
		require.Error(t, err)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 3)
		assert.True(t, verrs.Has("username"))
		assert.True(t, verrs.Has("email"))
		assert.True(t, verrs.Has("password"))
		assert.False(t, verrs.Has("birthdate"))
	})
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a@b.co", "user.name+tag@sub.example.com", "123@twitter.com"}
	for _, e := range valid {
		assert.NoError(t, validator.Apply(validator.ValidEmail("email", e)), e)
	}

	invalid := []string{"", "plain", "@nodomain.com", "user@", "two@@example.com", "sp ace@example.com"}
	for _, e := range invalid {
		assert.Error(t, validator.Apply(validator.ValidEmail("email", e)), e)
	}
}

func TestValidDate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(validator.ValidDate("birthdate", "1999-12-31", "2006-01-02")))
	assert.Error(t, validator.Apply(validator.ValidDate("birthdate", "31/12/1999", "2006-01-02")))
	assert.Error(t, validator.Apply(validator.ValidDate("birthdate", "2000-13-01", "2006-01-02")))
}
