package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avocadoapp/identity/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Alice@Example.COM", "alice@example.com"},
		{"trims whitespace", "  bob@example.com \n", "bob@example.com"},
		{"collapses dots in local part", "a..b...c@example.com", "a.b.c@example.com"},
		{"strips boundary dots", ".alice.@example.com", "alice@example.com"},
		{"keeps domain dots", "a@sub.example.com", "a@sub.example.com"},
		{"invalid shape passes through", "not-an-email", "not-an-email"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.NormalizeEmail(tt.input))
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	got := sanitizer.Apply("  Mixed@Case.Org ", sanitizer.Trim, sanitizer.NormalizeEmail)
	assert.Equal(t, "mixed@case.org", got)
}

func TestSingleLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello avocado world", sanitizer.SingleLine("hello\n avocado\t\tworld"))
}
