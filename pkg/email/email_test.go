package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avocadoapp/identity/pkg/email"
	"github.com/avocadoapp/identity/pkg/logger"
)

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	valid := email.Message{To: "a@example.com", Subject: "s", BodyHTML: "<p>b</p>"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		msg  email.Message
	}{
		{"bad recipient", email.Message{To: "nope", Subject: "s", BodyHTML: "b"}},
		{"missing subject", email.Message{To: "a@example.com", BodyHTML: "b"}},
		{"missing body", email.Message{To: "a@example.com", Subject: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, tt.msg.Validate(), email.ErrSendFailed)
		})
	}
}

func TestNewPostmarkSender(t *testing.T) {
	t.Parallel()

	t.Run("rejects missing tokens", func(t *testing.T) {
		t.Parallel()
		_, err := email.NewPostmarkSender(email.Config{SenderEmail: "no-reply@example.com"})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("rejects invalid sender address", func(t *testing.T) {
		t.Parallel()
		_, err := email.NewPostmarkSender(email.Config{
			PostmarkServerToken:  "server",
			PostmarkAccountToken: "account",
			SenderEmail:          "not-an-address",
		})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	s := email.NewLogSender(logger.NewDiscard())
	require.NoError(t, s.Send(t.Context(), email.Message{
		To:       "a@example.com",
		Subject:  "Your email address was changed",
		BodyHTML: "<p>hello</p>",
	}))
	assert.Error(t, s.Send(t.Context(), email.Message{To: "bad"}))
}
