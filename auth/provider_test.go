package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avocadoapp/identity/auth"
)

func TestNormalizeGoogle(t *testing.T) {
	t.Parallel()

	t.Run("verified email carried over", func(t *testing.T) {
		t.Parallel()

		id, err := auth.NormalizeGoogle(auth.GoogleProfile{
			ID:            "1001",
			Name:          "Ada Lovelace",
			Email:         "ada@example.com",
			VerifiedEmail: true,
			Picture:       "https://lh3.googleusercontent.com/a/photo.jpg",
		})
		require.NoError(t, err)

		assert.Equal(t, "google-1001", id.AccountID)
		assert.Equal(t, "Ada Lovelace", id.Username)
		assert.Equal(t, "ada@example.com", id.Email)
		assert.Equal(t, "https://lh3.googleusercontent.com/a/photo.jpg", id.AvatarURL)
		assert.Equal(t, auth.ProviderGoogle, id.Provider)
		assert.Equal(t, "1001", id.ProviderUserID)
	})

	t.Run("unverified email dropped", func(t *testing.T) {
		t.Parallel()

		id, err := auth.NormalizeGoogle(auth.GoogleProfile{
			ID:    "1002",
			Email: "unverified@example.com",
		})
		require.NoError(t, err)
		assert.Empty(t, id.Email)
	})

	t.Run("missing id rejected", func(t *testing.T) {
		t.Parallel()

		_, err := auth.NormalizeGoogle(auth.GoogleProfile{Email: "x@example.com"})
		require.ErrorIs(t, err, auth.ErrMissingProviderID)
	})
}

func TestNormalizeFacebook(t *testing.T) {
	t.Parallel()

	t.Run("avatar synthesized from id", func(t *testing.T) {
		t.Parallel()

		id, err := auth.NormalizeFacebook(auth.FacebookProfile{
			ID:    "5550001",
			Name:  "Grace Hopper",
			Email: "grace@example.com",
		})
		require.NoError(t, err)

		assert.Equal(t, "facebook-5550001", id.AccountID)
		assert.Equal(t, "https://graph.facebook.com/5550001/picture?type=large", id.AvatarURL)
		assert.Equal(t, auth.ProviderFacebook, id.Provider)
	})

	t.Run("missing id rejected", func(t *testing.T) {
		t.Parallel()

		_, err := auth.NormalizeFacebook(auth.FacebookProfile{Name: "Nobody"})
		require.ErrorIs(t, err, auth.ErrMissingProviderID)
	})
}

func TestNormalizeDiscord(t *testing.T) {
	t.Parallel()

	t.Run("avatar built from hash", func(t *testing.T) {
		t.Parallel()

		id, err := auth.NormalizeDiscord(auth.DiscordProfile{
			ID:       "9000",
			Username: "linus",
			Email:    "linus@example.com",
			Avatar:   "abcdef",
		})
		require.NoError(t, err)

		assert.Equal(t, "discord-9000", id.AccountID)
		assert.Equal(t, "https://cdn.discordapp.com/avatars/9000/abcdef.png", id.AvatarURL)
	})

	t.Run("no avatar hash leaves url empty", func(t *testing.T) {
		t.Parallel()

		id, err := auth.NormalizeDiscord(auth.DiscordProfile{ID: "9001", Username: "k"})
		require.NoError(t, err)
		assert.Empty(t, id.AvatarURL)
	})

	t.Run("missing id rejected", func(t *testing.T) {
		t.Parallel()

		_, err := auth.NormalizeDiscord(auth.DiscordProfile{Username: "ghost"})
		require.ErrorIs(t, err, auth.ErrMissingProviderID)
	})
}

func TestNormalizeTwitter(t *testing.T) {
	t.Parallel()

	t.Run("profile email preferred", func(t *testing.T) {
		t.Parallel()

		id, err := auth.NormalizeTwitter(auth.TwitterProfile{
			ID:        "777",
			Username:  "kathy",
			Email:     "kathy@example.com",
			AvatarURL: "https://pbs.twimg.com/profile_images/777/x.png",
		})
		require.NoError(t, err)

		assert.Equal(t, "twitter-777", id.AccountID)
		assert.Equal(t, "kathy@example.com", id.Email)
	})

	t.Run("withheld email gets placeholder", func(t *testing.T) {
		t.Parallel()

		id, err := auth.NormalizeTwitter(auth.TwitterProfile{ID: "778", Username: "anon"})
		require.NoError(t, err)
		assert.Equal(t, "778@twitter.com", id.Email)
	})

	t.Run("missing id rejected", func(t *testing.T) {
		t.Parallel()

		_, err := auth.NormalizeTwitter(auth.TwitterProfile{Username: "ghost"})
		require.ErrorIs(t, err, auth.ErrMissingProviderID)
	})
}
