package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avocadoapp/identity/pkg/cookie"
)

func TestManagerSet(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		rec := httptest.NewRecorder()
		m.Set(rec, "token", "abc")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "token", c.Name)
		assert.Equal(t, "abc", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.False(t, c.Secure)
	})

	t.Run("per-write options override defaults", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecure(true))
		rec := httptest.NewRecorder()
		m.Set(rec, "token", "abc", cookie.WithMaxAge(604800))

		c := rec.Result().Cookies()[0]
		assert.True(t, c.Secure)
		assert.Equal(t, 604800, c.MaxAge)
	})
}

func TestManagerGet(t *testing.T) {
	t.Parallel()

	m := cookie.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "abc"})

	got, err := m.Get(req, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	_, err = m.Get(req, "missing")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestManagerDelete(t *testing.T) {
	t.Parallel()

	m := cookie.New()
	rec := httptest.NewRecorder()
	m.Delete(rec, "token")

	c := rec.Result().Cookies()[0]
	assert.Equal(t, "token", c.Name)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}
