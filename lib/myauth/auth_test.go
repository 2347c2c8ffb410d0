package myauth

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcGrol/marketplace/lib/myerrors"
)

func TestAuthenticate(t *testing.T) {
	sut := New("my-secret", "marketplace")
	session := Session{UserID: "user_1", Email: "buyer@example.com"}

	t.Run("Bearer token", func(t *testing.T) {
		// given
		token, err := sut.IssueToken(session, time.Now(), time.Hour)
		require.NoError(t, err)
		request, _ := http.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+token)

		// when
		got, err := sut.Authenticate(request)

		// then
		assert.NoError(t, err)
		assert.Equal(t, session, got)
	})

	t.Run("Cookie token", func(t *testing.T) {
		// given
		token, err := sut.IssueToken(session, time.Now(), time.Hour)
		require.NoError(t, err)
		request, _ := http.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: CookieName, Value: token})

		// when
		got, err := sut.Authenticate(request)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "user_1", got.UserID)
	})

	t.Run("Missing token", func(t *testing.T) {
		request, _ := http.NewRequest(http.MethodGet, "/", nil)

		_, err := sut.Authenticate(request)

		assert.Equal(t, myerrors.CodeUnauthorized, myerrors.GetCode(err))
	})

	t.Run("Expired token", func(t *testing.T) {
		// given
		token, err := sut.IssueToken(session, time.Now().Add(-2*time.Hour), time.Hour)
		require.NoError(t, err)
		request, _ := http.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+token)

		// when
		_, err = sut.Authenticate(request)

		// then
		assert.Equal(t, http.StatusUnauthorized, myerrors.GetHTTPStatus(err))
	})

	t.Run("Token without expiry", func(t *testing.T) {
		// given
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
			Email: session.Email,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: session.UserID,
				Issuer:  "marketplace",
			},
		}).SignedString([]byte("my-secret"))
		require.NoError(t, err)
		request, _ := http.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+token)

		// when
		_, err = sut.Authenticate(request)

		// then
		assert.Equal(t, http.StatusUnauthorized, myerrors.GetHTTPStatus(err))
	})

	t.Run("Token signed with other secret", func(t *testing.T) {
		// given
		token, err := New("other-secret", "marketplace").IssueToken(session, time.Now(), time.Hour)
		require.NoError(t, err)
		request, _ := http.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+token)

		// when
		_, err = sut.Authenticate(request)

		// then
		assert.Equal(t, http.StatusUnauthorized, myerrors.GetHTTPStatus(err))
	})
}
