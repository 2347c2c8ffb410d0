package myauth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MarcGrol/marketplace/lib/myerrors"
)

const CookieName = "marketplace-token"

type Session struct {
	UserID string
	Email  string
}

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Authenticator interface {
	Authenticate(r *http.Request) (Session, error)
}

type jwtAuthenticator struct {
	secret []byte
	issuer string
}

func New(secret string, issuer string) *jwtAuthenticator {
	return &jwtAuthenticator{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Authenticate accepts a bearer token or the session cookie
func (a *jwtAuthenticator) Authenticate(r *http.Request) (Session, error) {
	raw := ""
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		raw = strings.TrimPrefix(auth, "Bearer ")
	} else if cookie, err := r.Cookie(CookieName); err == nil {
		raw = cookie.Value
	}
	if raw == "" {
		return Session{}, myerrors.NewAuthenticationError(fmt.Errorf("missing bearer token"))
	}

	parsed := claims{}
	token, err := jwt.ParseWithClaims(raw, &parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithLeeway(30*time.Second), jwt.WithIssuer(a.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Session{}, myerrors.NewAuthenticationError(fmt.Errorf("invalid token"))
	}
	if parsed.Subject == "" {
		return Session{}, myerrors.NewAuthenticationError(fmt.Errorf("token without subject"))
	}

	return Session{
		UserID: parsed.Subject,
		Email:  parsed.Email,
	}, nil
}

// IssueToken signs a session token. Login itself lives in the cms.
func (a *jwtAuthenticator) IssueToken(session Session, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: session.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(a.secret)
}
