package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookieName = "session"

type SessionClaims struct {
	GameSessionID string `json:"game_session_id"`
	jwt.RegisteredClaims
}

func NewSessionClaims(gameSessionID string, lifetime time.Duration) *SessionClaims {
	return &SessionClaims{
		GameSessionID: gameSessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

// Cookies signs and reads the browser session cookie carrying the game
// session id.
type Cookies struct {
	Secure        bool
	SameSite      http.SameSite
	secret        []byte
	signingMethod jwt.SigningMethod
	lifetime      time.Duration
}

func NewCookies(warn func(args ...any)) *Cookies {
	secret, ok := os.LookupEnv("SESSION_SECRET")
	if !ok {
		secret = "dev-secret-key"
		warn("SESSION_SECRET not set, using the development secret")
	}

	secure := getEnv("COOKIES_SECURE", "0") != "0"

	sameSite := http.SameSiteLaxMode
	switch strings.ToUpper(getEnv("COOKIES_SAMESITE", "LAX")) {
	case "DEFAULT":
		sameSite = http.SameSiteDefaultMode
	case "LAX":
		sameSite = http.SameSiteLaxMode
	case "STRICT":
		sameSite = http.SameSiteStrictMode
	case "NONE":
		sameSite = http.SameSiteNoneMode
	}

	return &Cookies{
		Secure:        secure,
		SameSite:      sameSite,
		secret:        []byte(secret),
		signingMethod: jwt.GetSigningMethod("HS256"),
		lifetime:      24 * time.Hour,
	}
}

func (c *Cookies) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(c.signingMethod, claims).SignedString(c.secret)
}

func (c *Cookies) Refresh(w http.ResponseWriter, gameSessionID string) error {
	token, err := c.Sign(NewSessionClaims(gameSessionID, c.lifetime))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Path:     "/",
		Value:    token,
		Expires:  time.Now().Add(c.lifetime),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	return nil
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Path:     "/",
		Value:    "delete",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *Cookies) ParseSessionClaims(r *http.Request) (*SessionClaims, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, err
	}
	token, err := jwt.ParseWithClaims(
		cookie.Value,
		&SessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
