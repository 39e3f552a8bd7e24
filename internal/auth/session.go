package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultCookieName is the session cookie set on login and register.
const DefaultCookieName = "pl_session"

// SessionManager issues and validates HS256 session tokens carried in an
// HttpOnly cookie.
type SessionManager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessionManager creates a SessionManager.
// secret must be at least 32 characters for HS256 security.
func NewSessionManager(secret, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &SessionManager{
		secret:     []byte(secret),
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// sessionClaims keeps the user id in a "uid" claim.
type sessionClaims struct {
	jwt.RegisteredClaims
	UID string `json:"uid"`
}

// CookieName returns the name of the session cookie.
func (m *SessionManager) CookieName() string { return m.cookieName }

// IssueToken creates a signed token for userID.
func (m *SessionManager) IssueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UID: userID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a session token and returns its user id.
func (m *SessionManager) ValidateToken(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}

	userID, err := uuid.Parse(claims.UID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid uid: %w", err)
	}
	return userID, nil
}

// SessionCookie returns the cookie carrying token.
func (m *SessionManager) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie returns a cookie that removes the session on the client.
func (m *SessionManager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// UserFromRequest reads and validates the session cookie of r.
func (m *SessionManager) UserFromRequest(r *http.Request) (uuid.UUID, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return uuid.Nil, fmt.Errorf("no session cookie: %w", err)
	}
	return m.ValidateToken(c.Value)
}
