// Package auth issues the anonymous shopper sessions that carts and
// checkouts are keyed by.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const RoleShopper = "shopper"

type Claims struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type Session struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "auth: random session id")
	}
	return "sess_" + hex.EncodeToString(b), nil
}

// Issue starts a new session.
func (i *Issuer) Issue() (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	now := i.now()
	expires := now.Add(i.ttl)
	claims := Claims{
		SessionID: id,
		Role:      RoleShopper,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, errors.Wrap(err, "auth: sign session token")
	}
	return &Session{SessionID: id, Token: token, ExpiresAt: expires.UTC()}, nil
}

// Parse verifies token and returns its claims.
func (i *Issuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, errors.Wrap(err, "auth: invalid session token")
	}
	if claims.SessionID == "" {
		return nil, errors.New("auth: token carries no session")
	}
	return claims, nil
}

// CreateSession handles POST /auth/session.
func CreateSession(issuer *Issuer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := issuer.Issue()
		if err != nil {
			log.Error("issuing session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}
		c.JSON(http.StatusOK, session)
	}
}
