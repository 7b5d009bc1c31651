package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	s, err := issuer.Issue()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.SessionID, "sess_"))

	claims, err := issuer.Parse(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.SessionID, claims.SessionID)
	assert.Equal(t, RoleShopper, claims.Role)

	_, err = NewIssuer("other", time.Hour).Parse(s.Token)
	assert.Error(t, err)

	other, err := issuer.Issue()
	require.NoError(t, err)
	assert.NotEqual(t, s.SessionID, other.SessionID)
}

func TestParse_Expired(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	s, err := issuer.Issue()
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(s.Token)
	assert.Error(t, err)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		SessionID:        "sess_x",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.Parse(token)
	assert.Error(t, err)
}

func TestCreateSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := NewIssuer("secret", time.Hour)
	r := gin.New()
	r.POST("/auth/session", CreateSession(issuer, zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/session", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var s Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	claims, err := issuer.Parse(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.SessionID, claims.SessionID)
}
