package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
}

func newIssuers(t *testing.T) (*Issuer, *Issuer) {
	t.Helper()
	customer, err := NewIssuer(DomainCustomer, "customer-secret", 24*time.Hour)
	require.NoError(t, err)
	admin, err := NewIssuer(DomainAdmin, "admin-secret", 8*time.Hour)
	require.NoError(t, err)
	return customer, admin
}

func TestIssueAndVerify(t *testing.T) {
	customer, _ := newIssuers(t)
	tok, err := customer.Issue(Identity{UserID: "u-1", Email: "a@b.c", Name: "Ann"})
	require.NoError(t, err)

	id, err := customer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, DomainCustomer, id.Domain)
	assert.Equal(t, "u-1", id.SubjectID())
	assert.Equal(t, "a@b.c", id.Email)
}

func TestTrustDomainsAreNotCrossAccepted(t *testing.T) {
	customer, admin := newIssuers(t)

	adminTok, err := admin.Issue(Identity{AdminID: "adm-1", Username: "admin"})
	require.NoError(t, err)
	_, err = customer.Verify(adminTok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	userTok, err := customer.Issue(Identity{UserID: "u-1"})
	require.NoError(t, err)
	_, err = admin.Verify(userTok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSameSecretDifferentAudienceRejected(t *testing.T) {
	customer, err := NewIssuer(DomainCustomer, "shared", time.Hour)
	require.NoError(t, err)
	admin, err := NewIssuer(DomainAdmin, "shared", time.Hour)
	require.NoError(t, err)

	tok, err := customer.Issue(Identity{UserID: "u-1"})
	require.NoError(t, err)
	_, err = admin.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	customer, _ := newIssuers(t)
	customer.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	tok, err := customer.Issue(Identity{UserID: "u-1"})
	require.NoError(t, err)

	customer.now = time.Now
	_, err = customer.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuerValidation(t *testing.T) {
	_, err := NewIssuer(DomainCustomer, "", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
	_, err = NewIssuer(DomainCustomer, "s", 0)
	assert.Error(t, err)
}

func TestRequireMiddleware(t *testing.T) {
	customer, admin := newIssuers(t)
	r := gin.New()
	r.GET("/me", Require(customer), func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id.SubjectID()})
	})

	good, _ := customer.Issue(Identity{UserID: "u-9"})
	adminTok, _ := admin.Issue(Identity{AdminID: "adm-1"})

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusForbidden},
		{"admin token", "Bearer " + adminTok, http.StatusForbidden},
		{"valid", "Bearer " + good, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.code, w.Code, w.Body.String())
			if tc.code == http.StatusOK {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "u-9", body["id"])
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123", 4)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "admin124"))
}
