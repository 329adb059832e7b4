package auth

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"attendtrack/internal/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// brokenUsers fails every lookup.
type brokenUsers struct{ err error }

func (b brokenUsers) GetByUsername(context.Context, string) (*users.User, error) {
	return nil, b.err
}

var testHasher = NewHasher(bcrypt.MinCost)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("k1", "attendance-api", time.Minute)
	tok, err := issuer.Issue("42", "admin")
	require.NoError(t, err)

	claims, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestTokenWithoutTTLNeverExpires(t *testing.T) {
	issuer := NewTokenIssuer("k1", "attendance-api", 0)
	tok, err := issuer.Issue("1", "admin")
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	claims, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestTokenRejections(t *testing.T) {
	issuer := NewTokenIssuer("k1", "attendance-api", time.Minute)
	good, err := issuer.Issue("1", "admin")
	require.NoError(t, err)

	otherKey, err := NewTokenIssuer("k2", "attendance-api", time.Minute).Issue("1", "admin")
	require.NoError(t, err)
	otherIssuer, err := NewTokenIssuer("k1", "someone-else", time.Minute).Issue("1", "admin")
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1", Issuer: "attendance-api"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	expiring := NewTokenIssuer("k1", "attendance-api", time.Minute)
	expiring.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiring.Issue("1", "admin")
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"other key":    otherKey,
		"other issuer": otherIssuer,
		"alg none":     unsigned,
		"expired":      expired,
		"garbage":      "not.a.jwt",
		"tampered":     good[:len(good)-2] + "xx",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Parse(tok)
			assert.Error(t, err)
		})
	}

	_, err = issuer.Issue("", "admin")
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	store := users.NewMemoryStore()
	hash, err := testHasher.Hash("s3cret")
	require.NoError(t, err)
	_, err = store.CreateIfAbsent(context.Background(), &users.User{Type: "admin", Username: "admin", PasswordHash: hash})
	require.NoError(t, err)

	tokens := NewTokenIssuer("k", "attendance-api", time.Minute)
	a := NewAuthenticator(store, testHasher, tokens)

	tok, err := a.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)

	for _, tc := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"nobody", "s3cret"},
		{"", "s3cret"},
		{"admin", ""},
	} {
		_, err := a.Login(context.Background(), tc.user, tc.pass)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "%s/%s", tc.user, tc.pass)
	}
}

func TestLoginPropagatesStoreErrors(t *testing.T) {
	a := NewAuthenticator(brokenUsers{err: errors.New("connection refused")}, testHasher, NewTokenIssuer("k", "", 0))

	_, err := a.Login(context.Background(), "admin", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestRandomSecret(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s, err := RandomSecret(BootstrapSecretLength)
		require.NoError(t, err)
		assert.Regexp(t, `^[A-Za-z0-9]{12}$`, s)
		seen[s] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestBootstrapCreatesAdminOnce(t *testing.T) {
	store := users.NewMemoryStore()
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	admin := AdminAccount{Username: "admin", Email: "admin@example.com", FullName: "Administrator"}

	created, err := Bootstrap(context.Background(), store, testHasher, admin, logger)
	require.NoError(t, err)
	assert.True(t, created)

	m := regexp.MustCompile(`username: admin, password: ([A-Za-z0-9]{12})`).FindStringSubmatch(buf.String())
	require.Len(t, m, 2, buf.String())

	u, err := store.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "admin", u.Type)
	assert.Equal(t, "system", u.SubmittedBy)
	assert.NotEqual(t, m[1], u.PasswordHash)
	assert.True(t, testHasher.Matches(u.PasswordHash, m[1]))

	// a restart must not create or log again
	buf.Reset()
	created, err = Bootstrap(context.Background(), store, testHasher, admin, logger)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, buf.String())
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestBootstrapLosingRaceDoesNotLog(t *testing.T) {
	store := racingStore{}
	var buf bytes.Buffer

	created, err := Bootstrap(context.Background(), store, testHasher, AdminAccount{Username: "admin"}, log.New(&buf, "", 0))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, buf.String())
}

// racingStore reports an empty store but another writer always wins the insert.
type racingStore struct{}

func (racingStore) Count(context.Context) (int64, error) { return 0, nil }

func (racingStore) CreateIfAbsent(context.Context, *users.User) (bool, error) {
	return false, nil
}

func TestRequireBearer(t *testing.T) {
	tokens := NewTokenIssuer("k", "attendance-api", time.Minute)
	good, err := tokens.Issue("9", "admin")
	require.NoError(t, err)
	foreign, err := NewTokenIssuer("other", "attendance-api", time.Minute).Issue("9", "admin")
	require.NoError(t, err)

	r := gin.New()
	reached := false
	r.GET("/p", RequireBearer(tokens), func(c *gin.Context) {
		reached = true
		c.String(http.StatusOK, Identity(c))
	})

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"none", "", http.StatusUnauthorized},
		{"basic", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"foreign key", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid", "Bearer " + good, http.StatusOK},
		{"lowercase scheme", "bearer " + good, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.code == http.StatusOK, reached)
			if tc.code == http.StatusOK {
				assert.Equal(t, "9", strings.TrimSpace(w.Body.String()))
			}
		})
	}
}
