package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT payload. Subject carries the user id.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer. A ttl of zero issues tokens without expiry.
func NewTokenIssuer(key, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{key: []byte(key), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue signs a token for the given subject.
func (t *TokenIssuer) Issue(subject, role string) (string, error) {
	if subject == "" {
		return "", errors.New("subject required")
	}
	now := t.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   t.issuer,
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

// Parse validates a token and returns claims.
func (t *TokenIssuer) Parse(tokenStr string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return t.key, nil
	}, opts...)
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return Claims{}, errors.New("token has no subject")
	}
	return *claims, nil
}
