package bearer

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWKSServer(t *testing.T, key *rsa.PrivateKey, kid string) *httptest.Server {
	t.Helper()

	pub := key.Public().(*rsa.PublicKey)
	doc := map[string]any{
		"keys": []map[string]string{
			{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/jwks.json" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.Claims) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	signed, err := tok.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerify_ValidToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, key, "key-1")
	v := NewVerifier(Config{Issuer: srv.URL, Audience: "litter-tracker"})

	token := signToken(t, key, "key-1", tokenClaims{
		Email: "ana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    srv.URL,
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{"litter-tracker"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestVerify_RejectsBadTokens(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, key, "key-1")
	v := NewVerifier(Config{Issuer: srv.URL, Audience: "litter-tracker"})

	base := jwt.RegisteredClaims{
		Issuer:    srv.URL,
		Subject:   "user-123",
		Audience:  jwt.ClaimStrings{"litter-tracker"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	t.Run("expired", func(t *testing.T) {
		c := base
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := v.Verify(context.Background(), signToken(t, key, "key-1", c))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := base
		c.Issuer = "https://other.example.com"
		_, err := v.Verify(context.Background(), signToken(t, key, "key-1", c))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong audience", func(t *testing.T) {
		c := base
		c.Audience = jwt.ClaimStrings{"another-app"}
		_, err := v.Verify(context.Background(), signToken(t, key, "key-1", c))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown kid", func(t *testing.T) {
		_, err := v.Verify(context.Background(), signToken(t, key, "key-2", base))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), signToken(t, other, "key-1", base))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("missing sub", func(t *testing.T) {
		c := base
		c.Subject = ""
		_, err := v.Verify(context.Background(), signToken(t, key, "key-1", c))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestVerify_NotConfigured(t *testing.T) {
	v := NewVerifier(Config{})
	_, err := v.Verify(context.Background(), "whatever")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
