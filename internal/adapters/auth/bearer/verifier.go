package bearer

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"litter-tracker/internal/platform/httpclient"
	"litter-tracker/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("bearer verifier not configured")
	ErrUnauthorized  = errors.New("bearer token invalid")
	ErrUpstream      = errors.New("jwks fetch failed")
)

// Config del verificador de tokens.
// Issuer y Audience normalmente vienen de env vars en el servicio que lo instancie.
type Config struct {
	Issuer   string
	Audience string

	// Opcional: URL del JWKS. Si está vacío se deriva del issuer
	// (<issuer>/.well-known/jwks.json).
	JWKSURL string

	// Timeout HTTP para el fetch del JWKS.
	Timeout time.Duration
}

// Verifier valida tokens RS256 contra el JWKS del issuer.
// Las claves se cargan lazy en el primer Verify y se cachean; si el set
// rota hay que reiniciar el proceso (suficiente para este servicio).
type Verifier struct {
	issuer   string
	audience string
	jwksURL  string
	client   *httpclient.Client

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
}

func NewVerifier(cfg Config) *Verifier {
	issuer := strings.TrimRight(strings.TrimSpace(cfg.Issuer), "/")

	jwksURL := strings.TrimSpace(cfg.JWKSURL)
	if jwksURL == "" && issuer != "" {
		jwksURL = issuer + "/.well-known/jwks.json"
	}

	return &Verifier{
		issuer:   issuer,
		audience: strings.TrimSpace(cfg.Audience),
		jwksURL:  jwksURL,
		client:   httpclient.New(cfg.Timeout),
	}
}

func (v *Verifier) IsConfigured() bool {
	return v != nil && v.issuer != "" && v.jwksURL != ""
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify implementa auth.AuthVerifier.
func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if !v.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.publicKey(ctx, kid)
	}, opts...)
	if err != nil {
		if errors.Is(err, ErrUpstream) {
			return auth.Claims{}, err
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, ErrUnauthorized
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", ErrUnauthorized)
	}

	return auth.Claims{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}

func (v *Verifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	v.mu.RUnlock()
	if ok {
		return key, nil
	}

	if err := v.fetchKeys(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	key, ok = v.keys[kid]
	v.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}

type jwksDocument struct {
	Keys []struct {
		Kty string `json:"kty"`
		Kid string `json:"kid"`
		Use string `json:"use"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (v *Verifier) fetchKeys(ctx context.Context) error {
	var doc jwksDocument
	if err := v.client.DoJSON(ctx, "GET", v.jwksURL, nil, nil, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := rsaKeyFromJWK(k.N, k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: jwks has no usable RSA keys", ErrUpstream)
	}

	v.mu.Lock()
	v.keys = keys
	v.mu.Unlock()
	return nil
}

func rsaKeyFromJWK(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("invalid modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("invalid exponent: %w", err)
	}

	exp := 0
	for _, b := range eb {
		exp = exp<<8 | int(b)
	}
	if exp <= 0 {
		return nil, errors.New("invalid exponent value")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: exp,
	}, nil
}
