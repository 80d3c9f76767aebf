package auth

import (
	"context"
	"fmt"
	"strings"

	"relief/pkg/types"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// KeySource returns the signing keys published at a JWKS URL. *jwk.Cache satisfies it.
type KeySource interface {
	Lookup(ctx context.Context, u string) (jwk.Set, error)
}

// Claims are the identity fields read from a verified access token.
type Claims struct {
	Subject  string
	Username string
	Email    string
}

type Verifier struct {
	keys     KeySource
	jwksURL  string
	issuer   string
	clientID string
}

func JWKSURL(issuer string) string {
	return fmt.Sprintf("%s/.well-known/jwks.json", strings.TrimSuffix(issuer, "/"))
}

// NewJWKSCache builds a cache that keeps the issuer's key set fresh in the background.
func NewJWKSCache(ctx context.Context, issuer string) (*jwk.Cache, error) {
	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	if err := cache.Register(ctx, JWKSURL(issuer)); err != nil {
		return nil, fmt.Errorf("failed to register issuer jwks with cache: %w", err)
	}

	return cache, nil
}

func NewVerifier(keys KeySource, issuer, clientID string) *Verifier {
	return &Verifier{
		keys:     keys,
		jwksURL:  JWKSURL(issuer),
		issuer:   issuer,
		clientID: clientID,
	}
}

// Verify checks signature, expiry, issuer and audience of an access token.
// Every failure is reported as unauthenticated.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	set, err := v.keys.Lookup(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		return nil, types.Unauthenticated("invalid token")
	}

	// Cognito access tokens carry the app client in client_id rather than aud.
	if v.clientID != "" {
		var clientID string
		if err := token.Get("client_id", &clientID); err != nil || clientID != v.clientID {
			return nil, types.Unauthenticated("token was not issued for this client")
		}
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, types.Unauthenticated("token has no subject")
	}

	claims := &Claims{Subject: subject}
	_ = token.Get("username", &claims.Username)
	_ = token.Get("email", &claims.Email)

	return claims, nil
}
