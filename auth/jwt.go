package auth

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is who this client plays as.
type Identity struct {
	Name   string
	UserID string
	Token  string
}

// Header returns the dial headers carrying the bearer token, or nil without a token.
func (id Identity) Header() http.Header {
	if id.Token == "" {
		return nil
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+id.Token)
	return h
}

// ResolveIdentity reads the identity from tokenString.
//
// With baseURL set, the token is validated against baseURL's JWKS and issuer.
// Without it, the claims are read unverified: the server is the one that
// authenticates, the client only needs a display name.
func ResolveIdentity(baseURL, tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, nil
	}

	var claims jwt.MapClaims
	var err error
	if baseURL == "" {
		claims, err = parseUnverified(tokenString)
	} else {
		claims, err = validateToken(baseURL, tokenString)
	}
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		Name:   FirstNameFromClaims(claims),
		UserID: UserIDFromClaims(claims),
		Token:  tokenString,
	}, nil
}

func parseUnverified(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	return claims, nil
}

// validateToken validates a JWT using the JWKS published under baseURL and returns the claims.
func validateToken(baseURL, tokenString string) (jwt.MapClaims, error) {
	jwksURL := strings.TrimRight(baseURL, "/") + "/.well-known/jwks.json"

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	expectedIssuer := u.Scheme + "://" + u.Host

	jwks, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, jwks.Keyfunc,
		jwt.WithIssuer(expectedIssuer),
		jwt.WithValidMethods([]string{"EdDSA", "RS256", "ES256"}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// FirstNameFromClaims returns the first word of the "name" claim, or a fallback.
func FirstNameFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"name", "nickname", "preferred_username"} {
		name, _ := claims[key].(string)
		if parts := strings.Fields(name); len(parts) > 0 {
			return parts[0]
		}
	}
	return "Player"
}

// UserIDFromClaims returns the user id from claims ("sub" or "id").
func UserIDFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	return ""
}
