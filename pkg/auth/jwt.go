package auth

import (
	"log"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/getfitted/fitted/config"
)

const JwtAlg = "HS256"

// DefaultUserID identifies requests when auth is disabled. Single-tenant
// deployments run this way.
const DefaultUserID = "local"

// UserIDHeader selects the user on unauthenticated requests, for development
// against a multi-user wardrobe with auth disabled.
const UserIDHeader = "X-User-ID"

// GenerateJWT generates a JWT token for the given user using the configured
// secret. Requires that FITTED_AUTH_SECRET is set in the environment.
func GenerateJWT(cfg *config.Config, userID string) string {
	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		log.Fatal("Auth secret not set. Ensure FITTED_AUTH_SECRET is set in your environment.")
	}
	if userID == "" {
		userID = DefaultUserID
	}

	tokenAuth := jwtauth.New(JwtAlg, secret, nil)
	_, tokenString, err := tokenAuth.Encode(map[string]interface{}{"sub": userID})
	if err != nil {
		log.Fatal("Error generating auth token: ", err)
	}

	return tokenString
}

func JWTVerifier(cfg *config.Config) func(http.Handler) http.Handler {
	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		log.Fatal("Auth secret not set. Ensure FITTED_AUTH_SECRET is set in your environment.")
	}
	tokenAuth := jwtauth.New(JwtAlg, secret, nil)
	return jwtauth.Verifier(tokenAuth)
}

// UserID extracts the authenticated user from the request's JWT claims. When
// no token is present, which is the case when auth is disabled, the
// X-User-ID header selects the user, falling back to DefaultUserID.
func UserID(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err == nil {
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			return sub
		}
	}
	if headerID := r.Header.Get(UserIDHeader); headerID != "" {
		return headerID
	}
	return DefaultUserID
}
