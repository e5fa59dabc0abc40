package transport

import (
	"net/http"
	"strings"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, token string)
	// Method names the scheme for error messages.
	Method() string
}

// TokenAuth implements the NetBox legacy "Token" scheme.
type TokenAuth struct{}

// Apply implements the Authenticator interface for TokenAuth.
func (a *TokenAuth) Apply(req *http.Request, token string) {
	req.Header.Set("Authorization", "Token "+token)
}

// Method implements the Authenticator interface for TokenAuth.
func (a *TokenAuth) Method() string { return "token" }

// BearerAuth implements Bearer token authentication.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// Method implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Method() string { return "bearer" }

// bearerPrefix marks NetBox v2 API tokens.
const bearerPrefix = "nbt_"

// AuthenticatorFor picks the scheme for a token. NetBox v2 tokens
// ("nbt_<key>.<secret>") use Bearer; anything else uses Token.
func AuthenticatorFor(token string) Authenticator {
	if strings.HasPrefix(token, bearerPrefix) {
		return &BearerAuth{}
	}
	return &TokenAuth{}
}
