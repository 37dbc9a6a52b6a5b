package auth

import (
	"errors"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated identity resolved from a bearer
// credential. UID is the auth provider's opaque subject id; the matching
// usuario row is looked up separately by the workflows that need it.
type Principal struct {
	UID   string
	Email string
}

// Verifier validates access tokens issued by the external auth provider.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a verifier over the provider's signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Claims describes the provider's token payload.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ErrInvalidCredential is returned for any token that fails verification.
var ErrInvalidCredential = errors.New("invalid credential")

// VerifyBearer extracts the token from an Authorization header value and
// resolves it to a Principal. Expiry and signature are enforced; any
// failure collapses to ErrInvalidCredential so callers cannot distinguish
// why a credential was rejected.
func (v *Verifier) VerifyBearer(authorization string) (*Principal, error) {
	if authorization == "" {
		return nil, ErrInvalidCredential
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, ErrInvalidCredential
	}
	return v.VerifyToken(parts[1])
}

// VerifyToken validates a raw token string.
func (v *Verifier) VerifyToken(tokenStr string) (*Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidCredential
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidCredential
	}
	return &Principal{UID: claims.Subject, Email: claims.Email}, nil
}
