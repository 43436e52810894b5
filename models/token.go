package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT with the accessors the authentication flow needs.
//
// The embedded [jwt.Token] covers low-level operations (signing, parsing),
// [jwt.RegisteredClaims] exposes the standard claim set, and SignedString
// keeps the compact serialized form ready for the Authorization header.
// UserID caches the parsed "sub" claim so handlers do not re-parse it on
// every request.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Only the compact string form is meaningful outside the process,
	// so the struct itself is excluded from JSON.
	*jwt.Token `json:"-"`

	// RegisteredClaims holds the standard JWT claims
	// (sub, exp, iat, nbf, iss, aud, jti) per RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS form of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// UserID is the owner identifier extracted from the "sub" claim.
	// Server-side cache only.
	UserID int64 `json:"-"`
}

// GetUserID reads the token's "sub" claim and parses it as a base-10 int64.
//
// Returns an error if the subject claim is missing, empty, or is not
// a valid integer.
func (t *Token) GetUserID() (int64, error) {
	subject, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
