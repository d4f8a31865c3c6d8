package session

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// userIDClaim is the claim the backend puts the account id under.
const userIDClaim = "userId"

// UserID derives the current user identity from a session token without
// verifying its signature (the client has no key; the server is the only
// party that validates tokens).
//
// A token that does not have exactly three dot-separated segments, or whose
// payload cannot be decoded, yields ("", false) rather than an error: a
// malformed token means "no identity", never a crash.
func UserID(token string) (string, bool) {
	if len(strings.Split(token, ".")) != 3 {
		return "", false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}

	id, ok := claims[userIDClaim].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
