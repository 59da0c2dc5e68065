// Package token inspects bearer tokens issued by a remote authority.
//
// A token is either opaque (a guest identifier) or structured: three
// dot-separated segments whose middle segment is base64 encoded JSON. The
// package only looks at structure and claims. It never verifies a
// signature; authenticity is left to the server that issued the token and
// to the servers that receive it on each API call.
package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of a structured token. Fields other than
// "exp" are passed through untouched.
type Claims map[string]any

// Expiry returns the numeric "exp" claim in Unix seconds, or 0 when the
// claim is missing or not a number.
func (c Claims) Expiry() float64 {
	switch exp := c["exp"].(type) {
	case float64:
		return exp
	case json.Number:
		if v, err := exp.Float64(); err == nil {
			return v
		}
	}
	return 0
}

// ExpiresAt returns the "exp" claim as a time. The zero time is returned
// when the claim is missing or malformed.
func (c Claims) ExpiresAt() time.Time {
	exp, err := jwt.MapClaims(c).GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// IsStructured reports whether token has exactly three non-empty
// dot-separated segments.
func IsStructured(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodePayload decodes the middle segment of a structured token into
// Claims. It returns false if the token is not structured, the segment is
// not valid base64 or the decoded bytes are not a JSON object.
func DecodePayload(token string) (Claims, bool) {
	if !IsStructured(token) {
		return nil, false
	}

	data, ok := decodeSegment(strings.Split(token, ".")[1])
	if !ok {
		return nil, false
	}

	var claims Claims
	if err := json.Unmarshal(data, &claims); err != nil || claims == nil {
		return nil, false
	}
	return claims, true
}

// decodeSegment accepts the URL alphabet used by JWTs as well as the
// standard alphabet, with or without padding.
func decodeSegment(seg string) ([]byte, bool) {
	if data, err := parser.DecodeSegment(seg); err == nil {
		return data, true
	}

	seg = strings.TrimRight(seg, "=")
	data, err := base64.RawStdEncoding.DecodeString(seg)
	if err != nil {
		return nil, false
	}
	return data, true
}
