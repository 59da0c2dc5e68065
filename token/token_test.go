package token_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluescreen10/tokensession/token"
)

func makeToken(enc *base64.Encoding, payload string) string {
	return "eyJhbGciOiJIUzI1NiJ9." + enc.EncodeToString([]byte(payload)) + ".c2ln"
}

func TestIsStructured(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "three segments", token: "h.p.s", want: true},
		{name: "empty", token: "", want: false},
		{name: "opaque", token: "opaque-token", want: false},
		{name: "two segments", token: "h.p", want: false},
		{name: "four segments", token: "h.p.s.x", want: false},
		{name: "empty middle segment", token: "h..s", want: false},
		{name: "only dots", token: "..", want: false},
		{name: "trailing dot", token: "h.p.", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, token.IsStructured(tt.token))
		})
	}
}

func TestDecodePayload(t *testing.T) {
	t.Run("url alphabet without padding", func(t *testing.T) {
		claims, ok := token.DecodePayload(makeToken(base64.RawURLEncoding, `{"exp":9999999999,"sub":"a"}`))
		require.True(t, ok)
		assert.Equal(t, float64(9999999999), claims["exp"])
		assert.Equal(t, "a", claims["sub"])
	})

	t.Run("standard alphabet with padding", func(t *testing.T) {
		// "?>" forces '+' and '/' into the standard encoding
		payload := `{"exp":1,"n":"?>?>"}`
		tok := makeToken(base64.StdEncoding, payload)
		claims, ok := token.DecodePayload(tok)
		require.True(t, ok)
		assert.Equal(t, "?>?>", claims["n"])
	})

	t.Run("not structured", func(t *testing.T) {
		claims, ok := token.DecodePayload("opaque-token")
		assert.False(t, ok)
		assert.Nil(t, claims)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, ok := token.DecodePayload("h.!!!.s")
		assert.False(t, ok)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, ok := token.DecodePayload(makeToken(base64.RawURLEncoding, `{"exp":`))
		assert.False(t, ok)
	})

	t.Run("json but not an object", func(t *testing.T) {
		_, ok := token.DecodePayload(makeToken(base64.RawURLEncoding, `[1,2,3]`))
		assert.False(t, ok)

		_, ok = token.DecodePayload(makeToken(base64.RawURLEncoding, `null`))
		assert.False(t, ok)
	})
}

func TestClaimsExpiry(t *testing.T) {
	assert.Equal(t, float64(0), token.Claims{}.Expiry())
	assert.Equal(t, float64(0), token.Claims{"exp": "soon"}.Expiry())
	assert.Equal(t, 1.5, token.Claims{"exp": 1.5}.Expiry())

	at := token.Claims{"exp": float64(1700000000)}.ExpiresAt()
	assert.True(t, at.Equal(time.Unix(1700000000, 0)))
	assert.True(t, token.Claims{}.ExpiresAt().IsZero())
}
