// Package jwt implements a minimal HS256 JSON Web Token codec. It
// covers exactly what the identity service needs: signing a claims
// struct and verifying signature, algorithm, and temporal claims on the
// way back in. No other algorithms are accepted.
package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// RegisteredClaims carries the RFC 7519 temporal claims used by session
// tokens. Zero values are treated as unset and skipped during checks.
type RegisteredClaims struct {
	Subject   string `json:"sub,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid checks the temporal claims against the current time.
func (c RegisteredClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return ErrTokenExpired
	}
	return nil
}

// Claims is implemented by claim structs that carry temporal limits.
type Claims interface {
	Valid() error
}

// Codec signs and verifies tokens with a single HMAC-SHA256 key.
type Codec struct {
	signingKey []byte
}

// NewCodec returns a codec for the given signing key. Keys shorter than
// 32 bytes are rejected; HS256 security degrades with short keys.
func NewCodec(signingKey string) (*Codec, error) {
	if signingKey == "" {
		return nil, ErrMissingSigningKey
	}
	if len(signingKey) < 32 {
		return nil, ErrSigningKeyTooShort
	}
	return &Codec{signingKey: []byte(signingKey)}, nil
}

// Sign serializes the claims and returns a signed compact token.
func (c *Codec) Sign(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", fmt.Errorf("marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	payload := encode(headerJSON) + "." + encode(claimsJSON)
	return payload + "." + c.sign(payload), nil
}

// Verify checks the token signature and algorithm, unmarshals the
// claims into the given struct, and validates temporal claims when the
// struct implements Claims.
func (c *Codec) Verify(token string, claims any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrTokenMalformed
	}

	payload := parts[0] + "." + parts[1]
	expected := c.sign(payload)
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) != 1 {
		return ErrSignatureInvalid
	}

	headerJSON, err := decode(parts[0])
	if err != nil {
		return ErrTokenMalformed
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return ErrTokenMalformed
	}
	// Reject anything but HS256 to rule out algorithm confusion.
	if h.Algorithm != headerAlgorithm {
		return ErrUnexpectedAlgorithm
	}

	claimsJSON, err := decode(parts[1])
	if err != nil {
		return ErrTokenMalformed
	}
	if err := json.Unmarshal(claimsJSON, claims); err != nil {
		return ErrTokenMalformed
	}

	if v, ok := claims.(Claims); ok {
		return v.Valid()
	}
	return nil
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.signingKey)
	mac.Write([]byte(payload))
	return encode(mac.Sum(nil))
}

func encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func decode(data string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(data)
}
