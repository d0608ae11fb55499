package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TTL is the fixed validity window of an attempt token.
const TTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// Token binds an order and event identifier to a bounded validity window.
// Timestamps are unix seconds so that serialization is stable and two
// tokens issued at the same instant are byte-identical.
type Token struct {
	OrderID   string `json:"order_id"`
	EventID   string `json:"event_id"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Codec issues and validates signed attempt tokens. Its secret is
// independent key material from the webhook secret, even when a deployment
// configures the same value for both.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// Issue serializes a token for (orderID, eventID) valid for TTL from now
// and appends a detached HMAC-SHA256 signature. Wire form is
// "<base64url(payload)>.<base64url(signature)>".
func (c *Codec) Issue(orderID, eventID string) (string, error) {
	now := c.now()
	t := Token{
		OrderID:   orderID,
		EventID:   eventID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(TTL).Unix(),
	}

	payload, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("token.Issue: marshal: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	sig := base64.RawURLEncoding.EncodeToString(c.sign(payload))
	return encoded + "." + sig, nil
}

// Validate fails closed: any structural defect, signature mismatch, or
// undecodable payload yields ErrInvalidToken; a well-formed token past its
// expiration yields ErrTokenExpired.
func (c *Codec) Validate(s string) (*Token, error) {
	encoded, encodedSig, ok := strings.Cut(s, ".")
	if !ok || strings.Contains(encodedSig, ".") {
		return nil, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return nil, ErrInvalidToken
	}

	expected := c.sign(payload)
	if len(sig) != len(expected) || subtle.ConstantTimeCompare(sig, expected) != 1 {
		return nil, ErrInvalidToken
	}

	var t Token
	if err := json.Unmarshal(payload, &t); err != nil {
		return nil, ErrInvalidToken
	}

	if c.now().Unix() > t.ExpiresAt {
		return nil, ErrTokenExpired
	}
	return &t, nil
}

func (c *Codec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
