package token

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-token-secret"

func frozenCodec(at time.Time) *Codec {
	c := NewCodec(testSecret)
	c.now = func() time.Time { return at }
	return c
}

func TestIssueAndValidate(t *testing.T) {
	issued := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	c := frozenCodec(issued)

	tok, err := c.Issue("SPL-1", "EVT-1")
	require.NoError(t, err)
	require.Contains(t, tok, ".")

	parsed, err := c.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "SPL-1", parsed.OrderID)
	assert.Equal(t, "EVT-1", parsed.EventID)
	assert.Equal(t, issued.Unix(), parsed.IssuedAt)
	assert.Equal(t, issued.Add(TTL).Unix(), parsed.ExpiresAt)
}

func TestIssueIsDeterministic(t *testing.T) {
	issued := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	c := frozenCodec(issued)

	first, err := c.Issue("SPL-1", "EVT-1")
	require.NoError(t, err)
	second, err := c.Issue("SPL-1", "EVT-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidateExpiry(t *testing.T) {
	issued := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	c := frozenCodec(issued)

	tok, err := c.Issue("SPL-1", "EVT-1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"just before expiry", issued.Add(TTL - time.Second), nil},
		{"exactly at expiry", issued.Add(TTL), nil},
		{"just after expiry", issued.Add(TTL + time.Second), ErrTokenExpired},
		{"long after expiry", issued.Add(48 * time.Hour), ErrTokenExpired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c.now = func() time.Time { return tc.at }
			_, err := c.Validate(tok)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issued := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	c := frozenCodec(issued)

	tok, err := c.Issue("SPL-1", "EVT-1")
	require.NoError(t, err)

	other := NewCodec("a-different-secret")
	other.now = func() time.Time { return issued }

	_, err = other.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateFailsClosed(t *testing.T) {
	issued := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	c := frozenCodec(issued)

	valid, err := c.Issue("SPL-1", "EVT-1")
	require.NoError(t, err)
	payload, sig, _ := strings.Cut(valid, ".")

	// Flip one byte inside the signed payload, keeping the old signature.
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	require.NoError(t, err)
	raw[2] ^= 0x01
	tampered := base64.RawURLEncoding.EncodeToString(raw) + "." + sig

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separator", payload},
		{"two separators", payload + "." + sig + "." + sig},
		{"payload not base64", "!!!." + sig},
		{"signature not base64", payload + ".!!!"},
		{"tampered payload", tampered},
		{"signature from another payload", payload + "." + strings.SplitN(mustIssue(t, c, "SPL-2", "EVT-2"), ".", 2)[1]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Validate(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func mustIssue(t *testing.T, c *Codec, orderID, eventID string) string {
	t.Helper()
	tok, err := c.Issue(orderID, eventID)
	require.NoError(t, err)
	return tok
}
