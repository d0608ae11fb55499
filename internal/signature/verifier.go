package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"
)

// Verifier authenticates inbound webhooks: an HMAC-SHA256 signature over
// the raw request body, plus a symmetric replay-acceptance window on the
// event timestamp.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), now: time.Now}
}

// Verify checks the signature header against the raw body. The header may
// carry a case-insensitive "sha256=" prefix. Returns false for empty or
// malformed headers; never panics.
func (v *Verifier) Verify(body []byte, header string) bool {
	sig := strings.TrimSpace(header)
	if sig == "" {
		return false
	}
	if len(sig) >= 7 && strings.EqualFold(sig[:7], "sha256=") {
		sig = strings.TrimSpace(sig[7:])
	}

	received, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := mac.Sum(nil)

	// Length is not secret; only the content comparison is constant-time.
	if len(received) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare(received, expected) == 1
}

// VerifyTimestamp accepts an RFC 3339 timestamp within tolerance of the
// current time, in either direction. Unparsable input is rejected.
func (v *Verifier) VerifyTimestamp(ts string, tolerance time.Duration) bool {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return false
	}
	diff := v.now().Sub(parsed)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// Sign computes the hex-encoded HMAC-SHA256 of body under secret. Exported
// for callers that need to produce signatures (tests, local tooling).
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
