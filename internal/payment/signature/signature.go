// Package signature implements the gateway's callback signing convention.
// Trust derives solely from possession of the shared secret; the verifier
// never contacts the network.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the hex HMAC-SHA256 of "<orderID>|<paymentID>" under the
// shared secret. The pipe-joined payload is the gateway's canonical form.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether claimed matches the expected signature for the
// order/payment pair. Comparison is constant-time.
func Verify(secret, orderID, paymentID, claimed string) bool {
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(claimed))
}
