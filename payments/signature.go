package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"sort"
	"strings"
)

// RazorpaySignature computes the provider-A callback signature: HMAC-SHA256
// over "{order_id}|{payment_id}" keyed with the API secret, lowercase hex.
func RazorpaySignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyRazorpaySignature reports whether the submitted signature matches the
// expected one for the given identifiers. A mismatch is an authentication
// failure, not an error.
func VerifyRazorpaySignature(orderID, paymentID, signature, secret string) bool {
	expected := RazorpaySignature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// GenerateHash computes the hosted gateway's request/callback hash: field
// values sorted by field name, empty values and the "hash" field itself
// skipped, joined with "|", prefixed with the salt, SHA-512, uppercase hex.
func GenerateHash(fields map[string]string, salt string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "hash" || fields[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, salt)
	for _, k := range keys {
		parts = append(parts, fields[k])
	}

	sum := sha512.Sum512([]byte(strings.Join(parts, "|")))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyHash recomputes the hash over the callback fields (minus the
// submitted hash) and compares it against the submitted value.
func VerifyHash(fields map[string]string, submitted, salt string) bool {
	expected := GenerateHash(fields, salt)
	return hmac.Equal([]byte(expected), []byte(submitted))
}
