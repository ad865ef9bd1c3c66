package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRazorpaySignature(t *testing.T) {
	got := RazorpaySignature("order_ABC123", "pay_XYZ789", "test_secret")
	assert.Equal(t, "85cbc6036124891c4d0280fbb7cd83804f87a66f2eb485a89af574086f592cbc", got)
}

func TestVerifyRazorpaySignature(t *testing.T) {
	secret := "test_secret"
	sig := RazorpaySignature("order_ABC123", "pay_XYZ789", secret)

	assert.True(t, VerifyRazorpaySignature("order_ABC123", "pay_XYZ789", sig, secret))

	// Any single-character mutation must be rejected.
	for i := 0; i < len(sig); i++ {
		mutated := []byte(sig)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		assert.False(t, VerifyRazorpaySignature("order_ABC123", "pay_XYZ789", string(mutated), secret),
			"mutation at index %d should fail", i)
	}

	assert.False(t, VerifyRazorpaySignature("order_ABC124", "pay_XYZ789", sig, secret))
	assert.False(t, VerifyRazorpaySignature("order_ABC123", "pay_XYZ789", sig, "other_secret"))
	assert.False(t, VerifyRazorpaySignature("order_ABC123", "pay_XYZ789", "", secret))
}

func TestGenerateHash(t *testing.T) {
	fields := map[string]string{
		"order_id": "order_1",
		"amount":   "450",
	}
	// SHA-512("salt123|450|order_1"), values sorted by field name.
	want := "FEA2F5E8B4849A691EFFDB1CE4E07306E084A9D03C22C1FC081B8EEB83C22BF13FD4D7F584FF51E0E94AFE82658ABE6424AAFF6332EBCF6786F610266C91131A"
	assert.Equal(t, want, GenerateHash(fields, "salt123"))
}

func TestGenerateHash_SkipsEmptyAndHashFields(t *testing.T) {
	base := map[string]string{
		"order_id": "order_1",
		"amount":   "450",
	}
	withNoise := map[string]string{
		"order_id": "order_1",
		"amount":   "450",
		"landmark": "",
		"hash":     "ATTACKER_CONTROLLED",
	}
	assert.Equal(t, GenerateHash(base, "salt123"), GenerateHash(withNoise, "salt123"))
}

func TestGenerateHash_Deterministic(t *testing.T) {
	fields := map[string]string{
		"order_id": "ORD_1",
		"amount":   "1300",
		"email":    "a@b.c",
		"name":     "Customer",
		"phone":    "9999999999",
	}
	first := GenerateHash(fields, "salt")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, GenerateHash(fields, "salt"))
	}
	assert.NotEqual(t, first, GenerateHash(fields, "other-salt"))
}

func TestVerifyHash(t *testing.T) {
	fields := map[string]string{
		"order_id":      "ORD_42",
		"amount":        "999",
		"status":        "success",
		"response_code": "00",
	}
	hash := GenerateHash(fields, "s4lt")

	assert.True(t, VerifyHash(fields, hash, "s4lt"))
	assert.False(t, VerifyHash(fields, hash, "wrong"))
	assert.False(t, VerifyHash(fields, hash+"0", "s4lt"))

	// Tampering with any field invalidates the hash.
	fields["amount"] = "1"
	assert.False(t, VerifyHash(fields, hash, "s4lt"))
}
