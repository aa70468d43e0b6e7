package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundTrip(t *testing.T) {
	ciphertext, err := Encrypt([]byte("page-access-token"), testKey)
	require.NoError(t, err)
	assert.NotEqual(t, "page-access-token", ciphertext)

	plaintext, err := Decrypt(ciphertext, testKey)
	require.NoError(t, err)
	assert.Equal(t, "page-access-token", plaintext)
}

func TestDecryptWrongKey(t *testing.T) {
	ciphertext, err := Encrypt([]byte("secret"), testKey)
	require.NoError(t, err)

	otherKey := []byte("fedcba9876543210fedcba9876543210")
	_, err = Decrypt(ciphertext, otherKey)
	assert.Error(t, err)
}

func TestDecryptTruncatedCiphertext(t *testing.T) {
	_, err := Decrypt("dG9vc2hvcnQ=", testKey)
	assert.Error(t, err)
}

func TestVerifyHMAC(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	sig := SignHMAC("whsec", body)

	assert.True(t, VerifyHMAC("whsec", body, sig))
	assert.False(t, VerifyHMAC("whsec", []byte(`{"event":"tampered"}`), sig))
	assert.False(t, VerifyHMAC("other", body, sig))
	assert.False(t, VerifyHMAC("whsec", body, ""))
}
