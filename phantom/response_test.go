package phantom

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/upnetwork-v/webpay-sub001/internal/model"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSignature produces a base58 string that decodes to 64 bytes with
// encoded length 87 or 88.
func validSignature(t *testing.T) string {
	t.Helper()
	for {
		raw := make([]byte, 64)
		_, err := rand.Read(raw)
		require.NoError(t, err)
		enc := base58.Encode(raw)
		if len(enc) == 87 || len(enc) == 88 {
			return enc
		}
	}
}

func TestClassify_Variants(t *testing.T) {
	sig := validSignature(t)

	tests := []struct {
		name   string
		params map[string]string
		want   model.WalletResponse
	}{
		{
			name:   "plaintext signature",
			params: map[string]string{"signature": sig},
			want:   model.SignatureResult{Signature: sig},
		},
		{
			name:   "encrypted result",
			params: map[string]string{"data": "d", "nonce": "n"},
			want:   model.EncryptedResult{Data: "d", Nonce: "n"},
		},
		{
			name:   "wallet error",
			params: map[string]string{"errorCode": "4001", "errorMessage": "User rejected"},
			want:   model.WalletError{Code: "4001", Message: "User rejected"},
		},
		{
			name:   "nothing recognized",
			params: map[string]string{"utm_source": "x"},
			want:   model.Unrecognized{},
		},
		{
			name:   "data without nonce falls through to error",
			params: map[string]string{"data": "d", "errorCode": "4001"},
			want:   model.WalletError{Code: "4001"},
		},
		{
			name:   "empty signature is not a signature",
			params: map[string]string{"signature": "", "errorCode": "4001"},
			want:   model.WalletError{Code: "4001"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.params))
		})
	}
}

func TestClassify_SignatureBeatsError(t *testing.T) {
	sig := validSignature(t)
	got := Classify(map[string]string{
		"signature": sig,
		"errorCode": "-32603",
	})
	assert.Equal(t, model.SignatureResult{Signature: sig}, got)
}

func TestClassify_EncryptedBeatsError(t *testing.T) {
	got := Classify(map[string]string{
		"data":      "d",
		"nonce":     "n",
		"errorCode": "-32603",
	})
	assert.Equal(t, model.EncryptedResult{Data: "d", Nonce: "n"}, got)
}

func TestValidateSignature(t *testing.T) {
	require.NoError(t, ValidateSignature(validSignature(t)))

	// 63 bytes of 0xFF encode to 87 characters: right length, wrong size
	short := base58.Encode(bytes.Repeat([]byte{0xFF}, 63))
	require.Len(t, short, 87)
	assert.ErrorIs(t, ValidateSignature(short), ErrMalformedSignature)

	// 0x01 followed by 64 zero bytes encodes to 88 characters: decodes to 65 bytes
	long := base58.Encode(append([]byte{0x01}, make([]byte, 64)...))
	require.Len(t, long, 88)
	assert.ErrorIs(t, ValidateSignature(long), ErrMalformedSignature)

	// Encoded lengths 86 and 89 are rejected before decoding
	assert.ErrorIs(t, ValidateSignature(strings.Repeat("1", 86)), ErrMalformedSignature)
	assert.ErrorIs(t, ValidateSignature(strings.Repeat("1", 89)), ErrMalformedSignature)

	// Characters outside the base58 alphabet
	assert.ErrorIs(t, ValidateSignature(strings.Repeat("0", 87)), ErrMalformedSignature)

	assert.ErrorIs(t, ValidateSignature(""), ErrMalformedSignature)
}

func TestWalletErrorMessage(t *testing.T) {
	// Known internal error gets guidance embedding the original message
	msg := walletErrorMessage(model.WalletError{Code: "-32603", Message: "insufficient funds"})
	assert.Contains(t, msg, "insufficient funds")
	assert.Contains(t, msg, "network")

	// Unknown codes pass the wallet's message through verbatim
	assert.Equal(t, "User rejected", walletErrorMessage(model.WalletError{Code: "4001", Message: "User rejected"}))

	// Missing message falls back to the default
	assert.Equal(t, defaultErrorMessage, walletErrorMessage(model.WalletError{Code: "9999"}))
}
