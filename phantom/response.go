package phantom

import (
	"errors"
	"fmt"

	"github.com/upnetwork-v/webpay-sub001/internal/model"

	"github.com/mr-tron/base58"
)

// Redirect query parameters the wallet sends back.
const (
	paramSignature    = "signature"
	paramData         = "data"
	paramNonce        = "nonce"
	paramErrorCode    = "errorCode"
	paramErrorMessage = "errorMessage"
)

const (
	// defaultErrorMessage is used when the wallet gives no message of its own.
	defaultErrorMessage = "Payment failed"

	// processFailedMessage is the user-facing text for any decryption or
	// signature-shape problem. Cryptographic detail is never exposed.
	processFailedMessage = "Failed to process transaction"

	// internalErrorCode is the wallet's JSON-RPC internal error, which in
	// practice means a network or balance misconfiguration on the wallet side.
	internalErrorCode = "-32603"
)

const (
	signatureBytes    = 64
	signatureMinChars = 87
	signatureMaxChars = 88
)

// ErrMalformedSignature means a signature string failed the base58 or
// length check. Such candidates are rejected, never forwarded as valid.
var ErrMalformedSignature = errors.New("malformed transaction signature")

// Classify inspects the redirect query parameters and produces exactly
// one WalletResponse variant. First match wins; the precedence order
// (signature, then data+nonce, then errorCode) is load-bearing.
func Classify(params map[string]string) model.WalletResponse {
	if sig := params[paramSignature]; sig != "" {
		return model.SignatureResult{Signature: sig}
	}

	data, nonce := params[paramData], params[paramNonce]
	if data != "" && nonce != "" {
		return model.EncryptedResult{Data: data, Nonce: nonce}
	}

	if code := params[paramErrorCode]; code != "" {
		return model.WalletError{Code: code, Message: params[paramErrorMessage]}
	}

	return model.Unrecognized{}
}

// ValidateSignature checks the base58 shape of a candidate signature:
// the encoded length must be 87 or 88 characters and the decoding must
// yield exactly 64 bytes.
func ValidateSignature(sig string) error {
	if len(sig) < signatureMinChars || len(sig) > signatureMaxChars {
		return fmt.Errorf("%w: encoded length %d", ErrMalformedSignature, len(sig))
	}
	decoded, err := base58.Decode(sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	if len(decoded) != signatureBytes {
		return fmt.Errorf("%w: decodes to %d bytes", ErrMalformedSignature, len(decoded))
	}
	return nil
}

// walletErrorMessage maps a wallet rejection to the user-facing message.
// Known codes get specific guidance; everything else passes through.
func walletErrorMessage(we model.WalletError) string {
	msg := we.Message
	if msg == "" {
		msg = defaultErrorMessage
	}
	if we.Code == internalErrorCode {
		return fmt.Sprintf("The wallet could not complete the transaction. Check that it is on the correct network and holds enough SOL for fees. Wallet reported: %s", msg)
	}
	return msg
}
