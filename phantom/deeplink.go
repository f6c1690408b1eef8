package phantom

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/upnetwork-v/webpay-sub001/internal/crypto"

	"github.com/mr-tron/base58"
)

// signTransactionPath is the wallet's well-known action for signing a
// serialized transaction delivered out of band.
const signTransactionPath = "signTransaction"

// Deep-link query parameters understood by the wallet.
const (
	paramDappPublicKey = "dapp_encryption_public_key"
	paramNoncePayload  = "nonce"
	paramPayload       = "payload"
	paramRedirectLink  = "redirect_link"
)

// BuildDeepLink serializes an encrypted sign request into a deep-link
// URI addressed to the wallet. Pure construction: navigating to the URI
// is the caller's responsibility.
func BuildDeepLink(walletBaseURL string, encrypted *crypto.EncryptedPayload, redirectLink string, dappPublicKey [crypto.KeyLen]byte) (string, error) {
	if encrypted == nil || len(encrypted.Ciphertext) == 0 {
		return "", errors.New("empty encrypted request")
	}
	if redirectLink == "" {
		return "", errors.New("redirect link is required")
	}

	base, err := url.Parse(walletBaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid wallet base URL: %w", err)
	}
	base = base.JoinPath(signTransactionPath)

	query := url.Values{}
	query.Set(paramDappPublicKey, base58.Encode(dappPublicKey[:]))
	query.Set(paramNoncePayload, base58.Encode(encrypted.Nonce[:]))
	query.Set(paramPayload, base58.Encode(encrypted.Ciphertext))
	query.Set(paramRedirectLink, redirectLink)
	base.RawQuery = query.Encode()

	return base.String(), nil
}
