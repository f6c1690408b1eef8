package model

// WalletResponse is the classified outcome of a wallet redirect.
// It is a closed set: SignatureResult, EncryptedResult, WalletError
// or Unrecognized. Exactly one variant is produced per redirect.
type WalletResponse interface {
	walletResponse()
}

// SignatureResult is the legacy plaintext path: the wallet returned
// the transaction signature directly in the query string.
type SignatureResult struct {
	Signature string
}

// EncryptedResult is the encrypted path: data and nonce must be
// decrypted with the session's shared secret to recover the signature.
type EncryptedResult struct {
	Data  string
	Nonce string
}

// WalletError is the wallet's own rejection (user cancelled, wrong
// network, insufficient balance).
type WalletError struct {
	Code    string
	Message string
}

// Unrecognized means the redirect carried no known parameters.
type Unrecognized struct{}

func (SignatureResult) walletResponse() {}
func (EncryptedResult) walletResponse() {}
func (WalletError) walletResponse()     {}
func (Unrecognized) walletResponse()    {}

func (e WalletError) Error() string {
	if e.Message == "" {
		return "wallet error " + e.Code
	}
	return e.Message
}
