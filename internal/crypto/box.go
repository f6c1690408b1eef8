package crypto

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

const (
	// KeyLen is the X25519 key size
	KeyLen = 32
	// NonceLen is the XSalsa20-Poly1305 nonce size
	NonceLen = 24
)

var (
	// ErrKeyAgreement means the counterpart public key is not a usable
	// point on the curve. Fatal to the current handshake, not retried.
	ErrKeyAgreement = errors.New("invalid wallet public key")

	// ErrDecryptionFailed means the authentication tag did not verify:
	// tampered ciphertext, wrong key or mismatched nonce.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// KeyPair is an ephemeral X25519 keypair owned by one wallet session.
// The private half never leaves this package and is never persisted.
type KeyPair struct {
	public  [KeyLen]byte
	private [KeyLen]byte
}

// SharedSecret is the precomputed box key for one wallet session.
// It must never be logged or persisted.
type SharedSecret [KeyLen]byte

// EncryptedPayload is a nonce/ciphertext pair produced by Encrypt.
type EncryptedPayload struct {
	Nonce      [NonceLen]byte
	Ciphertext []byte
}

// GenerateKeyPair generates a fresh ephemeral keypair.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	kp := &KeyPair{public: *pub, private: *priv}
	clear(priv[:])
	return kp, nil
}

// PublicKey returns the public half of the keypair.
func (kp *KeyPair) PublicKey() [KeyLen]byte {
	return kp.public
}

// DeriveSharedSecret combines the local private key with the wallet's
// public key. Returns ErrKeyAgreement if the public key is not a valid
// point (zero or low-order).
func (kp *KeyPair) DeriveSharedSecret(walletPublicKey [KeyLen]byte) (*SharedSecret, error) {
	// X25519 rejects low-order points by checking for an all-zero result.
	// box.Precompute would silently produce a useless key for those.
	if _, err := curve25519.X25519(kp.private[:], walletPublicKey[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyAgreement, err)
	}

	secret := new(SharedSecret)
	box.Precompute((*[KeyLen]byte)(secret), &walletPublicKey, &kp.private)
	return secret, nil
}

// Destroy wipes the private key. The keypair is unusable afterwards.
func (kp *KeyPair) Destroy() {
	clear(kp.private[:])
	clear(kp.public[:])
}

// Encrypt serializes v to JSON and seals it with a fresh random nonce.
// A nonce is never reused: every call draws new randomness.
func Encrypt(v any, secret *SharedSecret) (*EncryptedPayload, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	var nonce [NonceLen]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := box.SealAfterPrecomputation(nil, plaintext, &nonce, (*[KeyLen]byte)(secret))

	return &EncryptedPayload{
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}

// Decrypt opens the payload and unmarshals the plaintext into out.
// Authentication failure returns ErrDecryptionFailed; malformed input
// (empty ciphertext, bad JSON) returns a distinct error so callers can
// tell a tampered response from a caller bug.
func Decrypt(p *EncryptedPayload, secret *SharedSecret, out any) error {
	if p == nil || len(p.Ciphertext) == 0 {
		return errors.New("empty ciphertext")
	}

	plaintext, ok := box.OpenAfterPrecomputation(nil, p.Ciphertext, &p.Nonce, (*[KeyLen]byte)(secret))
	if !ok {
		return ErrDecryptionFailed
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	if err := json.Unmarshal(plaintext, out); err != nil {
		return fmt.Errorf("failed to unmarshal decrypted payload: %w", err)
	}
	return nil
}
