package phantom

import (
	"errors"
	"fmt"
	"sync"

	"github.com/upnetwork-v/webpay-sub001/internal/crypto"
	"github.com/upnetwork-v/webpay-sub001/internal/model"
	"github.com/upnetwork-v/webpay-sub001/internal/monitor"
	"github.com/upnetwork-v/webpay-sub001/internal/store"
	"github.com/upnetwork-v/webpay-sub001/solana"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"
)

// State of the response-reconciliation machine. Resolved and
// Unrecognized are terminal for one request.
type State int

const (
	StateIdle State = iota
	StateDispatched
	StateResolvedSuccess
	StateResolvedError
	StateUnrecognized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatched:
		return "dispatched"
	case StateResolvedSuccess:
		return "resolved_success"
	case StateResolvedError:
		return "resolved_error"
	case StateUnrecognized:
		return "unrecognized"
	}
	return "unknown"
}

var (
	// ErrNotConnected means no shared secret has been derived yet.
	ErrNotConnected = errors.New("wallet session not established")

	// ErrRequestPending means a prior request was dispatched and not yet
	// resolved or cleared. Only one pending transaction is supported.
	ErrRequestPending = errors.New("a transaction request is already pending")
)

// DecryptFunc decrypts a base58 data/nonce pair into the wallet's
// response payload.
type DecryptFunc func(data, nonce string) (map[string]any, error)

// signRequest is the payload encrypted into the deep link.
type signRequest struct {
	Transaction string `json:"transaction"`
	Session     string `json:"session,omitempty"`
}

// Session drives one wallet interaction: key exchange, dispatch of the
// encrypted sign request, and reconciliation of the redirect response.
// The ephemeral keypair and shared secret live only as long as the
// session and are never persisted.
type Session struct {
	walletBaseURL string
	redirectURL   string

	keyPair *crypto.KeyPair
	secret  *crypto.SharedSecret

	mu    sync.Mutex
	state State

	pending store.PendingStore
	monitor *monitor.Monitor
	log     zerolog.Logger
}

// NewSession generates an ephemeral keypair and prepares a session in
// the idle state.
func NewSession(walletBaseURL, redirectURL string, pending store.PendingStore, mon *monitor.Monitor, log zerolog.Logger) (*Session, error) {
	keyPair, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session keypair: %w", err)
	}
	return &Session{
		walletBaseURL: walletBaseURL,
		redirectURL:   redirectURL,
		keyPair:       keyPair,
		state:         StateIdle,
		pending:       pending,
		monitor:       mon,
		log:           log,
	}, nil
}

// DappPublicKey returns the session's ephemeral public key, base58 encoded.
func (s *Session) DappPublicKey() string {
	pub := s.keyPair.PublicKey()
	return base58.Encode(pub[:])
}

// Connect derives the shared secret from the wallet's public key.
// While a dispatched request is outstanding the secret is what decrypts
// its response, so replacing it is refused with ErrRequestPending.
func (s *Session) Connect(walletPublicKey string) error {
	decoded, err := base58.Decode(walletPublicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", crypto.ErrKeyAgreement, err)
	}
	if len(decoded) != crypto.KeyLen {
		return fmt.Errorf("%w: got %d bytes", crypto.ErrKeyAgreement, len(decoded))
	}

	secret, err := s.keyPair.DeriveSharedSecret([crypto.KeyLen]byte(decoded))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDispatched && s.secret != nil {
		return ErrRequestPending
	}
	s.secret = secret
	return nil
}

// sharedSecret reads the secret under the session lock.
func (s *Session) sharedSecret() *crypto.SharedSecret {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secret
}

// State returns the current reconciliation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Resume restores the dispatched state from the pending store after a
// restart. Returns true if an outstanding request was found.
func (s *Session) Resume() (bool, error) {
	entry, err := s.pending.Load()
	if err != nil {
		return false, err
	}
	if entry == nil {
		return false, nil
	}

	s.mu.Lock()
	s.state = StateDispatched
	s.mu.Unlock()
	return true, nil
}

// Dispatch builds the transfer transaction, encrypts the sign request,
// persists the pending entry and returns the deep-link URI. Navigating
// to the URI is the caller's responsibility. A second dispatch before
// the first resolves is rejected.
func (s *Session) Dispatch(req *model.TransactionRequest) (string, error) {
	s.mu.Lock()
	if s.secret == nil {
		s.mu.Unlock()
		return "", ErrNotConnected
	}
	if s.state == StateDispatched {
		s.mu.Unlock()
		return "", ErrRequestPending
	}
	secret := s.secret
	s.mu.Unlock()

	tx, err := solana.Build(req)
	if err != nil {
		return "", err
	}
	encodedTx, err := solana.EncodeTransaction(tx)
	if err != nil {
		return "", err
	}

	encrypted, err := crypto.Encrypt(signRequest{
		Transaction: encodedTx,
		Session:     req.OrderID,
	}, secret)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt sign request: %w", err)
	}

	if err := s.pending.Save(base58.Encode(encrypted.Ciphertext), base58.Encode(encrypted.Nonce[:])); err != nil {
		return "", fmt.Errorf("failed to persist pending transaction: %w", err)
	}

	link, err := BuildDeepLink(s.walletBaseURL, encrypted, s.redirectURL, s.keyPair.PublicKey())
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.state = StateDispatched
	s.mu.Unlock()

	s.log.Info().Str("order_id", req.OrderID).Msg("sign request dispatched")
	return link, nil
}

// Decrypt opens a base58 data/nonce pair with the session's shared secret.
func (s *Session) Decrypt(data, nonce string) (map[string]any, error) {
	secret := s.sharedSecret()
	if secret == nil {
		return nil, ErrNotConnected
	}

	ciphertext, err := base58.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	nonceBytes, err := base58.Decode(nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	if len(nonceBytes) != crypto.NonceLen {
		return nil, fmt.Errorf("invalid nonce length: %d", len(nonceBytes))
	}

	payload := &crypto.EncryptedPayload{
		Nonce:      [crypto.NonceLen]byte(nonceBytes),
		Ciphertext: ciphertext,
	}

	out := map[string]any{}
	if err := crypto.Decrypt(payload, secret, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HandleReturn classifies the wallet's redirect parameters and reports
// the outcome through the callbacks. The returned bool tells the caller
// whether the parameters were consumed and the URL should be cleaned.
//
// Classification is synchronous; only the decrypt-and-report step of
// the encrypted path runs in the background, and cleanup is signalled
// without waiting for it. decrypt may be nil, in which case the
// session's own shared secret is used.
func (s *Session) HandleReturn(params map[string]string, decrypt DecryptFunc, onSuccess func(signature string), onError func(message string)) bool {
	if decrypt == nil {
		decrypt = s.Decrypt
	}

	switch resp := Classify(params).(type) {
	case model.SignatureResult:
		if err := ValidateSignature(resp.Signature); err != nil {
			s.monitor.Record("malformed_signature", err.Error())
			s.resolve(StateResolvedError)
			onError(processFailedMessage)
			return true
		}
		s.resolve(StateResolvedSuccess)
		onSuccess(resp.Signature)
		return true

	case model.EncryptedResult:
		go s.resolveEncrypted(resp, decrypt, onSuccess, onError)
		return true

	case model.WalletError:
		s.monitor.Record("wallet_error", fmt.Sprintf("code=%s message=%s", resp.Code, resp.Message))
		s.resolve(StateResolvedError)
		onError(walletErrorMessage(resp))
		return true

	default: // model.Unrecognized
		s.mu.Lock()
		if s.state == StateIdle {
			s.state = StateUnrecognized
		}
		s.mu.Unlock()
		return false
	}
}

// resolveEncrypted decrypts the wallet's encrypted result and reports it.
func (s *Session) resolveEncrypted(resp model.EncryptedResult, decrypt DecryptFunc, onSuccess func(string), onError func(string)) {
	payload, err := decrypt(resp.Data, resp.Nonce)
	if err != nil {
		s.monitor.Record("decrypt_failure", err.Error())
		s.resolve(StateResolvedError)
		onError(processFailedMessage)
		return
	}

	signature, ok := payload["signature"].(string)
	if !ok || signature == "" {
		s.monitor.Record("missing_signature", "decrypted payload has no signature field")
		s.resolve(StateResolvedError)
		onError(processFailedMessage)
		return
	}
	if err := ValidateSignature(signature); err != nil {
		s.monitor.Record("malformed_signature", err.Error())
		s.resolve(StateResolvedError)
		onError(processFailedMessage)
		return
	}

	s.resolve(StateResolvedSuccess)
	onSuccess(signature)
}

// resolve moves the machine to a terminal state and drops the pending entry.
func (s *Session) resolve(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	if err := s.pending.Clear(); err != nil {
		s.log.Debug().Err(err).Msg("failed to clear pending transaction")
	}
}

// Close wipes the session's key material.
func (s *Session) Close() {
	s.mu.Lock()
	if s.secret != nil {
		clear(s.secret[:])
		s.secret = nil
	}
	s.mu.Unlock()
	s.keyPair.Destroy()
}
