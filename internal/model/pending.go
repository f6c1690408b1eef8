package model

import "time"

// PendingTransaction is a dispatched-but-unresolved wallet request.
// Data and Nonce are base58 strings, same encoding as the deep link.
type PendingTransaction struct {
	Data      string    `json:"data"`
	Nonce     string    `json:"nonce"`
	CreatedAt time.Time `json:"createdAt"`
}
