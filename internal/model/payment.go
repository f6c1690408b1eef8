package model

// TokenInfo describes the token an order is paid in.
// Address and Decimals are ignored for the native coin.
// Decimals is a pointer so that a genuine 0-decimal token is
// distinguishable from an omitted field.
type TokenInfo struct {
	IsNative bool   `json:"isNative"`
	Address  string `json:"address,omitempty"`
	Decimals *uint8 `json:"decimals,omitempty"`
}

// TransactionRequest is the normalized input for transaction construction.
// AmountBaseUnits is already scaled by token decimals.
// TokenMint is empty iff the transfer is of the native coin.
type TransactionRequest struct {
	FromAddress     string `json:"fromAddress"`
	ToAddress       string `json:"toAddress"`
	AmountBaseUnits uint64 `json:"amountBaseUnits"`
	TokenMint       string `json:"tokenMint,omitempty"`
	TokenDecimals   uint8  `json:"tokenDecimals,omitempty"`
	OrderID         string `json:"orderId"`

	// RecentBlockhash is optional (base58). The builder never fetches it;
	// a wallet refreshes the blockhash before signing anyway.
	RecentBlockhash string `json:"recentBlockhash,omitempty"`

	// Optional explicit token accounts. When empty the associated token
	// account is derived from owner and mint.
	FromTokenAccount string `json:"fromTokenAccount,omitempty"`
	ToTokenAccount   string `json:"toTokenAccount,omitempty"`
}

// PayLinkRequest represents request for POST /pay/link
type PayLinkRequest struct {
	WalletPublicKey string    `json:"walletPublicKey" binding:"required"`
	OrderID         string    `json:"orderId" binding:"required"`
	MerchantAddress string    `json:"merchantAddress" binding:"required"`
	PayerAddress    string    `json:"payerAddress" binding:"required"`
	PayTokenAmount  string    `json:"payTokenAmount" binding:"required"`
	Token           TokenInfo `json:"token"`
}

// PayLinkResponse represents response for POST /pay/link
type PayLinkResponse struct {
	DeepLink string `json:"deepLink"`
	QR       string `json:"qr,omitempty"` // base64-encoded PNG of the deep link
}

// CallbackResponse represents response for GET /pay/callback
type CallbackResponse struct {
	Status      string `json:"status"` // "success", "error" or "ignored"
	Signature   string `json:"signature,omitempty"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}
