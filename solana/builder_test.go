package solana

import (
	"testing"

	"github.com/upnetwork-v/webpay-sub001/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFrom = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	testTo   = "So11111111111111111111111111111111111111112"
	testMint = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

func nativeRequest() *model.TransactionRequest {
	return &model.TransactionRequest{
		FromAddress:     testFrom,
		ToAddress:       testTo,
		AmountBaseUnits: 1_500_000_000,
		OrderID:         "order-7",
	}
}

func tokenRequest() *model.TransactionRequest {
	return &model.TransactionRequest{
		FromAddress:     testFrom,
		ToAddress:       testTo,
		AmountBaseUnits: 25_000_000,
		TokenMint:       testMint,
		TokenDecimals:   6,
		OrderID:         "order-7",
	}
}

// programOf resolves the program key of a compiled instruction.
func programOf(tx *solana.Transaction, index int) solana.PublicKey {
	return tx.Message.AccountKeys[tx.Message.Instructions[index].ProgramIDIndex]
}

func TestBuild_NativeTransfer(t *testing.T) {
	tx, err := Build(nativeRequest())
	require.NoError(t, err)

	require.Len(t, tx.Message.Instructions, 2)
	assert.Equal(t, solana.SystemProgramID, programOf(tx, 0))
	assert.Equal(t, solana.MemoProgramID, programOf(tx, 1))
	assert.Equal(t, "order-7", string(tx.Message.Instructions[1].Data))

	// Payer is the sender
	assert.Equal(t, testFrom, tx.Message.AccountKeys[0].String())
}

func TestBuild_NativeTransferWithoutOrderID(t *testing.T) {
	req := nativeRequest()
	req.OrderID = ""

	tx, err := Build(req)
	require.NoError(t, err)
	require.Len(t, tx.Message.Instructions, 1)
	assert.Equal(t, solana.SystemProgramID, programOf(tx, 0))
}

func TestBuild_TokenTransfer(t *testing.T) {
	tx, err := Build(tokenRequest())
	require.NoError(t, err)

	require.Len(t, tx.Message.Instructions, 2)
	assert.Equal(t, solana.TokenProgramID, programOf(tx, 0))
	assert.Equal(t, solana.MemoProgramID, programOf(tx, 1))

	// Transfer runs between the derived associated token accounts
	owner := solana.MustPublicKeyFromBase58(testFrom)
	recipient := solana.MustPublicKeyFromBase58(testTo)
	mint := solana.MustPublicKeyFromBase58(testMint)
	sourceATA, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	destATA, _, err := solana.FindAssociatedTokenAddress(recipient, mint)
	require.NoError(t, err)

	assert.Contains(t, tx.Message.AccountKeys, sourceATA)
	assert.Contains(t, tx.Message.AccountKeys, destATA)
}

func TestBuild_TokenTransferExplicitAccounts(t *testing.T) {
	req := tokenRequest()
	req.FromTokenAccount = testFrom // any valid pubkey works as an override
	req.ToTokenAccount = testTo

	_, err := Build(req)
	require.NoError(t, err)
}

func TestBuild_InvalidExplicitAccount(t *testing.T) {
	req := tokenRequest()
	req.FromTokenAccount = "not-base58!"

	_, err := Build(req)
	assert.ErrorIs(t, err, ErrMissingTokenAccount)
}

func TestBuild_ZeroAmount(t *testing.T) {
	req := nativeRequest()
	req.AmountBaseUnits = 0

	_, err := Build(req)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestBuild_InvalidAddresses(t *testing.T) {
	req := nativeRequest()
	req.FromAddress = "bogus"
	_, err := Build(req)
	assert.Error(t, err)

	req = nativeRequest()
	req.ToAddress = "bogus"
	_, err = Build(req)
	assert.Error(t, err)

	req = tokenRequest()
	req.TokenMint = "bogus"
	_, err = Build(req)
	assert.Error(t, err)
}

func TestBuild_RecentBlockhash(t *testing.T) {
	req := nativeRequest()
	req.RecentBlockhash = testMint // any 32-byte base58 value parses as a hash

	tx, err := Build(req)
	require.NoError(t, err)
	assert.Equal(t, testMint, tx.Message.RecentBlockhash.String())

	req.RecentBlockhash = "bogus"
	_, err = Build(req)
	assert.Error(t, err)
}

func TestEncodeTransaction(t *testing.T) {
	tx, err := Build(nativeRequest())
	require.NoError(t, err)

	encoded, err := EncodeTransaction(tx)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	raw, err := base58.Decode(encoded)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestExplorerURL(t *testing.T) {
	sig := "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"

	assert.Equal(t,
		"https://solscan.io/tx/"+sig,
		ExplorerURL("solscan.io", sig, "mainnet-beta"))

	assert.Equal(t,
		"https://solscan.io/tx/"+sig+"?cluster=devnet",
		ExplorerURL("solscan.io", sig, "devnet"))

	assert.Equal(t,
		"https://solscan.io/tx/"+sig,
		ExplorerURL("solscan.io", sig, ""))
}
