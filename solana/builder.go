package solana

import (
	"errors"
	"fmt"

	"github.com/upnetwork-v/webpay-sub001/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/mr-tron/base58"
)

var (
	// ErrInvalidAmount means amountBaseUnits is zero. Caller contract
	// violation, not retried.
	ErrInvalidAmount = errors.New("amount must be a positive number of base units")

	// ErrMissingTokenAccount means a required token account address
	// could not be resolved. Caller contract violation, not retried.
	ErrMissingTokenAccount = errors.New("token account could not be resolved")
)

// Build constructs an unsigned transfer transaction from normalized
// request parameters. Pure construction: it never contacts the network.
//
// Without TokenMint it is a system-program transfer of lamports from
// FromAddress to ToAddress. With TokenMint it is a TransferChecked
// between the associated token accounts of sender and recipient.
// Either way the order ID rides along as a memo so the receiving side
// can reconcile payment to order.
func Build(req *model.TransactionRequest) (*solana.Transaction, error) {
	if req.AmountBaseUnits == 0 {
		return nil, ErrInvalidAmount
	}

	fromPubkey, err := solana.PublicKeyFromBase58(req.FromAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	toPubkey, err := solana.PublicKeyFromBase58(req.ToAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}

	var instructions []solana.Instruction

	if req.TokenMint == "" {
		// Native SOL transfer
		instructions = append(instructions, system.NewTransferInstruction(
			req.AmountBaseUnits,
			fromPubkey,
			toPubkey,
		).Build())
	} else {
		mintPubkey, err := solana.PublicKeyFromBase58(req.TokenMint)
		if err != nil {
			return nil, fmt.Errorf("invalid token mint: %w", err)
		}

		sourceAccount, err := resolveTokenAccount(req.FromTokenAccount, fromPubkey, mintPubkey)
		if err != nil {
			return nil, fmt.Errorf("sender: %w", err)
		}
		destAccount, err := resolveTokenAccount(req.ToTokenAccount, toPubkey, mintPubkey)
		if err != nil {
			return nil, fmt.Errorf("recipient: %w", err)
		}

		instructions = append(instructions, token.NewTransferCheckedInstruction(
			req.AmountBaseUnits,
			req.TokenDecimals,
			sourceAccount,
			mintPubkey,
			destAccount,
			fromPubkey,
			[]solana.PublicKey{},
		).Build())
	}

	if req.OrderID != "" {
		instructions = append(instructions, memoInstruction(req.OrderID))
	}

	// The blockhash is caller-supplied; the wallet replaces a stale or
	// zero blockhash before signing.
	var blockhash solana.Hash
	if req.RecentBlockhash != "" {
		blockhash, err = solana.HashFromBase58(req.RecentBlockhash)
		if err != nil {
			return nil, fmt.Errorf("invalid recent blockhash: %w", err)
		}
	}

	tx, err := solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(fromPubkey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return tx, nil
}

// resolveTokenAccount uses the explicit account when supplied, otherwise
// derives the associated token account from owner and mint.
func resolveTokenAccount(explicit string, owner, mint solana.PublicKey) (solana.PublicKey, error) {
	if explicit != "" {
		pubkey, err := solana.PublicKeyFromBase58(explicit)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrMissingTokenAccount, err)
		}
		return pubkey, nil
	}

	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrMissingTokenAccount, err)
	}
	return ata, nil
}

// memoInstruction tags the transaction with the order ID.
func memoInstruction(orderID string) solana.Instruction {
	return solana.NewInstruction(
		solana.MemoProgramID,
		solana.AccountMetaSlice{},
		[]byte(orderID),
	)
}

// EncodeTransaction serializes a transaction to the base58 form the
// wallet's sign request payload expects.
func EncodeTransaction(tx *solana.Transaction) (string, error) {
	serialized, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base58.Encode(serialized), nil
}
