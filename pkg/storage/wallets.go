package storage

import (
	"context"

	"github.com/skinsge/marketplace/pkg/models"
)

// WalletStore defines the interface for managing per-currency wallets.
type WalletStore interface {
	// GetWallet retrieves a user's wallet for one currency.
	GetWallet(ctx context.Context, userID string, currency models.Currency) (*models.Wallet, error)

	// CreateWallet creates a new wallet for a user and currency.
	CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)

	// ListWalletsByUser retrieves all of a user's wallets.
	ListWalletsByUser(ctx context.Context, userID string) ([]models.Wallet, error)

	// Deposit credits the wallet and appends a completed deposit ledger entry
	// in the same atomic write.
	Deposit(ctx context.Context, userID string, currency models.Currency, amount int64) (*models.Wallet, error)

	// Withdraw debits the wallet and appends a completed withdrawal ledger
	// entry atomically. Fails with ErrInsufficientFunds if the balance cannot
	// cover the amount.
	Withdraw(ctx context.Context, userID string, currency models.Currency, amount int64) (*models.Wallet, error)
}
