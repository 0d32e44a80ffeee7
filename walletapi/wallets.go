package walletapi

import (
	"context"
	"fmt"

	"github.com/rosepay/client-go/domain"
)

type createWalletRequest struct {
	Currency string `json:"currency"`
}

type addMoneyRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

type transferRequest struct {
	RecipientWalletID int     `json:"recipient_wallet_id"`
	Amount            float64 `json:"amount"`
	Description       string  `json:"description,omitempty"`
}

type setPINRequest struct {
	PIN string `json:"pin"`
}

// ListWallets returns every wallet owned by the current user.
func (c *Client) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	if err := c.gw.Get(ctx, "/wallets", nil, &wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

// GetWallet returns a single wallet by ID.
func (c *Client) GetWallet(ctx context.Context, walletID int) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := c.gw.Get(ctx, fmt.Sprintf("/wallets/%d", walletID), nil, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// CreateWallet opens a new wallet in the given currency.
func (c *Client) CreateWallet(ctx context.Context, currency string) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := c.gw.Post(ctx, "/wallets", createWalletRequest{Currency: currency}, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// AddMoney deposits into one of the user's own wallets.
func (c *Client) AddMoney(ctx context.Context, walletID int, amount float64, description string) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := c.gw.Post(ctx, fmt.Sprintf("/wallets/%d/add-money", walletID), addMoneyRequest{
		Amount:      amount,
		Description: description,
	}, &txn)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Transfer moves money from walletID to the recipient's wallet. The server
// is the sole authority on balance checks and double-entry consistency.
func (c *Client) Transfer(ctx context.Context, walletID, recipientWalletID int, amount float64, description string) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := c.gw.Post(ctx, fmt.Sprintf("/wallets/%d/transfer", walletID), transferRequest{
		RecipientWalletID: recipientWalletID,
		Amount:            amount,
		Description:       description,
	}, &txn)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// SetWalletPIN sets the confirmation PIN on a wallet.
func (c *Client) SetWalletPIN(ctx context.Context, walletID int, pin string) error {
	return c.gw.Post(ctx, fmt.Sprintf("/wallets/%d/set-pin", walletID), setPINRequest{PIN: pin}, nil)
}
