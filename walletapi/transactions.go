package walletapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rosepay/client-go/domain"
)

// ListTransactions returns the user's transaction history, newest first.
// A walletID of 0 means all wallets; limit caps the number of entries.
func (c *Client) ListTransactions(ctx context.Context, walletID, limit int) ([]domain.Transaction, error) {
	query := url.Values{}
	if walletID > 0 {
		query.Set("wallet_id", strconv.Itoa(walletID))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var txns []domain.Transaction
	if err := c.gw.Get(ctx, "/transactions", query, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}
