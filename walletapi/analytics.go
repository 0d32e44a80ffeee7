package walletapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rosepay/client-go/domain"
)

// TransactionStats aggregates the user's activity over the trailing days
// window. A walletID of 0 spans all wallets.
func (c *Client) TransactionStats(ctx context.Context, walletID, days int) (*domain.TransactionStats, error) {
	query := url.Values{}
	if walletID > 0 {
		query.Set("wallet_id", strconv.Itoa(walletID))
	}
	if days > 0 {
		query.Set("days", strconv.Itoa(days))
	}

	var stats domain.TransactionStats
	if err := c.gw.Get(ctx, "/analytics/stats", query, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SpendingBreakdown splits the window's spend by transaction type.
func (c *Client) SpendingBreakdown(ctx context.Context, days int) (*domain.SpendingBreakdown, error) {
	query := url.Values{}
	if days > 0 {
		query.Set("days", strconv.Itoa(days))
	}

	var breakdown domain.SpendingBreakdown
	if err := c.gw.Get(ctx, "/analytics/breakdown", query, &breakdown); err != nil {
		return nil, err
	}
	return &breakdown, nil
}

// DailySummary lists one day's transactions. An empty date means today; a
// walletID of 0 spans all wallets.
func (c *Client) DailySummary(ctx context.Context, walletID int, date string) (*domain.DailySummary, error) {
	query := url.Values{}
	if walletID > 0 {
		query.Set("wallet_id", strconv.Itoa(walletID))
	}
	if date != "" {
		query.Set("date", date)
	}

	var summary domain.DailySummary
	if err := c.gw.Get(ctx, "/analytics/daily", query, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
