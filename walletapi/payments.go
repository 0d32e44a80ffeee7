package walletapi

import (
	"context"
	"fmt"

	"github.com/rosepay/client-go/domain"
)

type createLinkRequest struct {
	Amount       float64 `json:"amount"`
	Description  string  `json:"description,omitempty"`
	ExpiresHours int     `json:"expires_in_hours,omitempty"`
}

type payLinkRequest struct {
	WalletID int `json:"wallet_id"`
}

type createPaymentRequestRequest struct {
	RecipientEmail string  `json:"recipient_email"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description,omitempty"`
}

type acceptPaymentRequestRequest struct {
	WalletID int `json:"wallet_id"`
}

// CreatePaymentLink creates a shareable link requesting amount.
// expiresHours of 0 uses the server default of 24 hours.
func (c *Client) CreatePaymentLink(ctx context.Context, amount float64, description string, expiresHours int) (*domain.PaymentLink, error) {
	var link domain.PaymentLink
	err := c.gw.Post(ctx, "/payments/link/create", createLinkRequest{
		Amount:       amount,
		Description:  description,
		ExpiresHours: expiresHours,
	}, &link)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// GetPaymentLink returns the public details of a link.
func (c *Client) GetPaymentLink(ctx context.Context, linkID string) (*domain.PaymentLink, error) {
	var link domain.PaymentLink
	if err := c.gw.Get(ctx, "/payments/link/"+linkID, nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// PayPaymentLink settles a link from the given wallet.
func (c *Client) PayPaymentLink(ctx context.Context, linkID string, walletID int) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := c.gw.Post(ctx, fmt.Sprintf("/payments/link/%s/pay", linkID), payLinkRequest{WalletID: walletID}, &txn)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// PaymentLinkQR returns the server-rendered QR code for a link.
func (c *Client) PaymentLinkQR(ctx context.Context, linkID string) (*domain.QRCode, error) {
	var qr domain.QRCode
	if err := c.gw.Get(ctx, fmt.Sprintf("/payments/link/%s/qr", linkID), nil, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

// CreatePaymentRequest asks another user for money by email.
func (c *Client) CreatePaymentRequest(ctx context.Context, recipientEmail string, amount float64, description string) (*domain.PaymentRequest, error) {
	var pr domain.PaymentRequest
	err := c.gw.Post(ctx, "/payments/request/create", createPaymentRequestRequest{
		RecipientEmail: recipientEmail,
		Amount:         amount,
		Description:    description,
	}, &pr)
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

// ListPaymentRequests returns requests involving the current user.
func (c *Client) ListPaymentRequests(ctx context.Context) ([]domain.PaymentRequest, error) {
	var prs []domain.PaymentRequest
	if err := c.gw.Get(ctx, "/payments/requests", nil, &prs); err != nil {
		return nil, err
	}
	return prs, nil
}

// AcceptPaymentRequest pays an incoming request from the given wallet.
func (c *Client) AcceptPaymentRequest(ctx context.Context, requestID, walletID int) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := c.gw.Post(ctx, fmt.Sprintf("/payments/request/%d/accept", requestID), acceptPaymentRequestRequest{WalletID: walletID}, &txn)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
