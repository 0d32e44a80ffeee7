package domain

import "time"

// PaymentLink is a shareable request-for-payment created by the user.
type PaymentLink struct {
	ID          int       `json:"id"`
	LinkID      string    `json:"link_id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	PaymentURL  string    `json:"payment_url"`
}

// PaymentRequest asks a specific user for money, to be accepted or ignored.
type PaymentRequest struct {
	ID          int               `json:"id"`
	RequesterID int               `json:"requester_id"`
	RecipientID int               `json:"recipient_id"`
	Amount      float64           `json:"amount"`
	Description string            `json:"description,omitempty"`
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// QRCode carries a server-rendered QR image for a payment link.
type QRCode struct {
	// Image is the base64-encoded PNG.
	Image string `json:"qr_code"`
	// Data is the payload the QR encodes (the payment URL).
	Data string `json:"data"`
}
