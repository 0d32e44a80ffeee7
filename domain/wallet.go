package domain

import "time"

// TransactionType categorises a ledger entry.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeTransfer   TransactionType = "transfer"
	TypePayment    TransactionType = "payment"
)

// TransactionStatus is the server-side settlement state of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Wallet is a read-only projection of a server-side wallet. Balances are
// never computed locally; the client re-fetches after any money movement so
// it cannot diverge from the authoritative server value.
type Wallet struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is a single ledger entry as reported by the server.
type Transaction struct {
	ID                int               `json:"id"`
	UserID            int               `json:"user_id"`
	WalletID          int               `json:"wallet_id"`
	RecipientWalletID int               `json:"recipient_wallet_id,omitempty"`
	Amount            float64           `json:"amount"`
	Type              TransactionType   `json:"transaction_type"`
	Status            TransactionStatus `json:"status"`
	Description       string            `json:"description,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}
