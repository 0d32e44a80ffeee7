package mockapi

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rosepay/client-go/domain"
)

type createWalletRequest struct {
	Currency string `json:"currency"`
}

type addMoneyRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type transferRequest struct {
	RecipientWalletID int     `json:"recipient_wallet_id"`
	Amount            float64 `json:"amount"`
	Description       string  `json:"description"`
}

type setPINRequest struct {
	PIN string `json:"pin"`
}

func (s *Server) listWallets(c echo.Context) error {
	uid := userID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Wallet{}
	for _, w := range s.wallets {
		if w.UserID == uid {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createWallet(c echo.Context) error {
	var req createWalletRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextWalletID++
	w := &domain.Wallet{
		ID:        s.nextWalletID,
		UserID:    userID(c),
		Balance:   0,
		Currency:  req.Currency,
		CreatedAt: now(),
	}
	s.wallets[w.ID] = w
	return c.JSON(http.StatusCreated, w)
}

func (s *Server) getWallet(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.ownedWallet(c, id)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, w)
}

func (s *Server) addMoney(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var req addMoneyRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Amount <= 0 {
		return detail(c, http.StatusBadRequest, "Amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.ownedWallet(c, id)
	if !ok {
		return nil
	}

	w.Balance += req.Amount
	txn := s.recordTxn(w.UserID, w.ID, 0, req.Amount, domain.TypeDeposit, req.Description)
	return c.JSON(http.StatusOK, txn)
}

func (s *Server) transfer(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Amount <= 0 {
		return detail(c, http.StatusBadRequest, "Amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.ownedWallet(c, id)
	if !ok {
		return nil
	}
	dst, ok := s.wallets[req.RecipientWalletID]
	if !ok {
		return detail(c, http.StatusNotFound, "Recipient wallet not found")
	}
	if src.Balance < req.Amount {
		return detail(c, http.StatusBadRequest, "Insufficient funds")
	}

	src.Balance -= req.Amount
	dst.Balance += req.Amount
	txn := s.recordTxn(src.UserID, src.ID, dst.ID, req.Amount, domain.TypeTransfer, req.Description)
	return c.JSON(http.StatusOK, txn)
}

func (s *Server) setPIN(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var req setPINRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.PIN) != 4 {
		return detail(c, http.StatusBadRequest, "PIN must be 4 digits")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ownedWallet(c, id); !ok {
		return nil
	}
	// PIN verification is server-side only; nothing else to store here.
	return c.JSON(http.StatusOK, map[string]string{"message": "PIN set successfully"})
}

func (s *Server) listTransactions(c echo.Context) error {
	uid := userID(c)
	walletID, _ := strconv.Atoi(c.QueryParam("wallet_id"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 50
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Transaction{}
	for i := len(s.txns) - 1; i >= 0 && len(out) < limit; i-- {
		t := s.txns[i]
		if t.UserID != uid {
			continue
		}
		if walletID > 0 && t.WalletID != walletID {
			continue
		}
		out = append(out, t)
	}
	return c.JSON(http.StatusOK, out)
}

// ownedWallet resolves a wallet the caller owns. On failure the error
// response has already been written and ok is false. Caller holds s.mu.
func (s *Server) ownedWallet(c echo.Context, id int) (*domain.Wallet, bool) {
	w, found := s.wallets[id]
	if !found {
		_ = detail(c, http.StatusNotFound, "Wallet not found")
		return nil, false
	}
	if w.UserID != userID(c) {
		_ = detail(c, http.StatusForbidden, "Not your wallet")
		return nil, false
	}
	return w, true
}

// recordTxn appends a completed ledger entry. Caller holds s.mu.
func (s *Server) recordTxn(uid, walletID, recipientID int, amount float64, kind domain.TransactionType, description string) domain.Transaction {
	s.nextTxnID++
	txn := domain.Transaction{
		ID:                s.nextTxnID,
		UserID:            uid,
		WalletID:          walletID,
		RecipientWalletID: recipientID,
		Amount:            amount,
		Type:              kind,
		Status:            domain.StatusCompleted,
		Description:       description,
		CreatedAt:         now(),
	}
	s.txns = append(s.txns, txn)
	return txn
}
