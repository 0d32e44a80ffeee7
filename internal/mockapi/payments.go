package mockapi

import (
	"encoding/base64"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rosepay/client-go/domain"
)

type createLinkRequest struct {
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	ExpiresHours int     `json:"expires_in_hours"`
}

type payLinkRequest struct {
	WalletID int `json:"wallet_id"`
}

type createPaymentRequestRequest struct {
	RecipientEmail string  `json:"recipient_email"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description"`
}

type acceptRequestRequest struct {
	WalletID int `json:"wallet_id"`
}

func (s *Server) createLink(c echo.Context) error {
	var req createLinkRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Amount <= 0 {
		return detail(c, http.StatusBadRequest, "Amount must be positive")
	}
	if req.ExpiresHours <= 0 {
		req.ExpiresHours = 24
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextLinkID++
	linkID := uuid.NewString()
	link := &domain.PaymentLink{
		ID:          s.nextLinkID,
		LinkID:      linkID,
		Amount:      req.Amount,
		Description: req.Description,
		IsActive:    true,
		ExpiresAt:   now().Add(time.Duration(req.ExpiresHours) * time.Hour),
		CreatedAt:   now(),
		PaymentURL:  "https://pay.rosepay.test/pay/" + linkID,
	}
	s.links[linkID] = link
	return c.JSON(http.StatusCreated, link)
}

func (s *Server) getLink(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[c.Param("link_id")]
	if !ok {
		return detail(c, http.StatusNotFound, "Payment link not found")
	}
	return c.JSON(http.StatusOK, link)
}

func (s *Server) payLink(c echo.Context) error {
	var req payLinkRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[c.Param("link_id")]
	if !ok {
		return detail(c, http.StatusNotFound, "Payment link not found")
	}
	if !link.IsActive || now().After(link.ExpiresAt) {
		return detail(c, http.StatusBadRequest, "Payment link is no longer active")
	}

	w, ok := s.ownedWallet(c, req.WalletID)
	if !ok {
		return nil
	}
	if w.Balance < link.Amount {
		return detail(c, http.StatusBadRequest, "Insufficient funds")
	}

	w.Balance -= link.Amount
	link.IsActive = false
	txn := s.recordTxn(w.UserID, w.ID, 0, link.Amount, domain.TypePayment, link.Description)
	return c.JSON(http.StatusOK, txn)
}

func (s *Server) linkQR(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[c.Param("link_id")]
	if !ok {
		return detail(c, http.StatusNotFound, "Payment link not found")
	}

	// Stand-in image payload; the client treats it as opaque base64.
	return c.JSON(http.StatusOK, domain.QRCode{
		Image: base64.StdEncoding.EncodeToString([]byte(link.PaymentURL)),
		Data:  link.PaymentURL,
	})
}

func (s *Server) createRequest(c echo.Context) error {
	var req createPaymentRequestRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Amount <= 0 {
		return detail(c, http.StatusBadRequest, "Amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipientID, ok := s.byEmail[req.RecipientEmail]
	if !ok {
		return detail(c, http.StatusNotFound, "Recipient not found")
	}

	s.nextRequestID++
	pr := &domain.PaymentRequest{
		ID:          s.nextRequestID,
		RequesterID: userID(c),
		RecipientID: recipientID,
		Amount:      req.Amount,
		Description: req.Description,
		Status:      domain.StatusPending,
		CreatedAt:   now(),
	}
	s.requests[pr.ID] = pr
	return c.JSON(http.StatusCreated, pr)
}

func (s *Server) listRequests(c echo.Context) error {
	uid := userID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.PaymentRequest{}
	for _, pr := range s.requests {
		if pr.RequesterID == uid || pr.RecipientID == uid {
			out = append(out, *pr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) acceptRequest(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var req acceptRequestRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pr, ok := s.requests[id]
	if !ok {
		return detail(c, http.StatusNotFound, "Payment request not found")
	}
	if pr.RecipientID != userID(c) {
		return detail(c, http.StatusForbidden, "Not your payment request")
	}
	if pr.Status != domain.StatusPending {
		return detail(c, http.StatusBadRequest, "Payment request already settled")
	}

	w, ok := s.ownedWallet(c, req.WalletID)
	if !ok {
		return nil
	}
	if w.Balance < pr.Amount {
		return detail(c, http.StatusBadRequest, "Insufficient funds")
	}

	// Requester is credited on their first wallet, if any.
	var requesterWallet *domain.Wallet
	for _, rw := range s.wallets {
		if rw.UserID == pr.RequesterID {
			if requesterWallet == nil || rw.ID < requesterWallet.ID {
				requesterWallet = rw
			}
		}
	}
	if requesterWallet == nil {
		return detail(c, http.StatusBadRequest, "Requester has no wallet")
	}

	w.Balance -= pr.Amount
	requesterWallet.Balance += pr.Amount
	pr.Status = domain.StatusCompleted
	txn := s.recordTxn(w.UserID, w.ID, requesterWallet.ID, pr.Amount, domain.TypePayment, pr.Description)
	return c.JSON(http.StatusOK, txn)
}
