package mockapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rosepay/client-go/domain"
)

func (s *Server) stats(c echo.Context) error {
	uid := userID(c)
	walletID, _ := strconv.Atoi(c.QueryParam("wallet_id"))
	days, _ := strconv.Atoi(c.QueryParam("days"))
	if days <= 0 {
		days = 30
	}
	cutoff := now().AddDate(0, 0, -days)

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.TransactionStats{PeriodDays: days}
	var total float64
	for _, t := range s.txns {
		if t.UserID != uid || t.CreatedAt.Before(cutoff) {
			continue
		}
		if walletID > 0 && t.WalletID != walletID {
			continue
		}
		switch t.Type {
		case domain.TypeDeposit:
			stats.TotalDeposits += t.Amount
		case domain.TypeWithdrawal:
			stats.TotalWithdrawals += t.Amount
		case domain.TypeTransfer:
			stats.TotalTransfers += t.Amount
		case domain.TypePayment:
			stats.TotalPayments += t.Amount
		}
		stats.TransactionCount++
		total += t.Amount
	}
	if stats.TransactionCount > 0 {
		stats.AverageTransaction = total / float64(stats.TransactionCount)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) breakdown(c echo.Context) error {
	uid := userID(c)
	days, _ := strconv.Atoi(c.QueryParam("days"))
	if days <= 0 {
		days = 30
	}
	cutoff := now().AddDate(0, 0, -days)

	s.mu.Lock()
	defer s.mu.Unlock()

	var b domain.SpendingBreakdown
	for _, t := range s.txns {
		if t.UserID != uid || t.CreatedAt.Before(cutoff) {
			continue
		}
		switch t.Type {
		case domain.TypeDeposit:
			b.Deposits += t.Amount
		case domain.TypeWithdrawal:
			b.Withdrawals += t.Amount
		case domain.TypeTransfer:
			b.Transfers += t.Amount
		case domain.TypePayment:
			b.Payments += t.Amount
		}
	}
	return c.JSON(http.StatusOK, b)
}

func (s *Server) daily(c echo.Context) error {
	uid := userID(c)
	walletID, _ := strconv.Atoi(c.QueryParam("wallet_id"))
	date := c.QueryParam("date")
	if date == "" {
		date = now().Format("2006-01-02")
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	summary := domain.DailySummary{Date: date, Transactions: []domain.Transaction{}}
	for _, t := range s.txns {
		if t.UserID != uid {
			continue
		}
		if walletID > 0 && t.WalletID != walletID {
			continue
		}
		if t.CreatedAt.Before(day) || !t.CreatedAt.Before(day.AddDate(0, 0, 1)) {
			continue
		}
		summary.Transactions = append(summary.Transactions, t)
		summary.TransactionCount++
		summary.TotalAmount += t.Amount
	}
	return c.JSON(http.StatusOK, summary)
}
