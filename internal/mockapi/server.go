// Package mockapi is an in-memory RosePay API used by the SDK's own tests.
// It speaks the real service's contract: bearer-token auth, FastAPI-style
// {"detail": "..."} error envelopes, and the wallet/transaction/payment/
// analytics routes the client calls.
package mockapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rosepay/client-go/domain"
)

// Server holds the whole fake ledger behind one mutex. State lives for the
// lifetime of the test.
type Server struct {
	e      *echo.Echo
	secret string

	mu       sync.Mutex
	users    map[int]*account
	byEmail  map[string]int
	wallets  map[int]*domain.Wallet
	txns     []domain.Transaction
	links    map[string]*domain.PaymentLink
	requests map[int]*domain.PaymentRequest

	nextUserID    int
	nextWalletID  int
	nextTxnID     int
	nextLinkID    int
	nextRequestID int
}

type account struct {
	user         domain.User
	passwordHash string
}

// New builds a Server signing tokens with secret.
func New(secret string) *Server {
	s := &Server{
		e:        echo.New(),
		secret:   secret,
		users:    make(map[int]*account),
		byEmail:  make(map[string]int),
		wallets:  make(map[int]*domain.Wallet),
		links:    make(map[string]*domain.PaymentLink),
		requests: make(map[int]*domain.PaymentRequest),
	}
	s.e.HideBanner = true
	s.routes()
	return s
}

// Handler exposes the server for httptest.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) routes() {
	v1 := s.e.Group("/api/v1")

	v1.POST("/users/register", s.register)
	v1.POST("/users/login", s.login)

	auth := v1.Group("", s.requireAuth)
	auth.GET("/wallets", s.listWallets)
	auth.POST("/wallets", s.createWallet)
	auth.GET("/wallets/:id", s.getWallet)
	auth.POST("/wallets/:id/add-money", s.addMoney)
	auth.POST("/wallets/:id/transfer", s.transfer)
	auth.POST("/wallets/:id/set-pin", s.setPIN)

	auth.GET("/transactions", s.listTransactions)

	auth.POST("/payments/link/create", s.createLink)
	auth.GET("/payments/link/:link_id", s.getLink)
	auth.POST("/payments/link/:link_id/pay", s.payLink)
	auth.GET("/payments/link/:link_id/qr", s.linkQR)
	auth.POST("/payments/request/create", s.createRequest)
	auth.GET("/payments/requests", s.listRequests)
	auth.POST("/payments/request/:id/accept", s.acceptRequest)

	auth.GET("/analytics/stats", s.stats)
	auth.GET("/analytics/breakdown", s.breakdown)
	auth.GET("/analytics/daily", s.daily)
}

// detail renders the FastAPI-style error envelope the real service emits.
func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

func now() time.Time { return time.Now().UTC() }
