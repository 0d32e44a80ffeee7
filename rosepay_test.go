package rosepay

import (
	"context"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rosepay/client-go/config"
	"github.com/rosepay/client-go/domain"
	"github.com/rosepay/client-go/internal/mockapi"
	"github.com/rosepay/client-go/workflow"
)

type fakeNavigation struct {
	mu        sync.Mutex
	login     int
	dashboard int
}

func (n *fakeNavigation) NavigateToLogin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.login++
}

func (n *fakeNavigation) NavigateToDashboard() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dashboard++
}

func (n *fakeNavigation) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.login, n.dashboard
}

func TestApp_EndToEndTransfer(t *testing.T) {
	srv := httptest.NewServer(mockapi.New("test-secret").Handler())
	t.Cleanup(srv.Close)

	nav := &fakeNavigation{}
	app, err := New(&config.Config{
		APIBaseURL:      srv.URL + "/api/v1",
		HTTPTimeout:     5 * time.Second,
		SessionDir:      t.TempDir(),
		NavigationDelay: 20 * time.Millisecond,
		LogLevel:        "error",
	}, nav)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.Start(ctx)

	if _, err := app.API.Register(ctx, "zoe@example.com", "secret123", "Zoe"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := app.API.Login(ctx, "zoe@example.com", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !app.Sessions.IsAuthenticated() {
		t.Fatalf("expected a stored session after login")
	}

	w1, err := app.API.CreateWallet(ctx, "USD")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	w2, err := app.API.CreateWallet(ctx, "USD")
	if err != nil {
		t.Fatalf("create second wallet: %v", err)
	}
	if _, err := app.API.AddMoney(ctx, w1.ID, 100, "seed"); err != nil {
		t.Fatalf("fund wallet: %v", err)
	}

	wf := app.NewTransferWorkflow()
	defer wf.Close()

	if err := wf.LoadWallets(ctx); err != nil {
		t.Fatalf("load wallets: %v", err)
	}
	wf.SetKind(domain.KindTransfer)
	wf.Change(workflow.FieldSource, strconv.Itoa(w1.ID))
	wf.Change(workflow.FieldRecipient, strconv.Itoa(w2.ID))
	wf.Change(workflow.FieldAmount, "50.00")

	if err := wf.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := wf.Confirm(ctx); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if wf.Phase() != workflow.PhaseSucceeded {
		t.Fatalf("expected succeeded, got %s", wf.Phase())
	}

	wallets := wf.Wallets()
	if len(wallets) != 2 || wallets[0].Balance != 50 || wallets[1].Balance != 50 {
		t.Fatalf("refreshed balances wrong: %+v", wallets)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, dashboard := nav.counts(); dashboard == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("deferred navigation never fired")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Rejected credential: central recovery via the gateway.
	if err := app.Sessions.Set(domain.Credential{Token: "forged"}); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if _, err := app.API.ListWallets(ctx); err == nil {
		t.Fatalf("expected forged token to be rejected")
	}
	login, _ := nav.counts()
	if login != 1 {
		t.Fatalf("expected one login navigation, got %d", login)
	}
	if app.Sessions.IsAuthenticated() {
		t.Fatalf("session must be cleared after rejection")
	}
}
