package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rosepay/client-go/domain"
	"github.com/rosepay/client-go/notify"
)

type stubAPI struct {
	mu            sync.Mutex
	addCalls      int
	transferCalls int
	listCalls     int
	createCalls   int

	addErr      error
	transferErr error
	listErr     error
	createErr   error

	wallets []domain.Wallet
	block   chan struct{} // when non-nil, money movements wait on it

	lastTransfer struct {
		walletID    int
		recipientID int
		amount      float64
		description string
	}
}

func (s *stubAPI) AddMoney(_ context.Context, walletID int, amount float64, description string) (*domain.Transaction, error) {
	s.mu.Lock()
	s.addCalls++
	block := s.block
	err := s.addErr
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return &domain.Transaction{ID: 1, WalletID: walletID, Amount: amount, Type: domain.TypeDeposit, Description: description}, nil
}

func (s *stubAPI) Transfer(_ context.Context, walletID, recipientWalletID int, amount float64, description string) (*domain.Transaction, error) {
	s.mu.Lock()
	s.transferCalls++
	s.lastTransfer.walletID = walletID
	s.lastTransfer.recipientID = recipientWalletID
	s.lastTransfer.amount = amount
	s.lastTransfer.description = description
	block := s.block
	err := s.transferErr
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return &domain.Transaction{ID: 2, WalletID: walletID, Amount: amount, Type: domain.TypeTransfer}, nil
}

func (s *stubAPI) ListWallets(_ context.Context) ([]domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.Wallet, len(s.wallets))
	copy(out, s.wallets)
	return out, nil
}

func (s *stubAPI) CreateWallet(_ context.Context, currency string) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	w := domain.Wallet{ID: len(s.wallets) + 1, Currency: currency}
	s.wallets = append(s.wallets, w)
	return &w, nil
}

func (s *stubAPI) moneyCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCalls + s.transferCalls
}

type stubNavigator struct {
	mu    sync.Mutex
	calls int
}

func (n *stubNavigator) NavigateToDashboard() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
}

func (n *stubNavigator) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

func newTestWorkflow(api *stubAPI, nav *stubNavigator) *Workflow {
	opts := Options{
		API:             api,
		NavigationDelay: 20 * time.Millisecond,
		Logger:          zerolog.Nop(),
	}
	if nav != nil {
		opts.Navigator = nav
	}
	return New(opts)
}

func fillTransfer(w *Workflow) {
	w.SetKind(domain.KindTransfer)
	w.Change(FieldSource, "1")
	w.Change(FieldRecipient, "2")
	w.Change(FieldAmount, "50.00")
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSubmit_TransferRequiresConfirmation(t *testing.T) {
	api := &stubAPI{}
	w := newTestWorkflow(api, nil)
	fillTransfer(w)

	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := w.Phase(); got != PhaseAwaitingConfirmation {
		t.Fatalf("expected awaiting confirmation, got %s", got)
	}
	if api.moneyCalls() != 0 {
		t.Fatalf("no network call may happen before confirmation")
	}

	intent, ok := w.ConfirmationSummary()
	if !ok {
		t.Fatalf("expected a pending confirmation summary")
	}
	if intent.TargetWalletID != 2 || intent.Amount != 50.00 {
		t.Fatalf("unexpected summary: %+v", intent)
	}
}

func TestCancelConfirmation_NoSideEffects(t *testing.T) {
	api := &stubAPI{}
	w := newTestWorkflow(api, nil)
	fillTransfer(w)

	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	w.CancelConfirmation()

	if got := w.Phase(); got != PhaseEditing {
		t.Fatalf("expected editing after cancel, got %s", got)
	}
	if api.moneyCalls() != 0 {
		t.Fatalf("cancelling must issue zero network calls")
	}
	if w.Value(FieldAmount) != "50.00" || w.Value(FieldRecipient) != "2" {
		t.Fatalf("cancel must keep entered values")
	}
}

func TestSubmit_AddSkipsConfirmation(t *testing.T) {
	api := &stubAPI{}
	w := newTestWorkflow(api, nil)
	w.SetKind(domain.KindAdd)
	w.Change(FieldSource, "1")
	w.Change(FieldAmount, "25")

	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	api.mu.Lock()
	addCalls := api.addCalls
	api.mu.Unlock()
	if addCalls != 1 {
		t.Fatalf("expected one deposit call, got %d", addCalls)
	}
	if got := w.Phase(); got != PhaseSucceeded {
		t.Fatalf("expected succeeded, got %s", got)
	}
}

func TestSubmit_ValidationBlocksNetwork(t *testing.T) {
	api := &stubAPI{}
	w := newTestWorkflow(api, nil)
	w.SetKind(domain.KindTransfer)
	w.Change(FieldSource, "1")
	// amount and recipient left empty

	err := w.Submit(context.Background())
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if api.moneyCalls() != 0 {
		t.Fatalf("invalid form must issue zero network calls")
	}
	if w.FieldErr(FieldAmount) == "" || w.FieldErr(FieldRecipient) == "" {
		t.Fatalf("expected inline field errors")
	}
}

func TestSubmit_SecondSubmissionWhileInFlightIsRejected(t *testing.T) {
	api := &stubAPI{block: make(chan struct{})}
	w := newTestWorkflow(api, nil)
	w.SetKind(domain.KindAdd)
	w.Change(FieldSource, "1")
	w.Change(FieldAmount, "10")

	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background()) }()

	waitFor(t, func() bool { return w.Phase() == PhaseSubmitting }, "submitting phase")

	if err := w.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	api.mu.Lock()
	calls := api.addCalls
	api.mu.Unlock()
	if calls != 1 {
		t.Fatalf("second submit must not issue a second call, got %d", calls)
	}

	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
}

func TestConfirmedTransfer_SuccessResetsRefetchesAndNavigatesOnce(t *testing.T) {
	api := &stubAPI{wallets: []domain.Wallet{{ID: 1, Balance: 50}, {ID: 2, Balance: 150}}}
	nav := &stubNavigator{}
	w := newTestWorkflow(api, nav)
	fillTransfer(w)
	w.Change(FieldDescription, "rent")

	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := w.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if got := w.Phase(); got != PhaseSucceeded {
		t.Fatalf("expected succeeded, got %s", got)
	}
	api.mu.Lock()
	if api.transferCalls != 1 {
		t.Fatalf("expected one transfer call, got %d", api.transferCalls)
	}
	if api.lastTransfer.walletID != 1 || api.lastTransfer.recipientID != 2 || api.lastTransfer.amount != 50.00 {
		t.Fatalf("unexpected transfer payload: %+v", api.lastTransfer)
	}
	listCalls := api.listCalls
	api.mu.Unlock()
	if listCalls != 1 {
		t.Fatalf("expected one wallet refresh after success, got %d", listCalls)
	}

	// Editable fields reset; wallet selection persists.
	if w.Value(FieldAmount) != "" || w.Value(FieldRecipient) != "" || w.Value(FieldDescription) != "" {
		t.Fatalf("amount/recipient/description must be cleared")
	}
	if w.Value(FieldSource) != "1" {
		t.Fatalf("source wallet selection must persist, got %q", w.Value(FieldSource))
	}
	if len(w.Wallets()) != 2 {
		t.Fatalf("refreshed wallets not stored")
	}

	// Exactly one deferred navigation.
	waitFor(t, func() bool { return nav.count() == 1 }, "deferred navigation")
	time.Sleep(60 * time.Millisecond)
	if nav.count() != 1 {
		t.Fatalf("navigation must fire exactly once, got %d", nav.count())
	}
}

func TestConfirmedTransfer_DomainErrorKeepsValuesAndMessage(t *testing.T) {
	api := &stubAPI{transferErr: &domain.APIError{Status: 400, Message: "insufficient funds"}}
	nav := &stubNavigator{}
	w := newTestWorkflow(api, nav)
	fillTransfer(w)

	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	err := w.Confirm(context.Background())
	if err == nil {
		t.Fatalf("expected the failure to propagate")
	}

	if got := w.Phase(); got != PhaseFailed {
		t.Fatalf("expected failed, got %s", got)
	}
	if w.Err() != "insufficient funds" {
		t.Fatalf("server message must be shown verbatim, got %q", w.Err())
	}
	if w.Value(FieldAmount) != "50.00" || w.Value(FieldRecipient) != "2" {
		t.Fatalf("entered values must survive a failure")
	}

	time.Sleep(60 * time.Millisecond)
	if nav.count() != 0 {
		t.Fatalf("no navigation on failure, got %d", nav.count())
	}

	// Editing after a failure returns to the editable state.
	w.Change(FieldAmount, "25.00")
	if got := w.Phase(); got != PhaseEditing {
		t.Fatalf("expected editing after user input, got %s", got)
	}
	if w.Err() != "" {
		t.Fatalf("editing should clear the inline failure message")
	}
}

func TestTransportErrorUsesFallbackMessage(t *testing.T) {
	api := &stubAPI{transferErr: &domain.TransportError{Err: errors.New("connection refused")}}
	w := newTestWorkflow(api, nil)
	fillTransfer(w)

	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := w.Confirm(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if w.Err() != "Transaction failed. Please try again." {
		t.Fatalf("expected generic fallback, got %q", w.Err())
	}
}

func TestClose_CancelsDeferredNavigation(t *testing.T) {
	api := &stubAPI{}
	nav := &stubNavigator{}
	w := newTestWorkflow(api, nav)
	w.SetKind(domain.KindAdd)
	w.Change(FieldSource, "1")
	w.Change(FieldAmount, "10")

	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	w.Close()

	time.Sleep(60 * time.Millisecond)
	if nav.count() != 0 {
		t.Fatalf("close must cancel the pending navigation, got %d", nav.count())
	}

	if err := w.Submit(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after Close, got %v", err)
	}
}

func TestLateResponseAfterCloseIsNoOp(t *testing.T) {
	api := &stubAPI{block: make(chan struct{})}
	nav := &stubNavigator{}
	w := newTestWorkflow(api, nav)
	w.SetKind(domain.KindAdd)
	w.Change(FieldSource, "1")
	w.Change(FieldAmount, "10")

	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background()) }()
	waitFor(t, func() bool { return w.Phase() == PhaseSubmitting }, "submitting phase")

	w.Close()
	close(api.block)
	<-done

	if w.SuccessMessage() != "" {
		t.Fatalf("late response must not mutate closed workflow state")
	}
	time.Sleep(60 * time.Millisecond)
	if nav.count() != 0 {
		t.Fatalf("no navigation after close, got %d", nav.count())
	}
}

func TestValidationFailurePublishesNotification(t *testing.T) {
	hub := notify.NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.Start(ctx)

	var mu sync.Mutex
	var got []notify.Notification
	hub.Subscribe(func(n notify.Notification) {
		mu.Lock()
		got = append(got, n)
		mu.Unlock()
	})

	api := &stubAPI{}
	w := New(Options{API: api, Notifier: hub, Logger: zerolog.Nop()})
	w.SetKind(domain.KindTransfer)

	if err := w.Submit(context.Background()); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, "notification delivery")

	mu.Lock()
	defer mu.Unlock()
	if got[0].Level != notify.LevelError {
		t.Fatalf("expected error notification, got %+v", got[0])
	}
}

func TestLoadWallets_DefaultsSourceSelection(t *testing.T) {
	api := &stubAPI{wallets: []domain.Wallet{{ID: 7, Balance: 10}, {ID: 9}}}
	w := newTestWorkflow(api, nil)

	if err := w.LoadWallets(context.Background()); err != nil {
		t.Fatalf("load wallets: %v", err)
	}
	if w.Value(FieldSource) != "7" {
		t.Fatalf("expected first wallet selected, got %q", w.Value(FieldSource))
	}

	// An explicit selection is not overridden by a refresh.
	w.Change(FieldSource, "9")
	if err := w.LoadWallets(context.Background()); err != nil {
		t.Fatalf("reload wallets: %v", err)
	}
	if w.Value(FieldSource) != "9" {
		t.Fatalf("existing selection must persist, got %q", w.Value(FieldSource))
	}
}

func TestLoadWallets_FailureDegradesToEmpty(t *testing.T) {
	api := &stubAPI{listErr: &domain.TransportError{Err: errors.New("down")}}
	w := newTestWorkflow(api, nil)

	if err := w.LoadWallets(context.Background()); err == nil {
		t.Fatalf("expected the fetch error to be reported")
	}
	if len(w.Wallets()) != 0 {
		t.Fatalf("failed fetch must leave zero wallets")
	}
}

func TestCreateWallet_SideActionRefreshesList(t *testing.T) {
	api := &stubAPI{}
	w := newTestWorkflow(api, nil)

	wallet, err := w.CreateWallet(context.Background(), "USD")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if wallet.Currency != "USD" {
		t.Fatalf("unexpected wallet: %+v", wallet)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.createCalls != 1 || api.listCalls != 1 {
		t.Fatalf("expected one create and one refresh, got create=%d list=%d", api.createCalls, api.listCalls)
	}
}

func TestCreateWallet_FailureUsesFallbackMessage(t *testing.T) {
	api := &stubAPI{createErr: &domain.TransportError{Err: errors.New("down")}}
	w := newTestWorkflow(api, nil)

	if _, err := w.CreateWallet(context.Background(), "USD"); err == nil {
		t.Fatalf("expected error")
	}
	if w.Err() != "Failed to create wallet." {
		t.Fatalf("expected fallback message, got %q", w.Err())
	}
}
