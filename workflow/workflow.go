// Package workflow drives the money-movement operation: edit the intent,
// validate it, confirm transfers, submit exactly one request, reconcile
// local wallet state against the server, and schedule the post-success
// navigation. The phase is an explicit tagged state, not a pile of booleans,
// so impossible combinations (loading and failed at once) cannot exist.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rosepay/client-go/domain"
	"github.com/rosepay/client-go/form"
	"github.com/rosepay/client-go/notify"
)

// Phase is the workflow's current state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEditing
	PhaseAwaitingConfirmation
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEditing:
		return "editing"
	case PhaseAwaitingConfirmation:
		return "awaiting_confirmation"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Form field names.
const (
	FieldType        = "type"
	FieldSource      = "source_wallet_id"
	FieldRecipient   = "recipient_wallet_id"
	FieldAmount      = "amount"
	FieldDescription = "description"
)

var (
	// ErrBusy means a submission is already in flight; the duplicate attempt
	// issued zero network calls.
	ErrBusy = errors.New("submission already in flight")
	// ErrInvalid means validation blocked the submission before any network
	// call. Field messages are on the form.
	ErrInvalid = errors.New("form has validation errors")
	// ErrNoConfirmationPending means Confirm was called outside the
	// awaiting-confirmation phase.
	ErrNoConfirmationPending = errors.New("no confirmation pending")
	// ErrClosed means the workflow instance was torn down.
	ErrClosed = errors.New("workflow closed")
)

const (
	fallbackSubmitMessage       = "Transaction failed. Please try again."
	fallbackCreateWalletMessage = "Failed to create wallet."
	invalidFormMessage          = "Please fix the errors in the form"

	defaultNavigationDelay = 2 * time.Second
)

// MoneyMover is the slice of the API the workflow depends on.
type MoneyMover interface {
	AddMoney(ctx context.Context, walletID int, amount float64, description string) (*domain.Transaction, error)
	Transfer(ctx context.Context, walletID, recipientWalletID int, amount float64, description string) (*domain.Transaction, error)
	ListWallets(ctx context.Context) ([]domain.Wallet, error)
	CreateWallet(ctx context.Context, currency string) (*domain.Wallet, error)
}

// Navigator receives the deferred navigation to the summary surface after a
// successful submission.
type Navigator interface {
	NavigateToDashboard()
}

// Options configures a Workflow instance.
type Options struct {
	API      MoneyMover
	Notifier *notify.Hub
	// Navigator may be nil; the deferred navigation is then a no-op.
	Navigator Navigator
	// NavigationDelay defaults to 2s: long enough for the user to see the
	// success state before leaving.
	NavigationDelay time.Duration
	Logger          zerolog.Logger
}

// Workflow is one instance of the transfer/deposit state machine. All
// methods are safe for concurrent use; at most one submission is in flight
// at a time.
type Workflow struct {
	api      MoneyMover
	hub      *notify.Hub
	nav      Navigator
	navDelay time.Duration
	log      zerolog.Logger

	mu         sync.Mutex
	phase      Phase
	form       *form.Form
	wallets    []domain.Wallet
	errMsg     string
	successMsg string
	navTimer   *time.Timer
	closed     bool
}

func New(opts Options) *Workflow {
	delay := opts.NavigationDelay
	if delay <= 0 {
		delay = defaultNavigationDelay
	}
	return &Workflow{
		api:      opts.API,
		hub:      opts.Notifier,
		nav:      opts.Navigator,
		navDelay: delay,
		log:      opts.Logger,
		phase:    PhaseIdle,
		form:     newIntentForm(),
	}
}

// whenTransfer applies rule only while the operation kind is a transfer;
// deposit intents have no recipient.
func whenTransfer(rule form.Rule) form.Rule {
	return func(value string, values map[string]string) string {
		if values[FieldType] != string(domain.KindTransfer) {
			return ""
		}
		return rule(value, values)
	}
}

func newIntentForm() *form.Form {
	return form.New(
		map[string]string{
			FieldType:        string(domain.KindTransfer),
			FieldSource:      "",
			FieldRecipient:   "",
			FieldAmount:      "",
			FieldDescription: "",
		},
		map[string][]form.Rule{
			FieldSource: {
				form.Required("Please select a wallet"),
				form.IntegerID("Please select a wallet"),
			},
			FieldRecipient: {
				whenTransfer(form.Required("Recipient wallet is required")),
				whenTransfer(form.IntegerID("Recipient wallet must be a valid wallet ID")),
			},
			FieldAmount: {
				form.Required("Amount is required"),
				form.PositiveAmount("Amount must be greater than zero"),
			},
		},
	)
}

// SetKind switches between add-money and transfer. Clears any visible
// outcome message, as the form now describes a different operation.
func (w *Workflow) SetKind(kind domain.IntentKind) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.Change(FieldType, string(kind))
	w.editLocked()
}

// Change updates one field. The field is only re-validated if previously
// touched. Editing clears the outcome messages.
func (w *Workflow) Change(name, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.Change(name, value)
	w.editLocked()
}

// Blur marks the field touched and validates it.
func (w *Workflow) Blur(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.Blur(name)
}

// editLocked moves the machine (back) into Editing after user input.
func (w *Workflow) editLocked() {
	if w.phase == PhaseIdle || w.phase == PhaseFailed || w.phase == PhaseSucceeded {
		w.phase = PhaseEditing
	}
	w.errMsg = ""
	w.successMsg = ""
}

// Phase returns the current state.
func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// Err returns the inline failure message, or "".
func (w *Workflow) Err() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errMsg
}

// SuccessMessage returns the inline success message, or "".
func (w *Workflow) SuccessMessage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.successMsg
}

// Value returns a form field's current value.
func (w *Workflow) Value(name string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.Value(name)
}

// FieldErr returns a form field's visible validation message.
func (w *Workflow) FieldErr(name string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.Err(name)
}

// Wallets returns the last fetched wallet list.
func (w *Workflow) Wallets() []domain.Wallet {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.Wallet, len(w.wallets))
	copy(out, w.wallets)
	return out
}

// LoadWallets refreshes the wallet list and defaults the source selection to
// the first wallet when none is selected yet. A failed fetch degrades to an
// empty list; the error is returned for the caller to surface.
func (w *Workflow) LoadWallets(ctx context.Context) error {
	wallets, err := w.api.ListWallets(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to load wallets")
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.wallets = wallets
	if w.form.Value(FieldSource) == "" && len(wallets) > 0 {
		w.form.Change(FieldSource, strconv.Itoa(wallets[0].ID))
	}
	return nil
}

// Intent assembles the current TransferIntent from the form. Only meaningful
// after validation has passed.
func (w *Workflow) Intent() domain.TransferIntent {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.intentLocked()
}

func (w *Workflow) intentLocked() domain.TransferIntent {
	source, _ := strconv.Atoi(w.form.Value(FieldSource))
	target, _ := strconv.Atoi(w.form.Value(FieldRecipient))
	amount, _ := strconv.ParseFloat(w.form.Value(FieldAmount), 64)
	return domain.TransferIntent{
		Kind:           domain.IntentKind(w.form.Value(FieldType)),
		SourceWalletID: source,
		TargetWalletID: target,
		Amount:         amount,
		Description:    w.form.Value(FieldDescription),
	}
}

// Submit validates the intent and either requests confirmation (transfers)
// or submits immediately (deposits carry lower risk and skip confirmation).
// Zero network calls are issued unless the form is valid and, for transfers,
// the user subsequently confirms.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.phase == PhaseSubmitting {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.phase == PhaseAwaitingConfirmation {
		w.mu.Unlock()
		return ErrNoConfirmationPending
	}

	if !w.form.ValidateAll() {
		w.phase = PhaseEditing
		w.errMsg = invalidFormMessage
		w.mu.Unlock()
		if w.hub != nil {
			w.hub.Error(invalidFormMessage)
		}
		return ErrInvalid
	}

	intent := w.intentLocked()
	if intent.Kind == domain.KindTransfer {
		w.phase = PhaseAwaitingConfirmation
		w.mu.Unlock()
		return nil
	}

	w.phase = PhaseSubmitting
	w.mu.Unlock()
	return w.execute(ctx, intent)
}

// ConfirmationSummary exposes the pending intent for the confirmation
// prompt (destination and amount). ok is false outside the
// awaiting-confirmation phase.
func (w *Workflow) ConfirmationSummary() (intent domain.TransferIntent, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseAwaitingConfirmation {
		return domain.TransferIntent{}, false
	}
	return w.intentLocked(), true
}

// Confirm executes the pending transfer after the user accepted the prompt.
func (w *Workflow) Confirm(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.phase == PhaseSubmitting {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.phase != PhaseAwaitingConfirmation {
		w.mu.Unlock()
		return ErrNoConfirmationPending
	}

	intent := w.intentLocked()
	w.phase = PhaseSubmitting
	w.mu.Unlock()
	return w.execute(ctx, intent)
}

// CancelConfirmation dismisses the prompt and returns to editing. No side
// effects: the entered values stay, zero network calls were made.
func (w *Workflow) CancelConfirmation() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseAwaitingConfirmation {
		w.phase = PhaseEditing
	}
}

// execute issues exactly one gateway call for the intent and reconciles
// state from the response. The caller has already moved the phase to
// Submitting.
func (w *Workflow) execute(ctx context.Context, intent domain.TransferIntent) error {
	var err error
	var successMsg string

	switch intent.Kind {
	case domain.KindAdd:
		_, err = w.api.AddMoney(ctx, intent.SourceWalletID, intent.Amount, intent.Description)
		successMsg = fmt.Sprintf("Successfully added $%s to wallet!", w.amountText(intent))
	default:
		_, err = w.api.Transfer(ctx, intent.SourceWalletID, intent.TargetWalletID, intent.Amount, intent.Description)
		successMsg = fmt.Sprintf("Successfully transferred $%s!", w.amountText(intent))
	}

	if err != nil {
		w.fail(err, intent)
		return err
	}

	w.succeed(successMsg, intent)

	// Refresh after the submission's response has been observed, never
	// concurrently with it: the displayed balances cannot be older than the
	// operation that just completed.
	w.refreshWallets(ctx)
	w.scheduleNavigation()
	return nil
}

func (w *Workflow) amountText(intent domain.TransferIntent) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if v := w.form.Value(FieldAmount); v != "" {
		return v
	}
	return strconv.FormatFloat(intent.Amount, 'f', 2, 64)
}

// fail records the failure and returns to an editable state with the entered
// values intact. Retries are user-initiated only.
func (w *Workflow) fail(err error, intent domain.TransferIntent) {
	msg := domain.ErrorMessage(err, fallbackSubmitMessage)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.phase = PhaseFailed
	w.errMsg = msg
	w.mu.Unlock()

	w.log.Warn().Err(err).
		Str("kind", string(intent.Kind)).
		Int("source_wallet_id", intent.SourceWalletID).
		Msg("submission failed")
	if w.hub != nil {
		w.hub.Error(msg)
	}
}

// succeed resets the editable fields (the wallet selection persists) and
// records the success state. A response landing after Close is a no-op.
func (w *Workflow) succeed(msg string, intent domain.TransferIntent) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.phase = PhaseSucceeded
	w.successMsg = msg
	w.errMsg = ""
	w.form.Reset(map[string]string{
		FieldRecipient:   "",
		FieldAmount:      "",
		FieldDescription: "",
	})
	w.mu.Unlock()

	w.log.Info().
		Str("kind", string(intent.Kind)).
		Int("source_wallet_id", intent.SourceWalletID).
		Float64("amount", intent.Amount).
		Msg("submission succeeded")
	if w.hub != nil {
		w.hub.Success(msg)
	}
}

func (w *Workflow) refreshWallets(ctx context.Context) {
	wallets, err := w.api.ListWallets(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("wallet refresh after submission failed")
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.wallets = wallets
}

// scheduleNavigation arms a single cancellable timer for the deferred
// navigation to the summary surface.
func (w *Workflow) scheduleNavigation() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.nav == nil {
		return
	}
	if w.navTimer != nil {
		w.navTimer.Stop()
	}
	w.navTimer = time.AfterFunc(w.navDelay, func() {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		w.navTimer = nil
		w.mu.Unlock()
		w.nav.NavigateToDashboard()
	})
}

// CreateWallet is a side, stateless action outside the state machine: one
// call, no confirmation, no intent. On success the wallet list is re-fetched.
func (w *Workflow) CreateWallet(ctx context.Context, currency string) (*domain.Wallet, error) {
	wallet, err := w.api.CreateWallet(ctx, currency)
	if err != nil {
		msg := domain.ErrorMessage(err, fallbackCreateWalletMessage)
		w.mu.Lock()
		if !w.closed {
			w.errMsg = msg
		}
		w.mu.Unlock()
		if w.hub != nil {
			w.hub.Error(msg)
		}
		return nil, err
	}

	if w.hub != nil {
		w.hub.Success("Wallet created successfully!")
	}
	w.refreshWallets(ctx)
	return wallet, nil
}

// Close tears the instance down: the pending navigation is cancelled and any
// late response becomes a no-op instead of mutating unowned state.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.navTimer != nil {
		w.navTimer.Stop()
		w.navTimer = nil
	}
}
