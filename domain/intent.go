package domain

// IntentKind selects which money-movement operation an intent describes.
type IntentKind string

const (
	// KindAdd is a self-deposit into one of the user's own wallets.
	KindAdd IntentKind = "add"
	// KindTransfer moves money from a source wallet to a recipient wallet.
	KindTransfer IntentKind = "transfer"
)

// TransferIntent is the in-flight description of a money-movement request.
// It is created when the user submits the workflow form, consumed by exactly
// one gateway call, and discarded once that call resolves.
type TransferIntent struct {
	Kind           IntentKind
	SourceWalletID int
	TargetWalletID int // unused for KindAdd
	Amount         float64
	Description    string
}
