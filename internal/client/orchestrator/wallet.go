package orchestrator

import (
	"sync"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// DemoCredits is what an anonymous session starts with
const DemoCredits = entity.DefaultDailyCredits

// Wallet is the balance the orchestrator checks and charges
type Wallet interface {
	Balance() int
	// Deduct charges n credits; false means the balance was too low
	Deduct(n int) bool
}

// DemoWallet is a local, never persisted balance for anonymous use
type DemoWallet struct {
	mu      sync.Mutex
	credits int
}

// NewDemoWallet starts a wallet at DemoCredits
func NewDemoWallet() *DemoWallet {
	return &DemoWallet{credits: DemoCredits}
}

func (w *DemoWallet) Balance() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.credits
}

func (w *DemoWallet) Deduct(n int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n < 0 || n > w.credits {
		return false
	}
	w.credits -= n
	return true
}

// Set overwrites the balance, floored at zero
func (w *DemoWallet) Set(credits int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.credits = max(credits, 0)
}

// Reset puts the wallet back to DemoCredits
func (w *DemoWallet) Reset() {
	w.Set(DemoCredits)
}

// AccountWallet mirrors a signed-in user's server balance. The server charges
// generations itself and reports the remainder through Sync, so Deduct never
// changes the balance.
type AccountWallet struct {
	mu      sync.Mutex
	credits int
}

// NewAccountWallet starts from the balance last reported by the server
func NewAccountWallet(credits int) *AccountWallet {
	return &AccountWallet{credits: max(credits, 0)}
}

func (w *AccountWallet) Balance() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.credits
}

func (w *AccountWallet) Deduct(n int) bool {
	return n >= 0
}

// Sync stores the balance reported by the server
func (w *AccountWallet) Sync(credits int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.credits = max(credits, 0)
}
