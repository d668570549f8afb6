package payment

import (
	"math/big"
	"sync"

	"go.uber.org/zap"
)

// Rail pushes value out to an address and reports whether the push landed.
type Rail interface {
	Push(to string, amount *big.Int) error
}

// Bank is the in-process payment rail. It only accumulates what was pushed,
// which is all the simulator needs to audit payouts.
type Bank struct {
	mu       sync.Mutex
	balances map[string]*big.Int
}

func NewBank() *Bank {
	return &Bank{balances: make(map[string]*big.Int)}
}

func (b *Bank) Push(to string, amount *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	balance, ok := b.balances[to]
	if !ok {
		balance = big.NewInt(0)
	}

	b.balances[to] = new(big.Int).Add(balance, amount)

	zap.L().With(zap.String("to", to), zap.String("amount", amount.String())).Debug("Bank: Pushed value")

	return nil
}

func (b *Bank) BalanceOf(addr string) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()

	balance, ok := b.balances[addr]
	if !ok {
		return big.NewInt(0)
	}

	return new(big.Int).Set(balance)
}
