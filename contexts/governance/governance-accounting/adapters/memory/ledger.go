package memory

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/ports"
)

// Ledger is an in-process token oracle with fixed balances.
type Ledger struct {
	mu       sync.RWMutex
	decimals map[string]uint8
	balances map[string]*big.Int
	failure  error
	reads    int
}

func NewLedger() *Ledger {
	return &Ledger{
		decimals: make(map[string]uint8),
		balances: make(map[string]*big.Int),
	}
}

func (l *Ledger) SetDecimals(token string, decimals uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.decimals[normalize(token)] = decimals
}

func (l *Ledger) SetBalance(token string, holder string, balance *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[balanceKey(token, holder)] = new(big.Int).Set(balance)
}

// Fail makes every subsequent read return err. Passing nil heals the ledger.
func (l *Ledger) Fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failure = err
}

func (l *Ledger) Reads() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reads
}

func (l *Ledger) Decimals(_ context.Context, token string) (uint8, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	if l.failure != nil {
		return 0, fmt.Errorf("%w: %w", domainerrors.ErrOracleUnavailable, l.failure)
	}
	decimals, ok := l.decimals[normalize(token)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown token %s", domainerrors.ErrOracleUnavailable, token)
	}
	return decimals, nil
}

func (l *Ledger) BalanceOf(_ context.Context, token string, holder string) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	if l.failure != nil {
		return nil, fmt.Errorf("%w: %w", domainerrors.ErrOracleUnavailable, l.failure)
	}
	balance, ok := l.balances[balanceKey(token, holder)]
	if !ok {
		return new(big.Int), nil
	}
	return new(big.Int).Set(balance), nil
}

func normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func balanceKey(token string, holder string) string {
	return normalize(token) + "/" + normalize(holder)
}

var _ ports.TokenOracle = (*Ledger)(nil)
