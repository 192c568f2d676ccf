package errors

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrValidation          = errors.New("invalid governance input")
	ErrProjectNotFound     = errors.New("project not found")
	ErrProposalNotFound    = errors.New("proposal not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrVotingClosed        = errors.New("voting is closed for proposal")
	ErrAlreadyVoted        = errors.New("user already voted on proposal")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrOracleUnavailable   = errors.New("token oracle unavailable")
	ErrPersistence         = errors.New("governance persistence failed")
	ErrConflict            = errors.New("governance record conflict")
)

// BalanceError carries the balance comparison behind an
// ErrInsufficientBalance rejection. Amounts are in smallest token units.
type BalanceError struct {
	Required *big.Int
	Actual   *big.Int
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("%s: required %s, have %s", ErrInsufficientBalance, amountString(e.Required), amountString(e.Actual))
}

func (e *BalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

func amountString(value *big.Int) string {
	if value == nil {
		return "0"
	}
	return value.String()
}
