package application

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/ports"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// Holding is one holder's balance of a token together with its decimals.
type Holding struct {
	Decimals uint8
	Balance  *big.Int
}

// NormalizeAddress validates an EVM hex address and returns it lower-cased.
func NormalizeAddress(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if !common.IsHexAddress(value) {
		return "", fmt.Errorf("%w: %q is not an EVM address", domainerrors.ErrValidation, raw)
	}
	return strings.ToLower(common.HexToAddress(value).Hex()), nil
}

// ReadHolding fetches decimals and balance concurrently. Any failure is
// reported as ErrOracleUnavailable and never as a zero balance.
func ReadHolding(ctx context.Context, oracle ports.TokenOracle, token string, holder string) (Holding, error) {
	var holding Holding
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		decimals, err := oracle.Decimals(groupCtx, token)
		if err != nil {
			return err
		}
		holding.Decimals = decimals
		return nil
	})
	group.Go(func() error {
		balance, err := oracle.BalanceOf(groupCtx, token, holder)
		if err != nil {
			return err
		}
		if balance == nil {
			return errors.New("oracle returned no balance")
		}
		holding.Balance = balance
		return nil
	})
	if err := group.Wait(); err != nil {
		return Holding{}, OracleError(err)
	}
	return holding, nil
}

// ReadDecimals fetches token decimals with the same error tagging as ReadHolding.
func ReadDecimals(ctx context.Context, oracle ports.TokenOracle, token string) (uint8, error) {
	decimals, err := oracle.Decimals(ctx, token)
	if err != nil {
		return 0, OracleError(err)
	}
	return decimals, nil
}

func OracleError(err error) error {
	if errors.Is(err, domainerrors.ErrOracleUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domainerrors.ErrOracleUnavailable, err)
}
