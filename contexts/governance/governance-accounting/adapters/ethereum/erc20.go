// Package ethereumadapter reads ERC-20 token metadata over JSON-RPC.
package ethereumadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	application "desci/contexts/governance/governance-accounting/application"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/ports"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const erc20ABI = `[
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

const defaultCallTimeout = 10 * time.Second

// ContractCaller is the subset of ethclient.Client the oracle needs.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type ERC20Oracle struct {
	caller      ContractCaller
	abi         abi.ABI
	callTimeout time.Duration
	logger      *slog.Logger
}

func NewERC20Oracle(caller ContractCaller, callTimeout time.Duration, logger *slog.Logger) (*ERC20Oracle, error) {
	if caller == nil {
		return nil, errors.New("contract caller is required")
	}
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, err
	}
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &ERC20Oracle{
		caller:      caller,
		abi:         parsed,
		callTimeout: callTimeout,
		logger:      application.ResolveLogger(logger),
	}, nil
}

// Dial connects to an Ethereum JSON-RPC endpoint. The returned close func
// releases the client.
func Dial(ctx context.Context, rpcURL string, callTimeout time.Duration, logger *slog.Logger) (*ERC20Oracle, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, err
	}
	oracle, err := NewERC20Oracle(client, callTimeout, logger)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return oracle, client.Close, nil
}

func (o *ERC20Oracle) Decimals(ctx context.Context, token string) (uint8, error) {
	var decimals uint8
	if err := o.call(ctx, token, "decimals", &decimals); err != nil {
		return 0, err
	}
	return decimals, nil
}

func (o *ERC20Oracle) BalanceOf(ctx context.Context, token string, holder string) (*big.Int, error) {
	if !common.IsHexAddress(holder) {
		return nil, fmt.Errorf("%w: holder %q", domainerrors.ErrValidation, holder)
	}
	balance := new(big.Int)
	if err := o.call(ctx, token, "balanceOf", &balance, common.HexToAddress(holder)); err != nil {
		return nil, err
	}
	return balance, nil
}

func (o *ERC20Oracle) call(ctx context.Context, token string, method string, out any, args ...any) error {
	if !common.IsHexAddress(token) {
		return fmt.Errorf("%w: token %q", domainerrors.ErrValidation, token)
	}
	input, err := o.abi.Pack(method, args...)
	if err != nil {
		return err
	}
	contract := common.HexToAddress(token)

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	output, err := o.caller.CallContract(callCtx, ethereum.CallMsg{To: &contract, Data: input}, nil)
	if err != nil {
		o.logger.Error("erc20 call failed",
			"event", "governance_oracle_call_failed",
			"module", application.Module,
			"layer", "adapter",
			"token", token,
			"method", method,
			"error", err.Error(),
		)
		return fmt.Errorf("%w: %s: %w", domainerrors.ErrOracleUnavailable, method, err)
	}
	if len(output) == 0 {
		return fmt.Errorf("%w: %s returned no data from %s", domainerrors.ErrOracleUnavailable, method, token)
	}
	if err := o.abi.UnpackIntoInterface(out, method, output); err != nil {
		return fmt.Errorf("%w: %s decode: %w", domainerrors.ErrOracleUnavailable, method, err)
	}
	return nil
}

var _ ports.TokenOracle = (*ERC20Oracle)(nil)
