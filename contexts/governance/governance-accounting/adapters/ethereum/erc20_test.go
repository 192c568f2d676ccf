package ethereumadapter

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tokenAddress  = "0x7777777777777777777777777777777777777777"
	holderAddress = "0x8888888888888888888888888888888888888888"
)

type fakeCaller struct {
	t        *testing.T
	abi      abi.ABI
	balances map[common.Address]*big.Int
	decimals uint8
	err      error
	calls    []ethereum.CallMsg
}

func newFakeCaller(t *testing.T) *fakeCaller {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	return &fakeCaller{t: t, abi: parsed, balances: map[common.Address]*big.Int{}, decimals: 18}
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls = append(f.calls, msg)
	if f.err != nil {
		return nil, f.err
	}
	method, err := f.abi.MethodById(msg.Data[:4])
	require.NoError(f.t, err)
	switch method.Name {
	case "decimals":
		return method.Outputs.Pack(f.decimals)
	case "balanceOf":
		args, err := method.Inputs.Unpack(msg.Data[4:])
		require.NoError(f.t, err)
		balance, ok := f.balances[args[0].(common.Address)]
		if !ok {
			balance = new(big.Int)
		}
		return method.Outputs.Pack(balance)
	}
	f.t.Fatalf("unexpected method %s", method.Name)
	return nil, nil
}

func TestERC20OracleReadsDecimalsAndBalance(t *testing.T) {
	caller := newFakeCaller(t)
	caller.decimals = 6
	huge, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)
	caller.balances[common.HexToAddress(holderAddress)] = huge

	oracle, err := NewERC20Oracle(caller, 0, nil)
	require.NoError(t, err)

	decimals, err := oracle.Decimals(context.Background(), tokenAddress)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), decimals)

	balance, err := oracle.BalanceOf(context.Background(), tokenAddress, holderAddress)
	require.NoError(t, err)
	assert.Equal(t, huge.String(), balance.String())

	require.Len(t, caller.calls, 2)
	assert.Equal(t, common.HexToAddress(tokenAddress), *caller.calls[1].To)
}

func TestERC20OracleUnknownHolderIsZero(t *testing.T) {
	oracle, err := NewERC20Oracle(newFakeCaller(t), 0, nil)
	require.NoError(t, err)

	balance, err := oracle.BalanceOf(context.Background(), tokenAddress, holderAddress)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())
}

func TestERC20OracleTransportFailureIsUnavailable(t *testing.T) {
	caller := newFakeCaller(t)
	caller.err = errors.New("connection refused")
	oracle, err := NewERC20Oracle(caller, 0, nil)
	require.NoError(t, err)

	_, err = oracle.BalanceOf(context.Background(), tokenAddress, holderAddress)
	assert.ErrorIs(t, err, domainerrors.ErrOracleUnavailable)

	_, err = oracle.Decimals(context.Background(), tokenAddress)
	assert.ErrorIs(t, err, domainerrors.ErrOracleUnavailable)
}

func TestERC20OracleEmptyResponseIsUnavailable(t *testing.T) {
	oracle, err := NewERC20Oracle(emptyCaller{}, 0, nil)
	require.NoError(t, err)

	_, err = oracle.Decimals(context.Background(), tokenAddress)
	assert.ErrorIs(t, err, domainerrors.ErrOracleUnavailable)
}

func TestERC20OracleRejectsMalformedAddresses(t *testing.T) {
	oracle, err := NewERC20Oracle(newFakeCaller(t), 0, nil)
	require.NoError(t, err)

	_, err = oracle.Decimals(context.Background(), "0xnope")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	_, err = oracle.BalanceOf(context.Background(), tokenAddress, "holder")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

type emptyCaller struct{}

func (emptyCaller) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, nil
}
