package dex

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SwapEvent is a decoded V3 pool Swap log. Amounts are signed from the pool's
// point of view: positive was paid into the pool, negative was paid out.
type SwapEvent struct {
	Pool         common.Address
	Sender       common.Address
	Recipient    common.Address
	Amount0      *big.Int
	Amount1      *big.Int
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
	Tick         int32
}

// IsSwapLog reports whether the log carries the V3 Swap topic.
func IsSwapLog(log *types.Log) bool {
	if log == nil || len(log.Topics) == 0 {
		return false
	}
	poolABI, err := V3PoolABI()
	if err != nil {
		return false
	}
	return log.Topics[0] == poolABI.Events["Swap"].ID
}

// DecodeSwap decodes a V3 pool Swap log.
func DecodeSwap(log *types.Log) (SwapEvent, error) {
	if log == nil {
		return SwapEvent{}, fmt.Errorf("log is nil")
	}
	poolABI, err := V3PoolABI()
	if err != nil {
		return SwapEvent{}, fmt.Errorf("parse pool abi: %w", err)
	}
	event := poolABI.Events["Swap"]
	if len(log.Topics) == 0 || log.Topics[0] != event.ID {
		return SwapEvent{}, fmt.Errorf("not a swap log")
	}

	indexedArgs := indexedArguments(event.Inputs)
	if len(log.Topics) != len(indexedArgs)+1 {
		return SwapEvent{}, fmt.Errorf("expected %d topics, got %d", len(indexedArgs)+1, len(log.Topics))
	}

	var indexed struct {
		Sender    common.Address
		Recipient common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArgs, log.Topics[1:]); err != nil {
		return SwapEvent{}, fmt.Errorf("parse topics: %w", err)
	}

	values, err := event.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return SwapEvent{}, fmt.Errorf("unpack %s: %w", event.Name, err)
	}
	if len(values) != 5 {
		return SwapEvent{}, fmt.Errorf("unexpected swap values: %d", len(values))
	}

	ints := make([]*big.Int, 0, len(values))
	for _, value := range values {
		v, err := asBigInt(value)
		if err != nil {
			return SwapEvent{}, err
		}
		ints = append(ints, v)
	}
	tick, err := int24FromBig(ints[4])
	if err != nil {
		return SwapEvent{}, err
	}

	return SwapEvent{
		Pool:         log.Address,
		Sender:       indexed.Sender,
		Recipient:    indexed.Recipient,
		Amount0:      ints[0],
		Amount1:      ints[1],
		SqrtPriceX96: ints[2],
		Liquidity:    ints[3],
		Tick:         tick,
	}, nil
}

// AmountOut returns what the pool paid out of the given side.
func (e SwapEvent) AmountOut(outIsToken0 bool) *big.Int {
	amount := e.Amount1
	if outIsToken0 {
		amount = e.Amount0
	}
	if amount == nil || amount.Sign() >= 0 {
		return new(big.Int)
	}
	return new(big.Int).Neg(amount)
}

// swapOutputFromLogs sums the output paid by pool across its Swap logs in a receipt.
func swapOutputFromLogs(logs []*types.Log, pool common.Address, outIsToken0 bool) (*big.Int, error) {
	total := new(big.Int)
	found := false
	for _, log := range logs {
		if log == nil || log.Address != pool || !IsSwapLog(log) {
			continue
		}
		event, err := DecodeSwap(log)
		if err != nil {
			return nil, err
		}
		total.Add(total, event.AmountOut(outIsToken0))
		found = true
	}
	if !found {
		return nil, fmt.Errorf("no swap log for pool %s", pool.Hex())
	}
	return total, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

func int24FromBig(value *big.Int) (int32, error) {
	min := big.NewInt(-1 << 23)
	max := big.NewInt((1 << 23) - 1)
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		return 0, fmt.Errorf("int24 overflow: %s", value.String())
	}
	return int32(value.Int64()), nil
}
