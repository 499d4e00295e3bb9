package model

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// HopReceipt records one confirmed hop of an execution.
type HopReceipt struct {
	Index        int
	TokenIn      common.Address
	TokenOut     common.Address
	AmountIn     *uint256.Int
	MinAmountOut *uint256.Int
	AmountOut    *uint256.Int
	TxHash       common.Hash
	GasUsed      uint64
	Status       HopStatus
}

// Receipt is the result of a fully executed route.
type Receipt struct {
	ExecutionID string
	Path        Path
	AmountIn    *uint256.Int
	AmountOut   *uint256.Int
	Hops        []HopReceipt
}
