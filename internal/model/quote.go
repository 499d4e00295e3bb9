package model

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Quote is a dry-run result for a single hop.
type Quote struct {
	AmountOut *uint256.Int
	FeePaid   *uint256.Int
	// GasEstimate is optional; zero means the provider gave none.
	GasEstimate uint64
}

// HopStatus is the confirmed outcome of a submitted hop.
type HopStatus string

const (
	HopSuccess HopStatus = "success"
	HopFailure HopStatus = "failure"
)

// SubmitResult is returned once a hop has been confirmed on chain.
type SubmitResult struct {
	AmountOut *uint256.Int
	Status    HopStatus
	TxHash    common.Hash
	GasUsed   uint64
}
