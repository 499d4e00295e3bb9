package model

import "github.com/ethereum/go-ethereum/common"

// PoolParams holds the static parameters of the pool serving a token pair.
type PoolParams struct {
	Pool    common.Address `json:"pool"`
	Token0  common.Address `json:"token0"`
	Token1  common.Address `json:"token1"`
	FeeTier uint32         `json:"fee_tier"`
}

// FeeBps converts the fee tier (hundredths of a bip) into basis points, rounding down.
func (p PoolParams) FeeBps() uint32 {
	return p.FeeTier / 100
}
