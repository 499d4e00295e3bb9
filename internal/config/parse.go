package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"swapRoute/internal/model"
)

// ParseAddress converts a hex address. The native sentinel is accepted as is.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %s", input)
	}
	return common.HexToAddress(input), nil
}

// ParseAddresses converts string addresses into common.Address.
func ParseAddresses(inputs []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		addr, err := ParseAddress(input)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}

// ParseIntermediaries reads SYMBOL=0xaddr entries, keeping their order. A bare
// address is accepted and gets an empty symbol. Duplicates are rejected.
func ParseIntermediaries(inputs []string) ([]Intermediary, error) {
	out := make([]Intermediary, 0, len(inputs))
	seen := make(map[common.Address]struct{}, len(inputs))
	for _, input := range inputs {
		symbol, raw, ok := strings.Cut(input, "=")
		if !ok {
			symbol, raw = "", input
		}
		addr, err := ParseAddress(raw)
		if err != nil {
			return nil, err
		}
		if model.IsNative(addr) || addr == (common.Address{}) {
			return nil, fmt.Errorf("intermediary %s must be a token contract", raw)
		}
		if _, dup := seen[addr]; dup {
			return nil, fmt.Errorf("duplicate intermediary: %s", addr.Hex())
		}
		seen[addr] = struct{}{}
		out = append(out, Intermediary{Symbol: strings.TrimSpace(symbol), Address: addr})
	}
	return out, nil
}

// ParseFeeTiers reads Uniswap V3 fee tiers in hundredths of a bip.
func ParseFeeTiers(inputs []string) ([]uint32, error) {
	tiers := make([]uint32, 0, len(inputs))
	for _, input := range inputs {
		tier, err := strconv.ParseUint(strings.TrimSpace(input), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid fee tier: %s", input)
		}
		if tier == 0 || tier >= 1_000_000 {
			return nil, fmt.Errorf("fee tier out of range: %s", input)
		}
		tiers = append(tiers, uint32(tier))
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("at least one fee tier is required")
	}
	return tiers, nil
}

// ParseAmount reads a base-unit integer amount, decimal or 0x-prefixed hex.
func ParseAmount(input string) (*uint256.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
		amount, err := uint256.FromHex(input)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %s: %w", input, err)
		}
		return amount, nil
	}
	amount, err := uint256.FromDecimal(input)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %s: %w", input, err)
	}
	return amount, nil
}

// ParsePath reads a comma or '>' separated token list.
func ParsePath(input string) (model.Path, error) {
	input = strings.ReplaceAll(input, ">", ",")
	addrs, err := ParseAddresses(splitAndClean(input))
	if err != nil {
		return nil, err
	}
	path := model.Path(addrs)
	if err := path.Validate(0); err != nil {
		return nil, err
	}
	return path, nil
}
