package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Path is an ordered sequence of tokens where each consecutive pair is served by a pool.
type Path []common.Address

// Hops returns the number of swaps along the path.
func (p Path) Hops() int {
	if len(p) < 2 {
		return 0
	}
	return len(p) - 1
}

// Validate checks that the path is simple, has at least one hop and at most maxHops.
func (p Path) Validate(maxHops int) error {
	if len(p) < 2 {
		return errors.New("path needs at least two tokens")
	}
	if maxHops > 0 && p.Hops() > maxHops {
		return fmt.Errorf("path has %d hops, max %d", p.Hops(), maxHops)
	}
	seen := make(map[common.Address]struct{}, len(p))
	for _, token := range p {
		if _, ok := seen[token]; ok {
			return fmt.Errorf("token %s repeats in path", token.Hex())
		}
		seen[token] = struct{}{}
	}
	return nil
}

func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	parts := make([]string, 0, len(p))
	for _, token := range p {
		parts = append(parts, token.Hex())
	}
	return strings.Join(parts, ">")
}
