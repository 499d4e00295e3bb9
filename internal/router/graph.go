package router

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swapRoute/internal/metrics"
)

// TokenGraph answers edge queries over the intermediary catalog. Every query
// goes to the pool directory; nothing is remembered between calls.
type TokenGraph struct {
	directory   PoolDirectory
	catalog     []common.Address
	timeout     time.Duration
	concurrency int
	logger      *zap.Logger
}

func NewTokenGraph(directory PoolDirectory, catalog []common.Address, timeout time.Duration, concurrency int, logger *zap.Logger) *TokenGraph {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &TokenGraph{
		directory:   directory,
		catalog:     dedupe(catalog),
		timeout:     timeout,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Catalog returns the intermediary tokens in declaration order.
func (g *TokenGraph) Catalog() []common.Address {
	return append([]common.Address(nil), g.catalog...)
}

// PoolExists reports whether a pool serves the pair. Lookup failures count as no pool.
func (g *TokenGraph) PoolExists(ctx context.Context, a, b common.Address) bool {
	if a == b {
		return false
	}

	callCtx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	ok, err := g.directory.Exists(callCtx, a, b)
	if err != nil {
		metrics.DirectoryErrors.Inc()
		g.logger.Warn("pool lookup failed", zap.Error(&DirectoryError{A: a, B: b, Err: err}))
		return false
	}
	return ok
}

// Neighbors returns the catalog tokens and endpoints that share a pool with a,
// in catalog order followed by endpoint order.
func (g *TokenGraph) Neighbors(ctx context.Context, a common.Address, endpoints ...common.Address) []common.Address {
	candidates := make([]common.Address, 0, len(g.catalog)+len(endpoints))
	for _, token := range dedupe(append(g.Catalog(), endpoints...)) {
		if token != a {
			candidates = append(candidates, token)
		}
	}

	linked := make([]bool, len(candidates))
	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i, token := range candidates {
		i, token := i, token
		eg.Go(func() error {
			linked[i] = g.PoolExists(ctx, a, token)
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]common.Address, 0, len(candidates))
	for i, token := range candidates {
		if linked[i] {
			out = append(out, token)
		}
	}
	return out
}

func dedupe(tokens []common.Address) []common.Address {
	seen := make(map[common.Address]struct{}, len(tokens))
	out := make([]common.Address, 0, len(tokens))
	for _, token := range tokens {
		if token == (common.Address{}) {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
