package router

import (
	"bytes"
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swapRoute/internal/metrics"
	"swapRoute/internal/model"
)

// Enumerator builds candidate paths through the intermediary catalog.
type Enumerator struct {
	graph       *TokenGraph
	concurrency int
	logger      *zap.Logger
}

func NewEnumerator(graph *TokenGraph, concurrency int, logger *zap.Logger) *Enumerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Enumerator{graph: graph, concurrency: concurrency, logger: logger}
}

// edgeKey identifies an unordered token pair.
type edgeKey [2]common.Address

func newEdgeKey(a, b common.Address) edgeKey {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// edgeSet holds the answers gathered during one enumeration.
type edgeSet map[edgeKey]bool

func (s edgeSet) has(a, b common.Address) bool {
	return s[newEdgeKey(a, b)]
}

func (s edgeSet) merge(other edgeSet) {
	for key, ok := range other {
		s[key] = ok
	}
}

// Enumerate returns the direct path, then single-intermediary paths in catalog
// order, then ordered intermediary pairs, keeping only paths whose every edge
// has a pool. An empty result is not an error.
func (e *Enumerator) Enumerate(ctx context.Context, from, to common.Address, maxHops int) []model.Path {
	if from == to || maxHops < 1 {
		return nil
	}

	mids := make([]common.Address, 0, len(e.graph.catalog))
	for _, token := range e.graph.catalog {
		if token != from && token != to {
			mids = append(mids, token)
		}
	}

	var edges edgeSet
	if maxHops == 1 {
		edges = e.checkEdges(ctx, []edgeKey{newEdgeKey(from, to)})
	} else {
		// from's neighbours cover the direct edge and every first hop.
		edges = make(edgeSet)
		for _, token := range e.graph.Neighbors(ctx, from, to) {
			edges[newEdgeKey(from, token)] = true
		}
		var last []edgeKey
		for _, m := range mids {
			if maxHops >= 3 || edges.has(from, m) {
				last = append(last, newEdgeKey(m, to))
			}
		}
		edges.merge(e.checkEdges(ctx, last))
	}

	if maxHops >= 3 {
		var inner []edgeKey
		for _, m1 := range mids {
			if !edges.has(from, m1) {
				continue
			}
			for _, m2 := range mids {
				if m1 == m2 || !edges.has(m2, to) {
					continue
				}
				inner = append(inner, newEdgeKey(m1, m2))
			}
		}
		edges.merge(e.checkEdges(ctx, inner))
	}

	var paths []model.Path
	if edges.has(from, to) {
		paths = append(paths, model.Path{from, to})
	}
	if maxHops >= 2 {
		for _, m := range mids {
			if edges.has(from, m) && edges.has(m, to) {
				paths = append(paths, model.Path{from, m, to})
			}
		}
	}
	if maxHops >= 3 {
		for _, m1 := range mids {
			if !edges.has(from, m1) {
				continue
			}
			for _, m2 := range mids {
				if m1 == m2 {
					continue
				}
				if edges.has(m1, m2) && edges.has(m2, to) {
					paths = append(paths, model.Path{from, m1, m2, to})
				}
			}
		}
	}

	metrics.CandidatePaths.Observe(float64(len(paths)))
	e.logger.Debug("paths enumerated",
		zap.String("from", from.Hex()),
		zap.String("to", to.Hex()),
		zap.Int("max_hops", maxHops),
		zap.Int("edges", len(edges)),
		zap.Int("paths", len(paths)),
	)
	return paths
}

// checkEdges looks up each distinct edge once, concurrently.
func (e *Enumerator) checkEdges(ctx context.Context, keys []edgeKey) edgeSet {
	unique := make([]edgeKey, 0, len(keys))
	seen := make(map[edgeKey]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}

	answers := make([]bool, len(unique))
	var eg errgroup.Group
	eg.SetLimit(e.concurrency)
	for i, key := range unique {
		i, key := i, key
		eg.Go(func() error {
			answers[i] = e.graph.PoolExists(ctx, key[0], key[1])
			return nil
		})
	}
	_ = eg.Wait()

	out := make(edgeSet, len(unique))
	for i, key := range unique {
		out[key] = answers[i]
	}
	return out
}
