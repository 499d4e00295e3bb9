package journal

import (
	"swapRoute/internal/model"
)

// Status summarises where an execution stands after folding its events.
type Status string

const (
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// State is the folded view of one execution.
type State struct {
	ExecutionID   string   `json:"execution_id"`
	Status        Status   `json:"status"`
	Hops          int      `json:"hops"`
	CompletedHops int      `json:"completed_hops"`
	CurrentHop    int      `json:"current_hop"`
	AmountIn      string   `json:"amount_in,omitempty"`
	AmountOut     string   `json:"amount_out,omitempty"`
	TxHashes      []string `json:"tx_hashes,omitempty"`
	GasUsed       uint64   `json:"gas_used"`
	Error         string   `json:"error,omitempty"`
	LastSeq       uint64   `json:"last_seq"`
	StartedAt     string   `json:"started_at,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

// Apply returns the state after ev. It never mutates s. Events at or below
// LastSeq are ignored so replaying a journal twice yields the same state.
func Apply(s State, ev model.ExecutionEvent) State {
	if s.ExecutionID != "" && ev.ExecutionID != s.ExecutionID {
		return s
	}
	if s.LastSeq > 0 && ev.Seq <= s.LastSeq {
		return s
	}
	if s.Status == StatusComplete || s.Status == StatusFailed {
		return s
	}

	next := s
	next.TxHashes = append([]string(nil), s.TxHashes...)
	next.ExecutionID = ev.ExecutionID
	next.LastSeq = ev.Seq
	next.UpdatedAt = ev.At
	if next.StartedAt == "" {
		next.StartedAt = ev.At
	}
	if ev.Hops > 0 {
		next.Hops = ev.Hops
	}
	if next.Status == "" {
		next.Status = StatusRunning
	}

	switch ev.Kind {
	case model.EventPending:
		next.CurrentHop = ev.HopIndex
		if ev.HopIndex == 0 && next.AmountIn == "" {
			next.AmountIn = ev.AmountIn
		}
	case model.EventConfirmed:
		next.CurrentHop = ev.HopIndex
		next.CompletedHops = ev.HopIndex + 1
		next.AmountOut = ev.AmountOut
		next.GasUsed += ev.GasUsed
		if ev.TxHash != "" {
			next.TxHashes = append(next.TxHashes, ev.TxHash)
		}
	case model.EventFailed:
		next.CurrentHop = ev.HopIndex
		next.Status = StatusFailed
		next.Error = ev.Error
	case model.EventComplete:
		next.Status = StatusComplete
		next.CompletedHops = next.Hops
		if ev.AmountIn != "" {
			next.AmountIn = ev.AmountIn
		}
		next.AmountOut = ev.AmountOut
	}
	return next
}

// Fold reduces a journal into one state per execution, in order of first appearance.
// Events of one execution may be interleaved with others and are applied in seq order
// as they appear; stale or duplicate entries are dropped by Apply.
func Fold(events []model.ExecutionEvent) []State {
	index := make(map[string]int)
	var states []State
	for _, ev := range events {
		if ev.ExecutionID == "" {
			continue
		}
		i, ok := index[ev.ExecutionID]
		if !ok {
			i = len(states)
			index[ev.ExecutionID] = i
			states = append(states, State{})
		}
		states[i] = Apply(states[i], ev)
	}
	return states
}
