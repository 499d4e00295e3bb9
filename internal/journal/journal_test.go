package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapRoute/internal/model"
)

func event(id string, seq uint64, kind model.EventKind, hop int) model.ExecutionEvent {
	return model.ExecutionEvent{ExecutionID: id, Seq: seq, Kind: kind, HopIndex: hop, Hops: 2, At: "2024-03-01T12:00:00Z"}
}

func TestFoldCompleteExecution(t *testing.T) {
	events := []model.ExecutionEvent{
		event("a", 1, model.EventPending, 0),
		event("a", 2, model.EventConfirmed, 0),
		event("a", 3, model.EventPending, 1),
		event("a", 4, model.EventConfirmed, 1),
		event("a", 5, model.EventComplete, 1),
	}
	events[0].AmountIn = "1000"
	events[1].AmountOut, events[1].TxHash, events[1].GasUsed = "2000", "0x01", 100
	events[3].AmountOut, events[3].TxHash, events[3].GasUsed = "460", "0x02", 120
	events[4].AmountIn, events[4].AmountOut = "1000", "460"

	states := Fold(events)
	require.Len(t, states, 1)
	s := states[0]
	assert.Equal(t, StatusComplete, s.Status)
	assert.Equal(t, 2, s.CompletedHops)
	assert.Equal(t, "1000", s.AmountIn)
	assert.Equal(t, "460", s.AmountOut)
	assert.Equal(t, []string{"0x01", "0x02"}, s.TxHashes)
	assert.Equal(t, uint64(220), s.GasUsed)
	assert.Equal(t, uint64(5), s.LastSeq)
}

func TestFoldFailedExecution(t *testing.T) {
	failed := event("a", 4, model.EventFailed, 1)
	failed.Error = "reverted"

	states := Fold([]model.ExecutionEvent{
		event("a", 1, model.EventPending, 0),
		event("a", 2, model.EventConfirmed, 0),
		event("a", 3, model.EventPending, 1),
		failed,
	})
	require.Len(t, states, 1)
	assert.Equal(t, StatusFailed, states[0].Status)
	assert.Equal(t, 1, states[0].CompletedHops)
	assert.Equal(t, 1, states[0].CurrentHop)
	assert.Equal(t, "reverted", states[0].Error)
}

func TestFoldInterleavedAndDuplicated(t *testing.T) {
	events := []model.ExecutionEvent{
		event("b", 1, model.EventPending, 0),
		event("a", 1, model.EventPending, 0),
		event("b", 2, model.EventConfirmed, 0),
		event("b", 2, model.EventConfirmed, 0),
		event("a", 2, model.EventFailed, 0),
		{Seq: 9, Kind: model.EventComplete},
	}

	states := Fold(events)
	require.Len(t, states, 2)
	assert.Equal(t, "b", states[0].ExecutionID)
	assert.Equal(t, StatusRunning, states[0].Status)
	assert.Equal(t, 1, states[0].CompletedHops)
	assert.Equal(t, uint64(2), states[0].LastSeq)
	assert.Equal(t, "a", states[1].ExecutionID)
	assert.Equal(t, StatusFailed, states[1].Status)

	assert.Equal(t, states, Fold(append(events, events...)))
}

func TestApplyIsPure(t *testing.T) {
	confirmed := event("a", 2, model.EventConfirmed, 0)
	confirmed.TxHash = "0x01"
	base := Apply(State{}, event("a", 1, model.EventPending, 0))
	base = Apply(base, confirmed)

	next := event("a", 3, model.EventConfirmed, 1)
	next.TxHash = "0x02"
	after := Apply(base, next)

	assert.Equal(t, []string{"0x01"}, base.TxHashes)
	assert.Equal(t, []string{"0x01", "0x02"}, after.TxHashes)

	terminal := Apply(after, event("a", 4, model.EventFailed, 1))
	assert.Equal(t, terminal, Apply(terminal, event("a", 5, model.EventComplete, 1)))
	assert.Equal(t, base, Apply(base, event("other", 9, model.EventFailed, 0)))
}
