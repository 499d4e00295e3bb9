package model

// EventKind names an execution state transition.
type EventKind string

const (
	EventPending   EventKind = "pending"
	EventConfirmed EventKind = "confirmed"
	EventFailed    EventKind = "failed"
	EventComplete  EventKind = "complete"
)

// ExecutionEvent is one append-only entry of the execution journal.
type ExecutionEvent struct {
	ExecutionID  string    `json:"execution_id"`
	Seq          uint64    `json:"seq"`
	Kind         EventKind `json:"kind"`
	HopIndex     int       `json:"hop_index"`
	Hops         int       `json:"hops"`
	TokenIn      string    `json:"token_in,omitempty"`
	TokenOut     string    `json:"token_out,omitempty"`
	AmountIn     string    `json:"amount_in,omitempty"`
	MinAmountOut string    `json:"min_amount_out,omitempty"`
	AmountOut    string    `json:"amount_out,omitempty"`
	TxHash       string    `json:"tx_hash,omitempty"`
	GasUsed      uint64    `json:"gas_used,omitempty"`
	Error        string    `json:"error,omitempty"`
	At           string    `json:"at"`
}
