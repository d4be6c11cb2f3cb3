package model

import "time"

const (
	// DecisionByAutomatic defines the approver value for gates resolved without external input.
	DecisionByAutomatic = "automatic"
	// DecisionByOperator defines the approver value for gates resolved by an operator.
	DecisionByOperator = "operator"
)

// Decision is a model that represents the gate outcome for entering one environment.
// A decision is terminal; there is no revocation.
type Decision struct {
	ID          uint64    `json:"id"`
	RunID       uint64    `json:"runId"`
	Environment string    `json:"environment"`
	Approved    bool      `json:"approved"`
	ApprovedBy  string    `json:"approvedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
