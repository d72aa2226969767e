package checkerrors

import "time"

// CheckError represents a persisted run failure entry. Output keeps the
// captured tool output (or the offending report fragment) so the operator can
// diagnose the external invocation directly.
type CheckError struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	CheckID   string    `json:"check_id"`
	Phase     string    `json:"phase,omitempty"` // trigger | retry | other
	Message   string    `json:"message"`
	Output    string    `json:"output,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
