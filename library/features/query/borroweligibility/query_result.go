package borroweligibility

// Result is the answer. Reason is empty when Eligible is true.
type Result struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}
