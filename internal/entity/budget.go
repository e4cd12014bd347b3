package entity

// BudgetAllocation splits a total token budget between retrieved chunks,
// prompt scaffolding, the generated response and a rounding reserve.
// Invariant: Chunks + Prompt + Response + Reserve == Total.
type BudgetAllocation struct {
	Total    int `json:"total_budget"`
	Chunks   int `json:"chunks"`
	Prompt   int `json:"prompt"`
	Response int `json:"response"`
	Reserve  int `json:"reserve"`
	// AppliedAdjustments records each multiplier that fired, with before/after
	// values, so an allocation can be explained after the fact.
	AppliedAdjustments []string `json:"applied_adjustments,omitempty"`
}
