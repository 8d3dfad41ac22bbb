package messages

// TokenUsage counts tokens reported by the provider. The counters are purely
// informational.
type TokenUsage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens,omitempty"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens,omitempty"`
}

// Add accumulates other into u. Negative counters are ignored.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += nonNegative(other.InputTokens)
	u.OutputTokens += nonNegative(other.OutputTokens)
	u.CacheReadInputTokens += nonNegative(other.CacheReadInputTokens)
	u.CacheCreationInputTokens += nonNegative(other.CacheCreationInputTokens)
}

// Total is input plus output tokens.
func (u TokenUsage) Total() int64 {
	return u.InputTokens + u.OutputTokens
}

// IsZero reports whether no counter is set.
func (u TokenUsage) IsZero() bool {
	return u == TokenUsage{}
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
