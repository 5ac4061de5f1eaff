package adapter

import "github.com/zen-systems/tripgate/pkg/artifact"

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response wraps an adapter output and optional usage data.
type Response struct {
	Artifact *artifact.Artifact
	Usage    *Usage
}

func newUsage(prompt, completion, total int) *Usage {
	if total == 0 {
		total = prompt + completion
	}
	if total == 0 {
		return nil
	}
	return &Usage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: total}
}
