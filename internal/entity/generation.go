package entity

// Citation links a span of the generated answer back to a retrieved chunk.
type Citation struct {
	Index    int    `json:"index"`
	ChunkID  string `json:"chunk_id"`
	SourceID string `json:"source_id"`
	Snippet  string `json:"snippet,omitempty"`
}

type PromptOptions struct {
	CitationStyle string `json:"citation_style,omitempty"`
	MaxHistory    int    `json:"max_history,omitempty"`
}

type AssemblePromptRequest struct {
	Query   string             `json:"query"`
	Chunks  []CandidateChunk   `json:"chunks"`
	History []ConversationTurn `json:"history,omitempty"`
	Options PromptOptions      `json:"options"`
}

type AssembledPrompt struct {
	System    string     `json:"system"`
	User      string     `json:"user"`
	Citations []Citation `json:"citations,omitempty"`
}

type GenerationOptions struct {
	Model       string  `json:"model,omitempty"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type GenerateRequest struct {
	Prompt  AssembledPrompt   `json:"prompt"`
	Options GenerationOptions `json:"options"`
}

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

func (u TokenUsage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}

// Finish reasons reported by the generation service. Anything else is treated
// as an abnormal stop.
const (
	FinishReasonStop   = "stop"
	FinishReasonLength = "length"
)

type Generation struct {
	Content      string     `json:"content"`
	Usage        TokenUsage `json:"usage"`
	FinishReason string     `json:"finish_reason"`
}
