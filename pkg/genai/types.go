package genai

// Wire types for the generateContent endpoint.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Result is one generation outcome. Token counts come from the
// endpoint's usage metadata when present; otherwise they are estimated
// from text length and Estimated is set.
type Result struct {
	// Text is the generated text, candidate parts joined in order.
	Text string

	// InputTokens is the prompt-side token count.
	InputTokens uint64

	// OutputTokens is the completion-side token count.
	OutputTokens uint64

	// Estimated is true when the endpoint returned no usage metadata
	// and the token counts are a length/4 approximation.
	Estimated bool
}
