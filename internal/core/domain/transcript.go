package domain

// Role identifies the author of a message.
type Role string

// Message roles understood by the remote model.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a conversation.
// Prefix marks an assistant message the model must continue rather than answer.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Prefix  bool   `json:"prefix,omitempty"`
}

// Transcript is the accumulated conversation for one solved problem.
// The last message holds the model's visible output.
type Transcript []Message

// Output returns the content of the last message, or "" for an empty transcript.
func (t Transcript) Output() string {
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1].Content
}

// Clone returns a copy that shares no backing array with t.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// ParaphraseStep records one chunk of reasoning and its reworded replacement.
type ParaphraseStep struct {
	Original string `json:"original"`
	Reworded string `json:"reworded"`
}

// ParaphrasedResult is the outcome of solving a problem with paraphrased reasoning.
type ParaphrasedResult struct {
	Transcript Transcript       `json:"transcript"`
	Steps      []ParaphraseStep `json:"steps"`
}

// FinishReason is the termination signal reported by the remote model.
type FinishReason string

const (
	// FinishStop means the model ended its turn naturally.
	FinishStop FinishReason = "stop"
	// FinishLength means the model hit its token budget and may be continued.
	FinishLength FinishReason = "length"
)

// CompletionRequest is one call to the remote model.
type CompletionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

// Completion is the remote model's reply to a CompletionRequest.
type Completion struct {
	Content      string       `json:"content"`
	FinishReason FinishReason `json:"finish_reason"`
}
