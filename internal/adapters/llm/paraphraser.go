package llm

import (
	"context"

	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/engine/scoring" //nolint:depguard // Shared answer delimiter parsing
)

// Answer delimiters the chat model is asked to wrap its rewording in.
const (
	AnswerOpen  = "<answer>"
	AnswerClose = "</answer>"
)

// Paraphraser rewords text with the chat model.
type Paraphraser struct {
	client *Client
}

// NewParaphraser returns a Paraphraser that sends requests through client.
func NewParaphraser(client *Client) *Paraphraser {
	return &Paraphraser{client: client}
}

// Reword sends text under systemPrompt to the chat model and returns what it placed
// between the answer delimiters.
func (p *Paraphraser) Reword(ctx context.Context, systemPrompt, text string) (string, error) {
	completion, err := p.client.complete(ctx, domain.CompletionRequest{
		Model: p.client.chatModel,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: systemPrompt},
			{Role: domain.RoleUser, Content: text},
		},
	})
	if err != nil {
		return "", err
	}
	return scoring.FindBetween(AnswerOpen, AnswerClose, completion.Content), nil
}
