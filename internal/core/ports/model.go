// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/cotfaith/internal/core/domain"
)

// ReasoningClient sends a conversation to the remote reasoning model.
//
//go:generate mockgen -source=model.go -destination=mocks/mock_model.go -package=mocks
type ReasoningClient interface {
	// Complete returns the next chunk of assistant output for the request.
	// A request whose last message is a prefix-flagged assistant message is a
	// continuation: the returned content extends that message.
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error)
}

// Paraphraser rewords a span of text with the remote chat model.
type Paraphraser interface {
	// Reword returns the text the model placed between its answer delimiters.
	Reword(ctx context.Context, systemPrompt, text string) (string, error)
}
