package ai_bot

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AIBotAPI interface {
	// Complete sends the conversation to the chat model and returns the
	// reply, limited to maxTokens.
	Complete(ctx context.Context, messages []Message, maxTokens int) (string, error)
}
