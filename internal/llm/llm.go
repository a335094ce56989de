// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm is the chat-completion boundary shared by the remote article
// source, the remote auditor, and the remote structure extractor.
package llm

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a chat-completion request.
type Message struct {
	Role    Role
	Content string
}

// Request carries everything one chat-completion call needs.
type Request struct {
	// Model overrides the client's default model when non-empty.
	Model       string
	Messages    []Message
	Temperature float64
}

// Client abstracts the chat-completion API so stages can be tested with a
// mock. Implementations return the text of the first choice.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// System and User build messages for the common two-turn prompt shape.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

func User(content string) Message { return Message{Role: RoleUser, Content: content} }
