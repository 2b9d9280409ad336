package chat

import (
	"sync"
	"time"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// FallbackReply is shown in place of an assistant answer when the chat call fails.
const FallbackReply = "Sorry, I couldn't reach the EcoPulse assistant right now. Your message wasn't lost, please try again in a moment."

// Request is the body of POST /api/ai/chat.
type Request struct {
	Prompt string `json:"prompt" validate:"required,max=2000"`
}

// Reply is the assistant response. Deployments answer in either field.
type Reply struct {
	Message  string `json:"message,omitempty"`
	Response string `json:"response,omitempty"`
}

// Text returns the reply text, preferring message over response.
func (r Reply) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Response
}

// Turn is one message in a conversation.
type Turn struct {
	Role     Role      `json:"role"`
	Text     string    `json:"text"`
	At       time.Time `json:"at"`
	Fallback bool      `json:"fallback,omitempty"`
}

// Conversation is an ordered, append-only list of turns.
type Conversation struct {
	mu    sync.Mutex
	turns []Turn
}

// Append adds a turn to the end of the conversation.
func (c *Conversation) Append(turn Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, turn)
}

// Turns returns a copy of the turns in order.
func (c *Conversation) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}
