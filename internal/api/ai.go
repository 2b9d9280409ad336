package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/domain/chat"
	"go.uber.org/zap"
)

// AIAPI covers /api/ai.
type AIAPI struct {
	c *core
}

// Chat sends a prompt to the assistant and returns its reply text.
func (a *AIAPI) Chat(ctx context.Context, prompt string) (string, error) {
	req := chat.Request{Prompt: strings.TrimSpace(prompt)}
	if err := a.c.check(req); err != nil {
		return "", err
	}
	var reply chat.Reply
	if err := a.c.send(ctx, http.MethodPost, "/api/ai/chat", req, &reply); err != nil {
		return "", err
	}
	return reply.Text(), nil
}

// Ask appends the prompt and the assistant's answer to conv. When the chat
// call fails, a fallback assistant turn is appended instead and no error is
// returned, except for AuthExpired and cancellation which always propagate.
func (a *AIAPI) Ask(ctx context.Context, conv *chat.Conversation, prompt string) (chat.Turn, error) {
	req := chat.Request{Prompt: strings.TrimSpace(prompt)}
	if err := a.c.check(req); err != nil {
		return chat.Turn{}, err
	}
	conv.Append(chat.Turn{Role: chat.RoleUser, Text: req.Prompt, At: a.c.now()})

	text, err := a.Chat(ctx, req.Prompt)
	switch apierror.KindOf(err) {
	case apierror.KindNone:
		if text != "" {
			turn := chat.Turn{Role: chat.RoleAssistant, Text: text, At: a.c.now()}
			conv.Append(turn)
			return turn, nil
		}
		a.c.logger.Warn("assistant returned an empty reply")
	case apierror.KindAuthExpired, apierror.KindCanceled:
		return chat.Turn{}, err
	default:
		a.c.logger.Warn("assistant unavailable", zap.Stringer("kind", apierror.KindOf(err)), zap.Error(err))
	}

	turn := chat.Turn{Role: chat.RoleAssistant, Text: chat.FallbackReply, At: a.c.now(), Fallback: true}
	conv.Append(turn)
	return turn, nil
}
