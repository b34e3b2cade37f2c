// Package engine orchestrates a conversation turn: it resolves the session's
// focus against the knowledge base, synthesizes the system instruction,
// assembles the full message sequence, and delegates generation to the
// completion backend.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kalambet/folio/internal/composer"
	"github.com/kalambet/folio/internal/knowledge"
	"github.com/kalambet/folio/internal/session"
)

// ErrCompletionUnavailable is returned when the completion backend fails or
// produces an empty reply. The session stays usable for the next turn.
var ErrCompletionUnavailable = errors.New("completion backend unavailable")

// Generation parameters sent with every completion request. Fixed defaults,
// taken as configuration constants rather than computed per turn.
const (
	DefaultTemperature = 0.5
	DefaultMaxTokens   = 800
)

// Message is one {role, content} entry of the wire-format sequence sent to
// the completion backend. Timestamps never cross this boundary.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer abstracts the completion backend. Implemented by an adapter
// around proxy.Client; it owns all network, timeout, and retry concerns.
type Completer interface {
	Complete(ctx context.Context, model string, messages []Message, temperature float64, maxTokens int) (string, error)
}

// TurnLog records completed turns. Implemented by storage.Store.
// Logging is best-effort and never fails a turn.
type TurnLog interface {
	LogTurn(sessionID, focus, userText, assistantText, model string) error
}

// Engine processes conversation turns against a single knowledge base.
type Engine struct {
	kb          *knowledge.Store
	completer   Completer
	model       string
	temperature float64
	maxTokens   int
	turns       TurnLog // optional
}

// New creates an Engine with the default generation parameters.
// turns may be nil to disable turn logging.
func New(kb *knowledge.Store, completer Completer, model string, turns TurnLog) *Engine {
	return &Engine{
		kb:          kb,
		completer:   completer,
		model:       model,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		turns:       turns,
	}
}

// SetGeneration overrides the generation parameters. Zero values keep the
// defaults.
func (e *Engine) SetGeneration(temperature float64, maxTokens int) {
	if temperature > 0 {
		e.temperature = temperature
	}
	if maxTokens > 0 {
		e.maxTokens = maxTokens
	}
}

// Respond processes one turn: it sends the system instruction, the prior
// history, and userText to the completion backend, records the completed
// turn in the session, and returns the reply.
//
// On failure it returns ErrCompletionUnavailable (wrapped) and leaves the
// session history untouched: turn recording is atomic, so a failed
// completion never strands an unanswered user message.
func (e *Engine) Respond(ctx context.Context, sess *session.Session, userText string) (string, error) {
	focus := e.resolveFocus(sess)
	instruction := composer.Build(e.kb.Profile(), focus)

	messages := assembleMessages(instruction, sess.History(), userText)

	reply, err := e.completer.Complete(ctx, e.model, messages, e.temperature, e.maxTokens)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("%w: empty reply", ErrCompletionUnavailable)
	}

	sess.RecordTurn(userText, reply)

	if e.turns != nil {
		focusName := sess.Focus()
		if err := e.turns.LogTurn(sess.ID, focusName, userText, reply, e.model); err != nil {
			slog.Warn("failed to log turn", "session", sess.ID, "error", err)
		}
	}

	return reply, nil
}

// resolveFocus maps the session's focus name to a project via the knowledge
// base. A focus name that no longer resolves is treated as no focus.
func (e *Engine) resolveFocus(sess *session.Session) *knowledge.Project {
	name := sess.Focus()
	if name == "" {
		return nil
	}
	p, ok := e.kb.FindProject(name)
	if !ok {
		return nil
	}
	return &p
}

// assembleMessages builds the ordered wire sequence: system instruction,
// prior history (roles and content only), then the new user message.
func assembleMessages(instruction string, history []session.Message, userText string) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: instruction})
	for _, m := range history {
		messages = append(messages, Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, Message{Role: session.RoleUser, Content: userText})
	return messages
}
