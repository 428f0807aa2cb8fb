package bot

import (
	"context"
	"strings"

	"github.com/kdsmedia/altoshopbot/internal/chat"
	"github.com/kdsmedia/altoshopbot/internal/session"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
)

// Handle processes one inbound message end to end. It serializes per sender:
// the per-user lock is held until every store write for this message has
// finished, so two messages from the same user can never interleave against
// the same conversation state. Different senders proceed concurrently.
func (e *Engine) Handle(ctx context.Context, msg chat.Message) {
	userID := msg.SenderID
	if userID == "" {
		logx.Warn().Msg("dropping message without sender id")
		return
	}

	e.locks.Lock(userID)
	defer e.locks.Unlock(userID)

	user, err := e.store.GetOrCreateUser(ctx, userID)
	if err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to load user")
		e.text(ctx, userID, msgApology)
		return
	}

	st, _ := e.sessions.Get(userID)
	body := strings.TrimSpace(msg.Body)

	// Cancellation aborts any active flow without touching persisted data and
	// without re-showing the menu.
	if strings.EqualFold(body, cancelKeyword) && st.Active() {
		e.sessions.Clear(userID)
		e.text(ctx, userID, msgCancelled)
		return
	}

	// The finish command only means something inside an AI chat session.
	if strings.EqualFold(body, finishCommand) && st.Step == session.StepAIChat {
		e.sessions.Clear(userID)
		if e.responder != nil {
			if err := e.responder.Reset(ctx, userID); err != nil {
				logx.Error().Err(err).Str("userID", userID).Msg("failed to reset ai conversation")
			}
		}
		e.text(ctx, userID, "🤖 Sesi chat AI selesai. Anda kembali ke menu utama.")
		e.sendMainMenu(ctx, user)
		return
	}

	// Structured selections drive their own handlers regardless of state; a
	// handler that finds no matching flow must no-op rather than fail.
	if msg.ButtonID != "" {
		e.handleButton(ctx, user, st, msg.ButtonID)
		return
	}
	if msg.ListRowID != "" {
		e.handleListRow(ctx, user, st, msg.ListRowID)
		return
	}

	// Free text inside an active flow continues that flow verbatim.
	if st.Active() {
		e.handleFlowText(ctx, user, st, body)
		return
	}

	// Slash commands only fire when no flow is active.
	if strings.HasPrefix(body, "/") {
		if e.handleCommand(ctx, user, body) {
			return
		}
	}

	// Fallback: show the main menu and clear any stray state.
	e.sendMainMenu(ctx, user)
}
