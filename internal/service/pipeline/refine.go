package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/pkg/log"
)

var greetingRe = regexp.MustCompile(`(?i)^\s*(hi|hii+|hello|hey|namaste|hola|good\s+(morning|afternoon|evening))[\s!.,]*$`)

// isGreeting reports whether the message is pure small-talk opening that
// needs neither rewriting nor grounding.
func isGreeting(query string) bool {
	return greetingRe.MatchString(query)
}

// Refiner rewrites follow-up messages into standalone English queries so the
// router and chains never see dangling pronouns. It degrades to the original
// query whenever the model cannot help.
type Refiner struct {
	ai            core.AIProvider
	historyWindow int
}

func NewRefiner(ai core.AIProvider, historyWindow int) *Refiner {
	return &Refiner{ai: ai, historyWindow: historyWindow}
}

func (r *Refiner) Refine(ctx context.Context, query string, history []core.Turn) string {
	if isGreeting(query) {
		return query
	}

	start := 0
	if r.historyWindow > 0 && len(history) > r.historyWindow {
		start = len(history) - r.historyWindow
	}
	windowed := history[start:]

	var sb strings.Builder
	if len(windowed) > 0 {
		sb.WriteString("Conversation so far:\n")
		for _, turn := range windowed {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Latest message: %s", query)

	msg, err := r.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: refineSystemPrompt},
		{Role: core.RoleUser, Content: sb.String()},
	})
	if err != nil || strings.TrimSpace(msg.Content) == "" {
		log.FromCtx(ctx).Warn().Err(err).Msg("query refinement failed, keeping original")
		return query
	}
	return strings.TrimSpace(msg.Content)
}
