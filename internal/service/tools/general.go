package tools

import (
	"context"
	"strings"

	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/pkg/log"
)

const generalDegradedText = "I'm having trouble answering right now. Please try again in a moment."

// General is the ungrounded conversational chain and the default route.
// It passes a window of history through so small talk stays coherent.
type General struct {
	ai            core.AIProvider
	historyWindow int
}

func NewGeneral(ai core.AIProvider, historyWindow int) *General {
	return &General{ai: ai, historyWindow: historyWindow}
}

func (g *General) Run(ctx context.Context, query string, history []core.Turn) (core.Answer, error) {
	messages := []core.Message{{Role: core.RoleSystem, Content: generalSystemPrompt}}

	start := 0
	if g.historyWindow > 0 && len(history) > g.historyWindow {
		start = len(history) - g.historyWindow
	}
	for _, turn := range history[start:] {
		messages = append(messages, core.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, core.Message{Role: core.RoleUser, Content: query})

	msg, err := g.ai.Chat(ctx, messages)
	if err != nil || strings.TrimSpace(msg.Content) == "" {
		log.FromCtx(ctx).Warn().Err(err).Msg("general reply generation failed")
		return core.Answer{Text: generalDegradedText, Source: core.RouteGeneral}, nil
	}

	return core.Answer{
		Text:   strings.TrimSpace(msg.Content),
		Source: core.RouteGeneral,
	}, nil
}
