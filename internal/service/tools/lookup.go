package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/pkg/log"
)

const lookupDegradedText = "I couldn't find that information in the events database. Please check with the main office for the latest schedule."

// Lookup answers event and schedule questions by generating a guarded
// SELECT against the events table and synthesizing the rows into prose.
type Lookup struct {
	events core.EventRepository
	ai     core.AIProvider
}

func NewLookup(events core.EventRepository, ai core.AIProvider) *Lookup {
	return &Lookup{events: events, ai: ai}
}

func (l *Lookup) Run(ctx context.Context, query string, history []core.Turn) (core.Answer, error) {
	logger := log.FromCtx(ctx)

	schema, err := l.events.Schema(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("events schema unavailable")
		return l.degraded(), nil
	}

	stmt, err := l.generateSQL(ctx, schema, query)
	if err != nil {
		logger.Warn().Err(err).Msg("sql generation failed")
		return l.degraded(), nil
	}

	guarded, err := SanitizeSelect(stmt)
	if err != nil {
		logger.Warn().Err(err).Str("stmt", stmt).Msg("generated sql rejected by guard")
		return l.degraded(), nil
	}
	logger.Debug().Str("stmt", guarded).Msg("running events lookup")

	columns, rows, err := l.events.Select(ctx, guarded)
	if err != nil {
		logger.Warn().Err(err).Msg("events query failed")
		return l.degraded(), nil
	}

	answer, err := l.synthesize(ctx, query, formatRows(columns, rows))
	if err != nil {
		logger.Warn().Err(err).Msg("lookup answer generation failed")
		// The rows themselves are still useful; fall back to the raw table.
		if len(rows) > 0 {
			return core.Answer{Text: formatRows(columns, rows), Source: core.RouteLookup}, nil
		}
		return l.degraded(), nil
	}

	return core.Answer{Text: answer, Source: core.RouteLookup}, nil
}

func (l *Lookup) generateSQL(ctx context.Context, schema, query string) (string, error) {
	prompt := fmt.Sprintf("Schema:\n%s\n\nQuestion: %s\n\nSQL:", schema, query)
	msg, err := l.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: sqlGenSystemPrompt},
		{Role: core.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

func (l *Lookup) synthesize(ctx context.Context, query, result string) (string, error) {
	prompt := fmt.Sprintf("SQL Query Result:\n%s\n\nOriginal Question:\n%s\n\nAnswer:", result, query)
	msg, err := l.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: sqlAnswerSystemPrompt},
		{Role: core.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("empty answer")
	}
	return strings.TrimSpace(msg.Content), nil
}

func (l *Lookup) degraded() core.Answer {
	return core.Answer{Text: lookupDegradedText, Source: core.RouteLookup}
}

func formatRows(columns []string, rows [][]string) string {
	if len(rows) == 0 {
		return "(no rows)"
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(columns, " | "))
	for _, row := range rows {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(row, " | "))
	}
	return sb.String()
}
