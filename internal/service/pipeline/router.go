package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/pkg/log"
)

var (
	eventRe   = regexp.MustCompile(`(?i)\b(event|events|fest|festival|workshop|seminar|lecture|hackathon|happening|schedule|scheduled)\b`)
	contactRe = regexp.MustCompile(`(?i)\b(who\s+(do|should|can)\s+i\s+(ask|contact|talk|email|call)|whom\s+(do|should)\s+i|contact\s+(number|details|info)|phone\s+number|email\s+(id|address)\s+of|which\s+(office|department))\b`)
)

// Router decides which tool chain serves a refined query. Cheap keyword
// heuristics settle the unambiguous cases without a model call; everything
// else goes to LLM classification, and anything the model mangles lands on
// the general chain.
type Router struct {
	ai core.AIProvider
}

func NewRouter(ai core.AIProvider) *Router {
	return &Router{ai: ai}
}

func (r *Router) Route(ctx context.Context, query string) core.Route {
	logger := log.FromCtx(ctx)

	if route, ok := r.heuristic(query); ok {
		logger.Debug().Str("route", string(route)).Msg("routed by heuristic")
		return route
	}

	msg, err := r.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: routerSystemPrompt},
		{Role: core.RoleUser, Content: query},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("route classification failed, defaulting to general")
		return core.RouteGeneral
	}

	tag := strings.ToLower(strings.TrimSpace(msg.Content))
	tag = strings.Trim(tag, `"'.`)
	route, ok := core.ParseRoute(tag)
	if !ok {
		logger.Warn().Str("output", msg.Content).Msg("unknown route tag, defaulting to general")
		return core.RouteGeneral
	}
	logger.Debug().Str("route", string(route)).Msg("routed by model")
	return route
}

func (r *Router) heuristic(query string) (core.Route, bool) {
	switch {
	case isGreeting(query):
		return core.RouteGeneral, true
	case eventRe.MatchString(query):
		return core.RouteLookup, true
	case contactRe.MatchString(query):
		return core.RouteDirectory, true
	}
	return "", false
}
