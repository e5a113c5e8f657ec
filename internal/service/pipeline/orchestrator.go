package pipeline

import (
	"context"
	"strings"

	"github.com/campushq/campusbot/internal/config"
	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/internal/service/tools"
	"github.com/campushq/campusbot/pkg/log"
)

// Orchestrator runs one chat exchange end to end: read history, detect the
// query language, refine, route, run the chosen chain, translate if needed,
// and only then append both turns to the session. A request that reaches a
// chain always produces a valid answer; the session is never left with a
// partial exchange.
type Orchestrator struct {
	sessions   core.SessionRepository
	detector   *LanguageDetector
	refiner    *Refiner
	router     *Router
	registry   *tools.Registry
	translator core.Translator
	cfg        *config.PipelineConfig
}

func NewOrchestrator(
	sessions core.SessionRepository,
	detector *LanguageDetector,
	refiner *Refiner,
	router *Router,
	registry *tools.Registry,
	translator core.Translator,
	cfg *config.PipelineConfig,
) *Orchestrator {
	return &Orchestrator{
		sessions:   sessions,
		detector:   detector,
		refiner:    refiner,
		router:     router,
		registry:   registry,
		translator: translator,
		cfg:        cfg,
	}
}

// Respond answers query for the given session. language is the requested
// output language; empty means answer in whatever language the query was
// written in.
func (o *Orchestrator) Respond(ctx context.Context, sessionID, query, language string) (core.Answer, error) {
	logger := log.FromCtx(ctx)

	history, err := o.sessions.History(ctx, sessionID)
	if err != nil {
		// A lost history degrades the answer quality but must not kill
		// the request.
		logger.Warn().Err(err).Str("session", sessionID).Msg("history read failed, continuing without it")
		history = nil
	}

	detected := o.detectLanguage(ctx, query)
	refined := o.refineQuery(ctx, query, history)
	route := o.routeQuery(ctx, refined)

	answer, err := o.runChain(ctx, route, refined, history)
	if err != nil {
		return core.Answer{}, err
	}

	target := o.resolveTarget(ctx, language, detected)
	answer = o.translateAnswer(ctx, answer, target)

	logger.Info().
		Str("session", sessionID).
		Str("route", string(answer.Source)).
		Str("detected", detected).
		Str("target", target).
		Msg("chat exchange complete")

	turns := []core.Turn{
		{Role: core.RoleUser, Content: query, Language: detected},
		{Role: core.RoleAssistant, Content: answer.Text, Language: answer.Language},
	}
	if err := o.sessions.Append(ctx, sessionID, turns...); err != nil {
		// The user already has their answer; losing the turns only hurts
		// the next follow-up.
		logger.Error().Err(err).Str("session", sessionID).Msg("failed to append exchange to session")
	}

	return answer, nil
}

func (o *Orchestrator) detectLanguage(ctx context.Context, query string) string {
	ctx, cancel := o.callCtx(ctx)
	defer cancel()
	return o.detector.Detect(ctx, query)
}

func (o *Orchestrator) refineQuery(ctx context.Context, query string, history []core.Turn) string {
	ctx, cancel := o.callCtx(ctx)
	defer cancel()
	return o.refiner.Refine(ctx, query, history)
}

func (o *Orchestrator) routeQuery(ctx context.Context, refined string) core.Route {
	ctx, cancel := o.callCtx(ctx)
	defer cancel()
	return o.router.Route(ctx, refined)
}

func (o *Orchestrator) runChain(ctx context.Context, route core.Route, refined string, history []core.Turn) (core.Answer, error) {
	ctx, cancel := o.callCtx(ctx)
	defer cancel()
	return o.registry.Resolve(route).Run(ctx, refined, history)
}

// translateAnswer carries the answer into the target language. Identity
// when the target is already the working language; any translation failure
// keeps the untranslated text.
func (o *Orchestrator) translateAnswer(ctx context.Context, answer core.Answer, target string) core.Answer {
	answer.Language = o.cfg.WorkingLanguage
	if target == o.cfg.WorkingLanguage || o.translator == nil {
		return answer
	}

	ctx, cancel := o.callCtx(ctx)
	defer cancel()

	translated, err := o.translator.Translate(ctx, answer.Text, o.cfg.WorkingLanguage, target)
	if err != nil || strings.TrimSpace(translated) == "" {
		log.FromCtx(ctx).Warn().Err(err).Str("target", target).Msg("answer translation failed, returning working language")
		return answer
	}

	answer.Text = translated
	answer.Language = target
	answer.Translated = true
	return answer
}

// resolveTarget picks the output language: the explicit request wins, then
// the detected query language; anything unsupported degrades to the working
// language.
func (o *Orchestrator) resolveTarget(ctx context.Context, requested, detected string) string {
	target := requested
	if target == "" {
		target = detected
	}
	if !o.cfg.IsSupported(target) {
		log.FromCtx(ctx).Warn().Str("language", target).Msg("unsupported output language, using working language")
		return o.cfg.WorkingLanguage
	}
	return target
}

// callCtx bounds a single external call without shortening the request
// deadline for later ones.
func (o *Orchestrator) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.cfg.CallTimeout)
}
