package tools

import (
	"context"

	"github.com/campushq/campusbot/internal/core"
)

// Chain turns a refined query plus session history into a draft answer in
// the working language. Chains catch their own external-call failures and
// map them to degraded but valid answers; a non-nil error from Run is a
// programming error, not an expected runtime outcome.
type Chain interface {
	Run(ctx context.Context, query string, history []core.Turn) (core.Answer, error)
}

// Registry dispatches a route decision to its chain.
type Registry struct {
	chains   map[core.Route]Chain
	fallback Chain
}

func NewRegistry(retrieval, lookup, directory, general Chain) *Registry {
	return &Registry{
		chains: map[core.Route]Chain{
			core.RouteRetrieval: retrieval,
			core.RouteLookup:    lookup,
			core.RouteDirectory: directory,
			core.RouteGeneral:   general,
		},
		fallback: general,
	}
}

// Resolve returns the chain for route, falling back to the general chain
// for anything unknown.
func (r *Registry) Resolve(route core.Route) Chain {
	if chain, ok := r.chains[route]; ok {
		return chain
	}
	return r.fallback
}
