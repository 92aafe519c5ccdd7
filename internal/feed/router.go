// Package feed maps section names to provider invocations and runs the
// aggregation path that collects raw articles for a section.
package feed

import (
	"github.com/newsmux/newsmux/internal/providers"
)

// Route is one primary provider invocation for a section.
type Route struct {
	Adapter providers.Adapter
	Params  providers.Params
}

// Section is the static routing configuration for one named topic.
// Primary routes run first, in declared order; Feeds are RSS adapters
// appended afterwards as low-priority supplementary content.
type Section struct {
	Name       string
	DefaultTag string
	Language   string
	Primary    []Route
	Feeds      []providers.Adapter
}

// Router resolves section names to their routing configuration.
// Routing is static, built once at startup.
type Router struct {
	sections map[string]*Section
	order    []string
	fallback string
}

// NewRouter creates a router whose unknown-section fallback is the
// named default section.
func NewRouter(defaultSection string) *Router {
	return &Router{
		sections: make(map[string]*Section),
		fallback: defaultSection,
	}
}

// Add registers a section. Declaration order is preserved and drives
// refresh-cycle iteration order.
func (r *Router) Add(s *Section) {
	if _, exists := r.sections[s.Name]; !exists {
		r.order = append(r.order, s.Name)
	}
	r.sections[s.Name] = s
}

// Route returns the section configuration for name. Unknown names fall
// back to the default section rather than failing the request.
func (r *Router) Route(name string) *Section {
	if s, ok := r.sections[name]; ok {
		return s
	}
	return r.sections[r.fallback]
}

// Resolve returns the canonical section name for a requested name, so
// cache keys stay stable when unknown sections degrade to the default.
func (r *Router) Resolve(name string) string {
	if _, ok := r.sections[name]; ok {
		return name
	}
	return r.fallback
}

// Sections returns all known section names in declaration order.
func (r *Router) Sections() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
