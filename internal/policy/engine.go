package policy

import (
	"fmt"
	"log/slog"
	"sort"
)

// Outcome classifies a decision for logs and metrics.
type Outcome string

// Decision outcomes.
const (
	OutcomeAllow         Outcome = "allow"
	OutcomeDeny          Outcome = "deny"
	OutcomeMisconfigured Outcome = "misconfigured"
)

// Decision is the full result of an evaluation.
type Decision struct {
	Allowed bool
	Outcome Outcome
	Kind    Kind
	Action  Action
	// Clause is the index of the matching clause, or -1.
	Clause int
	// Err is set only for misconfigured decisions.
	Err error
}

// DecisionObserver receives every decision. observability.Metrics satisfies it.
type DecisionObserver interface {
	ObserveDecision(kind, action, outcome string)
}

// Engine evaluates the rule tables. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	resolver Resolver
	tables   map[Kind]*Table
	logger   *slog.Logger
	observer DecisionObserver
}

// Option customises an Engine.
type Option func(*Engine)

// WithResolver injects a relationship resolver.
func WithResolver(r Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithLogger sets the logger used for configuration defects.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithObserver registers a decision observer.
func WithObserver(o DecisionObserver) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine builds an Engine with the built-in rule tables.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		resolver: Relations{},
		tables:   DefaultTables(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultTables returns freshly built rule tables keyed by resource kind.
func DefaultTables() map[Kind]*Table {
	tables := make(map[Kind]*Table)
	for _, t := range []*Table{
		ambulanceRules(),
		patientRules(),
		referralRules(),
		userRules(),
		equipmentRules(),
	} {
		tables[t.Kind()] = t
	}
	return tables
}

// Authorize reports whether actor may perform action on resource.
func (e *Engine) Authorize(actor Actor, action Action, resource Resource) bool {
	return e.Decide(actor, action, resource).Allowed
}

// Decide evaluates the request and returns the detailed decision. It never
// panics on partial snapshots; a missing key simply fails its predicate.
func (e *Engine) Decide(actor Actor, action Action, resource Resource) Decision {
	resource = normalize(resource)
	if resource == nil {
		return e.misconfigured(Decision{Action: action, Clause: -1}, ErrUnknownResource)
	}
	d := Decision{Kind: resource.Kind(), Action: action, Clause: -1}
	table, ok := e.tables[d.Kind]
	if !ok {
		return e.misconfigured(d, fmt.Errorf("%w: %s", ErrUnknownResource, d.Kind))
	}
	matched, known := table.evaluate(e.resolver, actor, action, resource)
	if !known {
		return e.misconfigured(d, fmt.Errorf("%w: %s.%s", ErrUnrecognizedAction, d.Kind, action))
	}
	d.Clause = matched
	d.Allowed = matched >= 0
	d.Outcome = OutcomeDeny
	if d.Allowed {
		d.Outcome = OutcomeAllow
	}
	e.observe(d)
	return d
}

func (e *Engine) misconfigured(d Decision, err error) Decision {
	d.Allowed = false
	d.Outcome = OutcomeMisconfigured
	d.Err = err
	if e.logger != nil {
		e.logger.Error("policy configuration defect",
			slog.String("resource", string(d.Kind)),
			slog.String("action", string(d.Action)),
			slog.Any("error", err))
	}
	e.observe(d)
	return d
}

func (e *Engine) observe(d Decision) {
	if e.observer == nil {
		return
	}
	kind, action := string(d.Kind), string(d.Action)
	if kind == "" {
		kind = "unknown"
	}
	// Unrecognized actions come from callers; keep them out of label values.
	if d.Outcome == OutcomeMisconfigured {
		action = "unrecognized"
	}
	e.observer.ObserveDecision(kind, action, string(d.Outcome))
}

// Supports reports whether the rule table for kind declares action.
func (e *Engine) Supports(kind Kind, action Action) bool {
	t, ok := e.tables[kind]
	return ok && t.Has(action)
}

// Describe lists every clause of every table, ordered by kind and then by
// declaration order.
func (e *Engine) Describe() []Row {
	kinds := make([]Kind, 0, len(e.tables))
	for k := range e.tables {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	var rows []Row
	for _, k := range kinds {
		rows = append(rows, e.tables[k].rows()...)
	}
	return rows
}

// Actions lists the actions declared for kind.
func (e *Engine) Actions(kind Kind) []Action {
	t, ok := e.tables[kind]
	if !ok {
		return nil
	}
	return t.Actions()
}
