// Package species implements a combinatorial species engine: given a
// grammar of labelled combinatorial classes built from the atom,
// neutral, disjoint union, labelled product, ordered product, and boxed
// product constructors, it resolves the grammar, counts the objects of
// each class at any size, enumerates them in a canonical order, and
// unranks or uniformly samples them.
//
// The engine plays the same role for combinatorial grammars that
// github.com/dekarrin/ictiobus plays for context-free ones in this
// project's other modules: a reusable processing core with no I/O, no
// CLI, and no opinion about what the objects it builds actually are.
package species

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/dekarrin/species/internal/combinadics"
	"github.com/dekarrin/species/internal/memo"
	"github.com/dekarrin/species/internal/valuation"
	"github.com/google/uuid"
)

// State is one state of a Grammar's lifecycle (spec §4.7).
type State int

const (
	Unbound State = iota
	Bound
	Validated
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "Unbound"
	case Bound:
		return "Bound"
	case Validated:
		return "Validated"
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Grammar is a named collection of rules together with their resolved
// valuations, ready to serve Count, List, Unrank, and Sample once Init
// succeeds. A Grammar is conceptually immutable after Init except for
// monotone insertion of new memo entries (spec §5); it is safe for
// concurrent readers once Ready.
type Grammar[L Label, O any] struct {
	id    uuid.UUID
	rules map[string]Rule[L, O]

	mu    sync.RWMutex
	state State

	valuations map[string]valuation.Value
	store      memo.Store
	logger     logger
}

// New constructs a Grammar from rules. No validation happens yet; call
// Init to move it through Bound -> Validated -> Ready (or Failed).
func New[L Label, O any](rules map[string]Rule[L, O], opts ...Option) *Grammar[L, O] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	copied := make(map[string]Rule[L, O], len(rules))
	for k, v := range rules {
		copied[k] = v
	}

	return &Grammar[L, O]{
		id:     uuid.New(),
		rules:  copied,
		state:  Unbound,
		store:  o.store,
		logger: logger{o.logger},
	}
}

// ID returns the grammar's correlation handle, stamped onto every error
// it returns.
func (g *Grammar[L, O]) ID() uuid.UUID { return g.id }

// State reports the grammar's current lifecycle state.
func (g *Grammar[L, O]) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Init performs the save/check/valuation sequence of spec §4.7: it
// installs the (conceptual) back-handle from every rule to this grammar,
// validates closure (I1), and runs the valuation fixpoint (I3),
// confirming every rule is productive (I2). A Grammar that fails Init is
// left in the Failed state and every subsequent query fails with
// GrammarNotInitialisedError.
func (g *Grammar[L, O]) Init() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = Bound

	nodes := make(map[string]valuation.Node, len(g.rules))
	for key, r := range g.rules {
		nodes[key] = valuation.Node{Kind: r.kind, Left: r.left, Right: r.right}
	}

	if err := g.validateClosure(nodes); err != nil {
		g.state = Failed
		return err
	}
	g.state = Validated

	val, err := valuation.Solve(nodes)
	if err != nil {
		g.state = Failed
		var npe *valuation.NonProductiveError
		if ok := asNonProductive(err, &npe); ok {
			return &NonProductiveRuleError{Handle: g.id, Key: npe.Key}
		}
		return err
	}

	g.valuations = val
	g.state = Ready
	g.logger.Printf("species: grammar %s ready (%d rules)", g.id, len(g.rules))
	return nil
}

func asNonProductive(err error, target **valuation.NonProductiveError) bool {
	npe, ok := err.(*valuation.NonProductiveError)
	if ok {
		*target = npe
	}
	return ok
}

// validateClosure checks invariant I1: every key a rule refers to must be
// a key of the grammar itself.
func (g *Grammar[L, O]) validateClosure(nodes map[string]valuation.Node) error {
	for key, r := range g.rules {
		for _, child := range r.children() {
			if _, ok := nodes[child]; !ok {
				return &MalformedGrammarError{Handle: g.id, Missing: fmt.Sprintf("%s (referenced by %q)", child, key)}
			}
		}
	}
	return nil
}

// Valuation returns the minimum object size of the class named key.
// Valid only once the grammar is Ready.
func (g *Grammar[L, O]) Valuation(key string) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.state != Ready {
		return 0, &GrammarNotInitialisedError{Handle: g.id, State: g.state}
	}
	v, ok := g.valuations[key]
	if !ok {
		return 0, &UnknownKeyError{Handle: g.id, Key: key}
	}
	return v.Int(), nil
}

// rule looks up a rule by key, failing with UnknownKeyError if absent.
func (g *Grammar[L, O]) rule(key string) (Rule[L, O], error) {
	r, ok := g.rules[key]
	if !ok {
		return Rule[L, O]{}, &UnknownKeyError{Handle: g.id, Key: key}
	}
	return r, nil
}

// requireReady fails fast with GrammarNotInitialisedError unless the
// grammar has completed Init successfully.
func (g *Grammar[L, O]) requireReady() error {
	if g.state != Ready {
		return &GrammarNotInitialisedError{Handle: g.id, State: g.state}
	}
	return nil
}

// checkLabels validates that labels are pairwise distinct, per the
// requirement shared by List, Unrank, and Sample.
func (g *Grammar[L, O]) checkLabels(labels []L) error {
	seen := make(map[L]struct{}, len(labels))
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			return &DuplicateLabelError{Handle: g.id}
		}
		seen[l] = struct{}{}
	}
	return nil
}

// checkCancelled turns a cancelled context into a CancelledError.
func (g *Grammar[L, O]) checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &CancelledError{Handle: g.id, Cause: context.Cause(ctx)}
	}
	return nil
}

// binomial is a small convenience wrapper over combinadics.Binomial used
// by count.go's convolution weights, so count.go does not repeat the
// package qualifier at every call site.
func binomial(n, k int) *big.Int { return combinadics.Binomial(n, k) }
