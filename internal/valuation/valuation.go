// Package valuation computes the minimum object size of every rule in a
// grammar by running a Kleene fixpoint over the rule graph, following the
// same repeat-until-no-change shape used for viable-prefix automaton
// construction and FOLLOW-set computation elsewhere in this project's
// lineage: build an initial approximation, repeatedly tighten it from the
// combination rules, and stop the first pass that changes nothing.
package valuation

import (
	"fmt"
	"sort"
)

// Kind identifies which of the six grammar constructors a Node represents.
type Kind int

const (
	Atom Kind = iota
	Epsilon
	Union
	Product
	OrdProduct
	BoxProduct
)

func (k Kind) String() string {
	switch k {
	case Atom:
		return "Atom"
	case Epsilon:
		return "Epsilon"
	case Union:
		return "Union"
	case Product:
		return "Product"
	case OrdProduct:
		return "OrdProduct"
	case BoxProduct:
		return "BoxProduct"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is the structural shape of one grammar rule: enough information to
// run the valuation fixpoint and the counter, with no reference to the
// user-supplied builders/combinators that only matter once real objects are
// being constructed.
type Node struct {
	Kind        Kind
	Left, Right string // unused by Atom/Epsilon
}

// Value is an element of the lattice ℕ ∪ {∞}, ordered so that smaller finite
// values are "better" than larger ones, and ∞ is the bottom of productivity.
type Value struct {
	n   int
	inf bool
}

// Finite constructs a finite valuation.
func Finite(n int) Value { return Value{n: n} }

// Infinite is the valuation of a rule that has not been shown productive.
var Infinite = Value{inf: true}

// IsInfinite reports whether v is the ∞ element.
func (v Value) IsInfinite() bool { return v.inf }

// Int returns the finite value of v. It panics if v is infinite; callers
// must check IsInfinite first.
func (v Value) Int() int {
	if v.inf {
		panic("valuation: Int called on infinite value")
	}
	return v.n
}

func (v Value) String() string {
	if v.inf {
		return "∞"
	}
	return fmt.Sprintf("%d", v.n)
}

// less reports whether a is strictly smaller than b in the lattice order
// (finite values compare normally; ∞ is larger than every finite value and
// equal to itself).
func less(a, b Value) bool {
	if a.inf {
		return false
	}
	if b.inf {
		return true
	}
	return a.n < b.n
}

// min returns the lattice meet of a and b.
func min(a, b Value) Value {
	if less(a, b) {
		return a
	}
	return b
}

// add returns a + b, where ∞ absorbs any finite addend.
func add(a, b Value) Value {
	if a.inf || b.inf {
		return Infinite
	}
	return Finite(a.n + b.n)
}

// maxOne returns max(1, v).
func maxOne(v Value) Value {
	if v.inf {
		return v
	}
	if v.n < 1 {
		return Finite(1)
	}
	return v
}

// NonProductiveError reports that a rule's valuation could not be reduced
// below ∞ by the fixpoint: the class it denotes contains no finite-size
// object.
type NonProductiveError struct {
	Key string
}

func (e *NonProductiveError) Error() string {
	return fmt.Sprintf("rule %q is not productive: its valuation never reached a finite value", e.Key)
}

// Solve runs the Kleene fixpoint of I3 over nodes and returns the valuation
// of every key. nodes must already be closed (every Left/Right key present
// as a key of nodes); Solve does not check closure.
//
// Termination: each rule's valuation is a monotonically non-increasing
// element of ℕ ∪ {∞}, and there are finitely many rules, so the fixpoint
// is reached after a bounded number of passes.
func Solve(nodes map[string]Node) (map[string]Value, error) {
	val := make(map[string]Value, len(nodes))
	for key, nd := range nodes {
		switch nd.Kind {
		case Atom:
			val[key] = Finite(1)
		case Epsilon:
			val[key] = Finite(0)
		default:
			val[key] = Infinite
		}
	}

	for changed := true; changed; {
		changed = false
		for key, nd := range nodes {
			var next Value
			switch nd.Kind {
			case Atom, Epsilon:
				continue
			case Union:
				next = min(val[nd.Left], val[nd.Right])
			case Product, OrdProduct:
				next = add(val[nd.Left], val[nd.Right])
			case BoxProduct:
				next = add(maxOne(val[nd.Left]), val[nd.Right])
			default:
				panic(fmt.Sprintf("valuation: unhandled kind %v", nd.Kind))
			}
			if less(next, val[key]) {
				val[key] = next
				changed = true
			}
		}
	}

	var nonProductive []string
	for key, v := range val {
		if v.IsInfinite() {
			nonProductive = append(nonProductive, key)
		}
	}
	if len(nonProductive) > 0 {
		sort.Strings(nonProductive)
		return val, &NonProductiveError{Key: nonProductive[0]}
	}

	return val, nil
}
