package species

import "github.com/dekarrin/species/internal/valuation"

// Label is the constraint on the labels a grammar's objects are built
// from. Labels must support equality so the engine can detect duplicates;
// nothing else about a label matters to the engine itself (spec §3,
// Label). BoxProduct additionally needs a total order, but that is
// supplied per-rule as an ordinary comparator function rather than
// required of every Label, since the spec treats Obj/Label as otherwise
// opaque to the engine.
type Label interface {
	comparable
}

// Kind identifies which of the six grammar constructors a Rule is.
type Kind = valuation.Kind

const (
	KindAtom       = valuation.Atom
	KindEpsilon    = valuation.Epsilon
	KindUnion      = valuation.Union
	KindProduct    = valuation.Product
	KindOrdProduct = valuation.OrdProduct
	KindBoxProduct = valuation.BoxProduct
)

// Rule is one named rule of a grammar: a tagged variant over the six
// constructors of the symbolic method (spec §3). Rule values are
// produced by the Atom/Epsilon/Union/Product/OrdProduct/BoxProduct
// constructors below and are immutable once built; a Grammar caches each
// rule's valuation separately rather than mutating the Rule itself.
type Rule[L Label, O any] struct {
	kind Kind

	build  func(L) O // Atom
	epsObj O         // Epsilon

	left, right string // Union, Product, OrdProduct, BoxProduct

	combine func(O, O) O  // Product, OrdProduct, BoxProduct
	less    func(L, L) bool // BoxProduct only
}

// Atom constructs a singleton class of size 1: build maps the single
// label of an object of this class to the object itself.
func Atom[L Label, O any](build func(L) O) Rule[L, O] {
	return Rule[L, O]{kind: KindAtom, build: build}
}

// Epsilon constructs a singleton class of size 0 containing exactly obj.
func Epsilon[L Label, O any](obj O) Rule[L, O] {
	return Rule[L, O]{kind: KindEpsilon, epsObj: obj}
}

// Union constructs the disjoint union of the classes named left and
// right. In enumeration order, left's objects all precede right's.
func Union[L Label, O any](left, right string) Rule[L, O] {
	return Rule[L, O]{kind: KindUnion, left: left, right: right}
}

// Product constructs the labelled product left ★ right: every way of
// splitting the label set into a subset for left and the complementary
// subset for right, combined with combine.
func Product[L Label, O any](left, right string, combine func(O, O) O) Rule[L, O] {
	return Rule[L, O]{kind: KindProduct, left: left, right: right, combine: combine}
}

// OrdProduct constructs the ordered product left · right: the label list
// is split into a prefix for left and a suffix for right, with no
// shuffling.
func OrdProduct[L Label, O any](left, right string, combine func(O, O) O) Rule[L, O] {
	return Rule[L, O]{kind: KindOrdProduct, left: left, right: right, combine: combine}
}

// BoxProduct constructs the boxed product left □ right: like Product, but
// restricted to splittings where the minimum label (according to less)
// falls on the left side.
func BoxProduct[L Label, O any](left, right string, less func(L, L) bool, combine func(O, O) O) Rule[L, O] {
	return Rule[L, O]{kind: KindBoxProduct, left: left, right: right, combine: combine, less: less}
}

// Kind reports which constructor built r.
func (r Rule[L, O]) Kind() Kind { return r.kind }

// children returns the keys r refers to, for use by the closure validator
// and the structural shape it builds from a grammar's rules.
func (r Rule[L, O]) children() []string {
	switch r.kind {
	case KindAtom, KindEpsilon:
		return nil
	default:
		return []string{r.left, r.right}
	}
}
