package species

import (
	"context"
	"math/big"

	"github.com/dekarrin/species/internal/memo"
)

// Count returns |A_n|, the number of objects of class key that have size
// exactly n (spec §4.3). Every count is memoized in the grammar's
// MemoStore, keyed by (key, n); without memoization a recursive grammar
// such as permutations (P = 1 + Z ★ P) would recompute its own
// subproblems exponentially often.
func (g *Grammar[L, O]) Count(ctx context.Context, key string, n int) (*big.Int, error) {
	if err := g.requireReady(); err != nil {
		return nil, err
	}
	if _, err := g.rule(key); err != nil {
		return nil, err
	}
	if n < 0 {
		return big.NewInt(0), nil
	}
	return g.count(ctx, key, n)
}

func (g *Grammar[L, O]) count(ctx context.Context, key string, n int) (*big.Int, error) {
	if err := g.checkCancelled(ctx); err != nil {
		return nil, err
	}

	// I4: n below the rule's valuation can never hold an object, so prune
	// before touching the memo table or recursing into children.
	if n < g.valuations[key].Int() {
		return big.NewInt(0), nil
	}

	memoKey := memo.Key{Rule: key, N: n}
	if cached, ok, err := g.store.Get(ctx, memoKey); err != nil {
		return nil, err
	} else if ok {
		return cached, nil
	}

	r := g.rules[key]

	var result *big.Int
	var err error
	switch r.kind {
	case KindAtom:
		if n == 1 {
			result = big.NewInt(1)
		} else {
			result = big.NewInt(0)
		}
	case KindEpsilon:
		if n == 0 {
			result = big.NewInt(1)
		} else {
			result = big.NewInt(0)
		}
	case KindUnion:
		var a, b *big.Int
		if a, err = g.count(ctx, r.left, n); err == nil {
			if b, err = g.count(ctx, r.right, n); err == nil {
				result = new(big.Int).Add(a, b)
			}
		}
	case KindOrdProduct:
		result, err = g.convolve(ctx, r.left, r.right, n, 0, unitWeight)
	case KindProduct:
		result, err = g.convolve(ctx, r.left, r.right, n, 0, choiceWeight)
	case KindBoxProduct:
		result, err = g.convolveBoxed(ctx, r.left, r.right, n)
	}
	if err != nil {
		return nil, err
	}

	if err := g.store.Set(ctx, memoKey, result); err != nil {
		return nil, err
	}
	return result, nil
}

// weightFunc computes the w(n, k) factor of spec §4.5's prefix sums for a
// given split size k of a label set of total size n.
type weightFunc func(n, k int) *big.Int

func unitWeight(_, _ int) *big.Int { return big.NewInt(1) }
func choiceWeight(n, k int) *big.Int { return binomial(n, k) }

// convolve computes the OrdProduct/Product recurrence: a sum over
// admissible split sizes k of weight(n,k) * count(left,k) * count(right,n-k).
// floor raises the lower bound past v(left) when needed, e.g. BoxProduct's
// max(1, v(left)) (spec §9 design note (ii): NOT an undefined "val").
func (g *Grammar[L, O]) convolve(ctx context.Context, left, right string, n, floor int, weight weightFunc) (*big.Int, error) {
	vLeft := g.valuations[left].Int()
	lowK := vLeft
	if floor > lowK {
		lowK = floor
	}
	vRight := g.valuations[right].Int()
	hiK := n - vRight

	total := big.NewInt(0)
	for k := lowK; k <= hiK; k++ {
		if err := g.checkCancelled(ctx); err != nil {
			return nil, err
		}
		a, err := g.count(ctx, left, k)
		if err != nil {
			return nil, err
		}
		if a.Sign() == 0 {
			continue
		}
		b, err := g.count(ctx, right, n-k)
		if err != nil {
			return nil, err
		}
		if b.Sign() == 0 {
			continue
		}
		term := new(big.Int).Mul(a, b)
		term.Mul(term, weight(n, k))
		total.Add(total, term)
	}
	return total, nil
}

// convolveBoxed computes BoxProduct's recurrence, whose weight is
// C(n-1, k-1) rather than C(n, k).
func (g *Grammar[L, O]) convolveBoxed(ctx context.Context, left, right string, n int) (*big.Int, error) {
	return g.convolve(ctx, left, right, n, 1, func(n, k int) *big.Int {
		return binomial(n-1, k-1)
	})
}
