package species

import (
	"context"
	"math/big"
)

// List returns the complete, canonically ordered sequence of objects of
// class key built on exactly the labels given (spec §4.4). The result is
// empty if len(labels) is below the class's valuation.
func (g *Grammar[L, O]) List(ctx context.Context, key string, labels []L) ([]O, error) {
	if err := g.requireReady(); err != nil {
		return nil, err
	}
	if _, err := g.rule(key); err != nil {
		return nil, err
	}
	if err := g.checkLabels(labels); err != nil {
		return nil, err
	}
	return g.list(ctx, key, labels)
}

func (g *Grammar[L, O]) list(ctx context.Context, key string, labels []L) ([]O, error) {
	if err := g.checkCancelled(ctx); err != nil {
		return nil, err
	}

	n := len(labels)
	if n < g.valuations[key].Int() {
		return nil, nil
	}

	r := g.rules[key]
	switch r.kind {
	case KindAtom:
		if n == 1 {
			return []O{r.build(labels[0])}, nil
		}
		return nil, nil
	case KindEpsilon:
		if n == 0 {
			return []O{r.epsObj}, nil
		}
		return nil, nil
	case KindUnion:
		left, err := g.list(ctx, r.left, labels)
		if err != nil {
			return nil, err
		}
		right, err := g.list(ctx, r.right, labels)
		if err != nil {
			return nil, err
		}
		out := make([]O, 0, len(left)+len(right))
		out = append(out, left...)
		out = append(out, right...)
		return out, nil
	case KindOrdProduct, KindProduct, KindBoxProduct:
		return g.listProduct(ctx, r, labels)
	default:
		return nil, nil
	}
}

// listProduct walks every admissible split size k (lexicographically),
// every splitting at that size (lexicographically, by the variant's
// splitter), every left sub-object, then every right sub-object — the
// exact (k, splitting, left, right) order spec §4.4 declares canonical.
func (g *Grammar[L, O]) listProduct(ctx context.Context, r Rule[L, O], labels []L) ([]O, error) {
	n := len(labels)
	vLeft := g.valuations[r.left].Int()
	floor := 0
	if r.kind == KindBoxProduct {
		floor = 1
	}
	lowK := vLeft
	if floor > lowK {
		lowK = floor
	}
	hiK := n - g.valuations[r.right].Int()

	var minPos int
	if r.kind == KindBoxProduct && n > 0 {
		minPos = argMin(labels, r.less)
	}

	one := big.NewInt(1)
	var out []O
	for k := lowK; k <= hiK; k++ {
		if err := g.checkCancelled(ctx); err != nil {
			return nil, err
		}
		count := splitCount(r.kind, n, k)
		for s := big.NewInt(0); s.Cmp(count) < 0; s.Add(s, one) {
			leftIdx, rightIdx, err := splitAt(r.kind, n, k, s, minPos)
			if err != nil {
				return nil, err
			}
			leftLabels := selectLabels(labels, leftIdx)
			rightLabels := selectLabels(labels, rightIdx)

			leftObjs, err := g.list(ctx, r.left, leftLabels)
			if err != nil {
				return nil, err
			}
			rightObjs, err := g.list(ctx, r.right, rightLabels)
			if err != nil {
				return nil, err
			}
			for _, lo := range leftObjs {
				for _, ro := range rightObjs {
					out = append(out, r.combine(lo, ro))
				}
			}
		}
	}
	return out, nil
}
