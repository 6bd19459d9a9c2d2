package species

import (
	"fmt"
	"math/big"

	"github.com/dekarrin/species/internal/combinadics"
)

// A splitter divides the n index positions {0, ..., n-1} of a label list
// between a size-k left factor and a size-(n-k) right factor. List and
// Unrank share the exact same splitter so that the canonical order in
// spec §4.4 and the rank decomposition in spec §4.5 agree by
// construction (invariant I5) — this is the one place the three product
// variants differ.

// splitCount returns the number of splittings OrdProduct/Product/
// BoxProduct admit at split size k for a label list of size n.
func splitCount(kind Kind, n, k int) *big.Int {
	switch kind {
	case KindOrdProduct:
		return big.NewInt(1)
	case KindProduct:
		return combinadics.Binomial(n, k)
	case KindBoxProduct:
		return combinadics.Binomial(n-1, k-1)
	default:
		panic(fmt.Sprintf("species: splitCount called for non-product kind %v", kind))
	}
}

// splitAt returns the s-th splitting (0-based, in the canonical order of
// spec §4.4) of {0, ..., n-1} into a size-k left index set and its
// complement. minPos is the index of the minimum label in the full label
// list and is only consulted for BoxProduct.
//
// For BoxProduct, the minimum label is forced to lead the left factor
// (spec §4.4: "L[m] is forced to occupy position 0 of the left factor"):
// the returned left index list always has minPos first, followed by the
// chosen remainder in their original relative order, rather than the
// plain ascending-index order Product/OrdProduct use.
func splitAt(kind Kind, n, k int, s *big.Int, minPos int) (left, right []int, err error) {
	switch kind {
	case KindOrdProduct:
		if s.Sign() != 0 {
			return nil, nil, fmt.Errorf("species: OrdProduct has only one splitting, got index %s", s)
		}
		left = indexRange(0, k)
		right = indexRange(k, n)
		return left, right, nil

	case KindProduct:
		idx, err := combinadics.UnrankSubset(n, k, s)
		if err != nil {
			return nil, nil, err
		}
		return idx, complement(n, idx), nil

	case KindBoxProduct:
		if k < 1 {
			return nil, nil, fmt.Errorf("species: BoxProduct split size must be >= 1, got %d", k)
		}
		remaining := make([]int, 0, n-1)
		for i := 0; i < n; i++ {
			if i != minPos {
				remaining = append(remaining, i)
			}
		}
		chosenPos, err := combinadics.UnrankSubset(n-1, k-1, s)
		if err != nil {
			return nil, nil, err
		}
		left = make([]int, 0, k)
		left = append(left, minPos)
		chosenSet := make(map[int]bool, len(chosenPos))
		for _, p := range chosenPos {
			idx := remaining[p]
			left = append(left, idx)
			chosenSet[idx] = true
		}
		right = make([]int, 0, n-k)
		for _, idx := range remaining {
			if !chosenSet[idx] {
				right = append(right, idx)
			}
		}
		return left, right, nil

	default:
		return nil, nil, fmt.Errorf("species: splitAt called for non-product kind %v", kind)
	}
}

func indexRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}

func complement(n int, idx []int) []int {
	in := make(map[int]bool, len(idx))
	for _, i := range idx {
		in[i] = true
	}
	out := make([]int, 0, n-len(idx))
	for i := 0; i < n; i++ {
		if !in[i] {
			out = append(out, i)
		}
	}
	return out
}

// selectLabels returns the labels at the given index positions, in the
// order the positions are given (callers control whether that is
// ascending-by-original-index or the BoxProduct min-first order).
func selectLabels[L Label](labels []L, idx []int) []L {
	out := make([]L, len(idx))
	for i, p := range idx {
		out[i] = labels[p]
	}
	return out
}

// argMin returns the index of the minimum element of labels according to
// less. labels must be non-empty.
func argMin[L Label](labels []L, less func(L, L) bool) int {
	m := 0
	for i := 1; i < len(labels); i++ {
		if less(labels[i], labels[m]) {
			m = i
		}
	}
	return m
}
