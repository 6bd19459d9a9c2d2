// Package combinadics provides exact arbitrary-precision binomial
// coefficients and direct combinadic indexing of k-subsets, so that a
// single splitting of a label set can be recovered by its rank without
// materializing every splitting that precedes it. This is the same
// index-walking idea the compiler-compiler lineage of this codebase uses
// to walk dot positions of a production one at a time instead of building
// the whole item set up front; here it is generalized from "one dot
// position" to "one k-element subset of index positions, in increasing
// lexicographic order."
package combinadics

import (
	"fmt"
	"math/big"
)

var factorialCache = []*big.Int{big.NewInt(1)}

// Factorial returns n! as an exact big integer. n must be non-negative.
func Factorial(n int) *big.Int {
	if n < 0 {
		panic("combinadics: Factorial of negative n")
	}
	for len(factorialCache) <= n {
		next := new(big.Int).Mul(factorialCache[len(factorialCache)-1], big.NewInt(int64(len(factorialCache))))
		factorialCache = append(factorialCache, next)
	}
	return new(big.Int).Set(factorialCache[n])
}

// Binomial returns C(n, k), the exact number of k-element subsets of an
// n-element set. It is 0 whenever k < 0, n < 0, or k > n — this is what
// lets the counter's convolution sums treat an empty range as contributing
// nothing without a separate bounds check at every call site.
func Binomial(n, k int) *big.Int {
	if n < 0 || k < 0 || k > n {
		return big.NewInt(0)
	}
	if k > n-k {
		k = n - k
	}
	result := big.NewInt(1)
	for i := 0; i < k; i++ {
		result.Mul(result, big.NewInt(int64(n-i)))
		result.Div(result, big.NewInt(int64(i+1)))
	}
	return result
}

// UnrankSubset returns the idx-th (0-based) k-element subset of
// {0, 1, ..., n-1}, where subsets are ordered by comparing their elements
// in increasing order position-by-position (the order produced by walking
// nested loops i0 < i1 < ... < i(k-1), i.e. the same order as Python's
// itertools.combinations). The result is sorted ascending and has length
// k. It is an error for idx to be outside [0, C(n,k)).
func UnrankSubset(n, k int, idx *big.Int) ([]int, error) {
	if k < 0 || n < 0 {
		return nil, fmt.Errorf("combinadics: invalid n=%d, k=%d", n, k)
	}
	total := Binomial(n, k)
	if idx.Sign() < 0 || idx.Cmp(total) >= 0 {
		return nil, fmt.Errorf("combinadics: index %s out of range [0, %s)", idx, total)
	}
	if k == 0 {
		return []int{}, nil
	}

	remaining := new(big.Int).Set(idx)
	result := make([]int, 0, k)
	lo := 0
	needed := k

	for needed > 0 {
		// Try successive candidate values for this position; skip over
		// every candidate whose block of completions is smaller than what
		// remains of the rank.
		for v := lo; ; v++ {
			block := Binomial(n-1-v, needed-1)
			if remaining.Cmp(block) < 0 {
				result = append(result, v)
				lo = v + 1
				needed--
				break
			}
			remaining.Sub(remaining, block)
		}
	}

	return result, nil
}

// RankSubset is the inverse of UnrankSubset: given a sorted, strictly
// increasing subset of {0, ..., n-1}, it returns that subset's 0-based
// rank in the same canonical order. It exists mainly to keep UnrankSubset
// honest in tests.
func RankSubset(n int, subset []int) *big.Int {
	rank := big.NewInt(0)
	k := len(subset)
	lo := 0
	for i, v := range subset {
		for x := lo; x < v; x++ {
			rank.Add(rank, Binomial(n-1-x, k-i-1))
		}
		lo = v + 1
	}
	return rank
}
