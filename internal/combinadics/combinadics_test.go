package combinadics

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Binomial(t *testing.T) {
	testCases := []struct {
		name   string
		n, k   int
		expect int64
	}{
		{name: "n=4 k=2", n: 4, k: 2, expect: 6},
		{name: "n=5 k=0", n: 5, k: 0, expect: 1},
		{name: "n=5 k=5", n: 5, k: 5, expect: 1},
		{name: "k negative", n: 5, k: -1, expect: 0},
		{name: "k greater than n", n: 3, k: 4, expect: 0},
		{name: "n negative", n: -1, k: 0, expect: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Binomial(tc.n, tc.k)

			assert.Equal(big.NewInt(tc.expect).String(), actual.String())
		})
	}
}

func Test_Factorial(t *testing.T) {
	testCases := []struct {
		name   string
		n      int
		expect int64
	}{
		{name: "0!", n: 0, expect: 1},
		{name: "1!", n: 1, expect: 1},
		{name: "5!", n: 5, expect: 120},
		{name: "10!", n: 10, expect: 3628800},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Factorial(tc.n)

			assert.Equal(big.NewInt(tc.expect).String(), actual.String())
		})
	}
}

// Test_UnrankSubset_LexOrder pins down the exact order spec.md requires:
// increasing-index k-subsets of {0,...,n-1} in lexicographic order of
// their elements, e.g. for n=4, k=2: (0,1),(0,2),(0,3),(1,2),(1,3),(2,3).
func Test_UnrankSubset_LexOrder(t *testing.T) {
	assert := assert.New(t)

	expect := [][]int{
		{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
	}

	for idx, want := range expect {
		actual, err := UnrankSubset(4, 2, big.NewInt(int64(idx)))
		if assert.NoError(err, "idx=%d", idx) {
			assert.Equal(want, actual, "idx=%d", idx)
		}
	}
}

func Test_UnrankSubset_OutOfRange(t *testing.T) {
	assert := assert.New(t)

	_, err := UnrankSubset(4, 2, big.NewInt(6))
	assert.Error(err)

	_, err = UnrankSubset(4, 2, big.NewInt(-1))
	assert.Error(err)
}

func Test_UnrankSubset_EmptySubset(t *testing.T) {
	assert := assert.New(t)

	actual, err := UnrankSubset(5, 0, big.NewInt(0))
	if assert.NoError(err) {
		assert.Equal([]int{}, actual)
	}
}

// Test_RankSubset_RoundTrip checks RankSubset is the exact inverse of
// UnrankSubset over every k-subset of a small n.
func Test_RankSubset_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	const n = 6
	for k := 0; k <= n; k++ {
		total := Binomial(n, k)
		for idx := big.NewInt(0); idx.Cmp(total) < 0; idx.Add(idx, big.NewInt(1)) {
			subset, err := UnrankSubset(n, k, idx)
			if !assert.NoError(err, "n=%d k=%d idx=%s", n, k, idx) {
				continue
			}
			rank := RankSubset(n, subset)
			assert.Equal(idx.String(), rank.String(), "n=%d k=%d subset=%v", n, k, subset)
		}
	}
}
