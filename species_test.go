package species_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/dekarrin/species"
	"github.com/dekarrin/species/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// permObj and treeObj are the stand-ins for the "opaque Obj" the engine
// never inspects: a label sequence for permutations/sequences, and a
// parenthesised string for trees. Only the test's own assertions look
// inside them; species itself only ever calls build/combine.
type permObj = []int

func cons(h permObj, t permObj) permObj {
	out := make(permObj, 0, len(h)+len(t))
	out = append(out, h...)
	out = append(out, t...)
	return out
}

// Test_EmptyWord is spec §8 scenario 1.
func Test_EmptyWord(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	g := species.New[string, string](map[string]species.Rule[string, string]{
		"E": species.Epsilon[string, string](""),
	})
	require.NoError(t, g.Init())

	sc := fixtures.MustScenario("empty_word")
	for n, want := range sc.Counts {
		got, err := g.Count(ctx, "E", n)
		require.NoError(t, err)
		assert.Equal(int64(want), got.Int64(), "count(E,%d)", n)
	}

	list0, err := g.List(ctx, "E", nil)
	require.NoError(t, err)
	assert.Equal([]string{""}, list0)

	list1, err := g.List(ctx, "E", []string{"a"})
	require.NoError(t, err)
	assert.Empty(list1)
}

// Test_Permutations is spec §8 scenario 2: P = 1 + Z*P.
func Test_Permutations(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	g := species.New[int, permObj](map[string]species.Rule[int, permObj]{
		"P":  species.Union[int, permObj]("E", "ZP"),
		"E":  species.Epsilon[int, permObj](permObj{}),
		"Z":  species.Atom(func(l int) permObj { return permObj{l} }),
		"ZP": species.Product("Z", "P", cons),
	})
	require.NoError(g.Init())

	sc := fixtures.MustScenario("permutations")
	for n, want := range sc.Counts {
		got, err := g.Count(ctx, "P", n)
		require.NoError(err)
		assert.Equal(int64(want), got.Int64(), "count(P,%d)", n)
	}

	list, err := g.List(ctx, "P", []int{1, 2, 3})
	require.NoError(err)
	assert.Equal([]permObj{
		{1, 2, 3}, {1, 3, 2},
		{2, 1, 3}, {2, 3, 1},
		{3, 1, 2}, {3, 2, 1},
	}, list)

	// Invariant I5: list(R,L)[i] == unrank(R,L,i) for every valid rank.
	for i, want := range list {
		got, err := g.Unrank(ctx, "P", []int{1, 2, 3}, big.NewInt(int64(i)))
		require.NoError(err)
		assert.Equal(want, got, "unrank(P,[1 2 3],%d)", i)
	}
}

// Test_SortedSequences is spec §8 scenario 3: S = 1 + Z.S.
func Test_SortedSequences(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	g := species.New[int, permObj](map[string]species.Rule[int, permObj]{
		"S":  species.Union[int, permObj]("E", "ZS"),
		"E":  species.Epsilon[int, permObj](permObj{}),
		"Z":  species.Atom(func(l int) permObj { return permObj{l} }),
		"ZS": species.OrdProduct("Z", "S", cons),
	})
	require.NoError(g.Init())

	sc := fixtures.MustScenario("sorted_sequences")
	for n, want := range sc.Counts {
		got, err := g.Count(ctx, "S", n)
		require.NoError(err)
		assert.Equal(int64(want), got.Int64(), "count(S,%d)", n)
	}

	list, err := g.List(ctx, "S", []int{3, 1, 2})
	require.NoError(err)
	assert.Equal([]permObj{{3, 1, 2}}, list)
}

// Test_BoxedSortedSequences is spec §8 scenario 4: B = S box S.
func Test_BoxedSortedSequences(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	type pair struct{ left, right permObj }

	g := species.New[int, pair](map[string]species.Rule[int, pair]{
		"S":  species.Union[int, pair]("E", "ZS"),
		"E":  species.Epsilon[int, pair](pair{}),
		"Z":  species.Atom(func(l int) pair { return pair{left: permObj{l}} }),
		"ZS": species.OrdProduct("Z", "S", func(a, b pair) pair { return pair{left: cons(a.left, b.left)} }),
		"B":  species.BoxProduct("S", "S", func(a, b int) bool { return a < b }, func(a, b pair) pair { return pair{left: a.left, right: b.left} }),
	})
	require.NoError(g.Init())

	sc := fixtures.MustScenario("boxed_sorted_sequences")
	for n, want := range sc.Counts {
		got, err := g.Count(ctx, "B", n)
		require.NoError(err)
		assert.Equal(int64(want), got.Int64(), "count(B,%d)", n)
	}

	list, err := g.List(ctx, "B", []int{1, 2, 3})
	require.NoError(err)
	want := []pair{
		{left: permObj{1}, right: permObj{2, 3}},
		{left: permObj{1, 2}, right: permObj{3}},
		{left: permObj{1, 3}, right: permObj{2}},
		{left: permObj{1, 2, 3}, right: nil},
	}
	assert.Equal(want, list)

	for i, w := range list {
		got, err := g.Unrank(ctx, "B", []int{1, 2, 3}, big.NewInt(int64(i)))
		require.NoError(err)
		assert.Equal(w, got, "unrank(B,[1 2 3],%d)", i)
	}
}

// Test_LabelledBinaryTrees is spec §8 scenario 5: T = T*T + Z, labels on
// leaves.
func Test_LabelledBinaryTrees(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	type tree struct {
		leaf        int
		left, right *tree
	}
	g := species.New[int, *tree](map[string]species.Rule[int, *tree]{
		"T":  species.Union[int, *tree]("TT", "Z"),
		"TT": species.Product("T", "T", func(l, r *tree) *tree { return &tree{left: l, right: r} }),
		"Z":  species.Atom(func(l int) *tree { return &tree{leaf: l} }),
	})
	require.NoError(g.Init())

	sc := fixtures.MustScenario("labelled_binary_trees")
	for n, want := range sc.Counts {
		got, err := g.Count(ctx, "T", n)
		require.NoError(err)
		assert.Equal(int64(want), got.Int64(), "count(T,%d)", n)
	}
}

// Test_IncreasingBinaryTrees is spec §8 scenario 6: T = Z.(T*T) + 1.
func Test_IncreasingBinaryTrees(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	type tree struct {
		root        int
		left, right *tree
		isLeaf      bool
	}
	// Z builds a root-only *tree; ZTT grafts TT's pair of children onto
	// it, so every node in the grammar shares the *tree Obj type (a Rule's
	// combine/build must agree on one O per grammar, so "Z's label" and
	// "the finished tree rooted at that label" are the same Go value with
	// left/right filled in after the fact).
	g := species.New[int, *tree](map[string]species.Rule[int, *tree]{
		"T":   species.Union[int, *tree]("ZTT", "E"),
		"E":   species.Epsilon[int, *tree](&tree{isLeaf: true}),
		"Z":   species.Atom(func(l int) *tree { return &tree{root: l} }),
		"TT":  species.Product("T", "T", func(l, r *tree) *tree { return &tree{left: l, right: r} }),
		"ZTT": species.OrdProduct("Z", "TT", func(z, kids *tree) *tree { return &tree{root: z.root, left: kids.left, right: kids.right} }),
	})
	require.NoError(g.Init())

	sc := fixtures.MustScenario("increasing_binary_trees")
	for n, want := range sc.Counts {
		got, err := g.Count(ctx, "T", n)
		require.NoError(err)
		assert.Equal(int64(want), got.Int64(), "count(T,%d)", n)
	}
}

// Test_SetPartitions is spec §8 scenario 7: Bell numbers via nested
// box-products. A set partition of n labels is an unordered family of
// non-empty blocks; it is built here the standard species way: a
// partition is either empty (E) or a block containing the overall
// minimum label boxed against a partition of whatever labels remain
// (BU). BoxProduct forcing the minimum label into Block on every
// recursive call is exactly what keeps each partition counted once
// instead of once per ordering of its blocks — the same min-label
// canonicalisation the boxed_sorted_sequences scenario exercises, one
// level up. Block itself has exactly one object per non-empty label
// list (the list itself, via the same Union+OrdProduct recursion as
// scenario 3's sorted sequences, just without the size-0 branch), so
// count(Block, k) contributes exactly 1 to the BoxProduct convolution
// and the whole recurrence collapses to the standard
// Bell(n) = sum_{k=1}^{n} C(n-1,k-1) * Bell(n-k).
//
// Block and the partition rules share one Obj type (elem) since a
// single grammar's rules all combine into the same O; which field is
// populated tags whether a given elem represents one block or a whole
// partition.
func Test_SetPartitions(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	type elem struct {
		block  []int
		blocks [][]int
	}
	less := func(a, b int) bool { return a < b }

	g := species.New[int, elem](map[string]species.Rule[int, elem]{
		"U": species.Union[int, elem]("E", "BU"),
		"E": species.Epsilon[int, elem](elem{blocks: [][]int{}}),
		"BU": species.BoxProduct("Block", "U", less, func(blk, rest elem) elem {
			return elem{blocks: append([][]int{blk.block}, rest.blocks...)}
		}),

		"Block": species.Union[int, elem]("Z", "ZBlock"),
		"Z":     species.Atom(func(l int) elem { return elem{block: []int{l}} }),
		"ZBlock": species.OrdProduct("Z", "Block", func(head, tail elem) elem {
			return elem{block: append(append([]int{}, head.block...), tail.block...)}
		}),
	})
	require.NoError(g.Init())

	sc := fixtures.MustScenario("set_partitions")
	for n, want := range sc.Counts {
		got, err := g.Count(ctx, "U", n)
		require.NoError(err)
		assert.Equal(int64(want), got.Int64(), "count(U,%d)", n)
	}
}

func Test_Grammar_MalformedGrammar(t *testing.T) {
	g := species.New[int, int](map[string]species.Rule[int, int]{
		"A": species.Union[int, int]("Z", "missing"),
		"Z": species.Atom(func(l int) int { return l }),
	})
	err := g.Init()
	require.Error(t, err)
	var mge *species.MalformedGrammarError
	require.ErrorAs(t, err, &mge)
	assert.ErrorIs(t, err, species.ErrMalformedGrammar)
}

func Test_Grammar_NonProductiveRule(t *testing.T) {
	g := species.New[int, int](map[string]species.Rule[int, int]{
		"A": species.Union[int, int]("A", "A"),
	})
	err := g.Init()
	require.Error(t, err)
	var npe *species.NonProductiveRuleError
	require.ErrorAs(t, err, &npe)
}

func Test_Grammar_NotInitialised(t *testing.T) {
	ctx := context.Background()
	g := species.New[int, int](map[string]species.Rule[int, int]{
		"Z": species.Atom(func(l int) int { return l }),
	})
	_, err := g.Count(ctx, "Z", 1)
	require.Error(t, err)
	var gne *species.GrammarNotInitialisedError
	require.ErrorAs(t, err, &gne)
}

func Test_Grammar_DuplicateLabel(t *testing.T) {
	ctx := context.Background()
	g := species.New[int, int](map[string]species.Rule[int, int]{
		"Z": species.Atom(func(l int) int { return l }),
	})
	require.NoError(t, g.Init())

	_, err := g.List(ctx, "Z", []int{1, 1})
	require.Error(t, err)
	var dle *species.DuplicateLabelError
	require.ErrorAs(t, err, &dle)
}

func Test_Grammar_RankOutOfRange(t *testing.T) {
	ctx := context.Background()
	g := species.New[int, int](map[string]species.Rule[int, int]{
		"Z": species.Atom(func(l int) int { return l }),
	})
	require.NoError(t, g.Init())

	_, err := g.Unrank(ctx, "Z", []int{1}, big.NewInt(5))
	require.Error(t, err)
	var roe *species.RankOutOfRangeError
	require.ErrorAs(t, err, &roe)
}

func Test_Grammar_EmptyClassSample(t *testing.T) {
	ctx := context.Background()
	g := species.New[int, int](map[string]species.Rule[int, int]{
		"Z": species.Atom(func(l int) int { return l }),
	})
	require.NoError(t, g.Init())

	_, err := g.Sample(ctx, "Z", nil, nil)
	require.Error(t, err)
	var ece *species.EmptyClassError
	require.ErrorAs(t, err, &ece)
}

func Test_Grammar_Sample_Uniform(t *testing.T) {
	// Spec §8 P7: sample over many draws should hit every object of a
	// small class, never one outside it.
	ctx := context.Background()
	g := species.New[int, permObj](map[string]species.Rule[int, permObj]{
		"P":  species.Union[int, permObj]("E", "ZP"),
		"E":  species.Epsilon[int, permObj](permObj{}),
		"Z":  species.Atom(func(l int) permObj { return permObj{l} }),
		"ZP": species.Product("Z", "P", cons),
	})
	require.NoError(t, g.Init())

	labels := []int{1, 2, 3}
	want, err := g.List(ctx, "P", labels)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		obj, err := g.Sample(ctx, "P", labels, nil)
		require.NoError(t, err)
		found := false
		for _, w := range want {
			if equalPerm(w, obj) {
				found = true
				break
			}
		}
		assert.True(t, found, "sampled object %v not in canonical list", obj)
		seen[formatPerm(obj)] = true
	}
	assert.Len(t, seen, len(want), "500 draws should have covered all %d permutations", len(want))
}

func equalPerm(a, b permObj) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatPerm(p permObj) string {
	s := ""
	for _, v := range p {
		s += string(rune('0' + v))
	}
	return s
}
