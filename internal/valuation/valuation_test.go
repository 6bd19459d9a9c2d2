package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Solve(t *testing.T) {
	testCases := []struct {
		name   string
		nodes  map[string]Node
		expect map[string]int
	}{
		{
			name: "epsilon only",
			nodes: map[string]Node{
				"E": {Kind: Epsilon},
			},
			expect: map[string]int{"E": 0},
		},
		{
			name: "permutations P = 1 + Z*P",
			nodes: map[string]Node{
				"P": {Kind: Union, Left: "E", Right: "ZP"},
				"E": {Kind: Epsilon},
				"Z": {Kind: Atom},
				"ZP": {Kind: Product, Left: "Z", Right: "P"},
			},
			expect: map[string]int{"P": 0, "E": 0, "Z": 1, "ZP": 1},
		},
		{
			name: "sorted sequences S = 1 + Z.S",
			nodes: map[string]Node{
				"S":  {Kind: Union, Left: "E", Right: "ZS"},
				"E":  {Kind: Epsilon},
				"Z":  {Kind: Atom},
				"ZS": {Kind: OrdProduct, Left: "Z", Right: "S"},
			},
			expect: map[string]int{"S": 0, "E": 0, "Z": 1, "ZS": 1},
		},
		{
			name: "boxed product forces floor of 1",
			nodes: map[string]Node{
				"E": {Kind: Epsilon},
				"B": {Kind: BoxProduct, Left: "E", Right: "E"},
			},
			expect: map[string]int{"E": 0, "B": 1},
		},
		{
			name: "labelled binary trees T = T*T + Z",
			nodes: map[string]Node{
				"T":  {Kind: Union, Left: "TT", Right: "Z"},
				"TT": {Kind: Product, Left: "T", Right: "T"},
				"Z":  {Kind: Atom},
			},
			expect: map[string]int{"T": 1, "TT": 2, "Z": 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Solve(tc.nodes)
			if !assert.NoError(err) {
				return
			}

			for key, want := range tc.expect {
				if assert.Contains(actual, key) {
					assert.Equal(want, actual[key].Int(), "key=%s", key)
				}
			}
		})
	}
}

func Test_Solve_NonProductive(t *testing.T) {
	assert := assert.New(t)

	nodes := map[string]Node{
		"A": {Kind: Union, Left: "A", Right: "A"},
	}

	_, err := Solve(nodes)
	assert.Error(err)

	var npe *NonProductiveError
	assert.ErrorAs(err, &npe)
	assert.Equal("A", npe.Key)
}
