package species

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/dekarrin/rosed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Explain renders a human-readable report of every rule's kind, children,
// and resolved valuation, in the tabular style the grammar/LL1Table and
// debug.go reports in this codebase's lineage use. It is a diagnostic aid
// only: nothing in Count, List, Unrank, or Sample consults it, and its
// exact formatting is not part of the engine's contract.
func (g *Grammar[L, O]) Explain() string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.rules))
	for k := range g.rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := [][]string{{"rule", "kind", "children", "valuation"}}
	for _, k := range keys {
		r := g.rules[k]
		val := "?"
		if g.state == Ready {
			if v, ok := g.valuations[k]; ok {
				if v.IsInfinite() {
					val = "∞"
				} else {
					val = fmt.Sprintf("%d", v.Int())
				}
			}
		}
		data = append(data, []string{k, kindName(r.kind), childrenString(r), val})
	}

	return rosed.Edit(fmt.Sprintf("grammar %s (%s)\n", g.id, g.state)).
		InsertTableOpts(1, data, 100, rosed.Options{
			TableBorders: true,
		}).
		String()
}

func kindName(k Kind) string {
	switch k {
	case KindAtom:
		return "atom"
	case KindEpsilon:
		return "epsilon"
	case KindUnion:
		return "union"
	case KindProduct:
		return "product"
	case KindOrdProduct:
		return "ordproduct"
	case KindBoxProduct:
		return "boxproduct"
	default:
		return "unknown"
	}
}

func childrenString[L Label, O any](r Rule[L, O]) string {
	c := r.children()
	if len(c) == 0 {
		return "-"
	}
	return fmt.Sprintf("%s, %s", c[0], c[1])
}

// FormatCount renders n the way a report meant for a human reads best:
// grouped by thousands, e.g. 1,307,674,368,000 rather than a bare digit
// run. big.Int values routinely run to dozens of digits even for small
// grammars (20! alone is 19 digits), so this is more than cosmetic.
func FormatCount(n *big.Int) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", number.Decimal(n))
}
