package species

import (
	"context"
	"math/big"
	"math/rand"
	"time"
)

// Sample draws one object of class key built on labels uniformly at
// random (spec §4.6), by drawing a uniform rank in [0, Count) and
// delegating to Unrank — the same trick internal/game/npc.go uses
// (rand.Intn over a small range) generalised to big.Int-sized classes.
// A nil rng gets a freshly seeded one; callers that need determinism
// should pass their own.
func (g *Grammar[L, O]) Sample(ctx context.Context, key string, labels []L, rng *rand.Rand) (O, error) {
	var zero O
	if err := g.requireReady(); err != nil {
		return zero, err
	}
	if _, err := g.rule(key); err != nil {
		return zero, err
	}
	if err := g.checkLabels(labels); err != nil {
		return zero, err
	}

	n := len(labels)
	cnt, err := g.count(ctx, key, n)
	if err != nil {
		return zero, err
	}
	if cnt.Sign() == 0 {
		return zero, &EmptyClassError{Handle: g.id, Key: key, N: n}
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	i := new(big.Int).Rand(rng, cnt)
	return g.unrank(ctx, key, labels, i)
}
