package main

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func valueSet(gp *GroupParams, pairs ...interface{}) BlindedSet {
	var set BlindedSet
	for i := 0; i < len(pairs); i += 2 {
		set = append(set, BlindedValue{pairs[i].(string), gp.ExpG(big.NewInt(int64(pairs[i+1].(int))))})
	}
	return set
}

// #############################################################################

func TestIntersectOverlap(t *testing.T) {
	gp := NewGroupParams()
	own := valueSet(gp, "A", 1, "B", 2, "C", 3, "D", 4)
	peer := valueSet(gp, "h0", 4, "h1", 9, "h2", 2)

	assert.Equal(t, []string{"B", "D"}, Intersect(gp, own, peer))
}

func TestIntersectDisjoint(t *testing.T) {
	gp := NewGroupParams()
	own := valueSet(gp, "A", 1, "B", 2)
	peer := valueSet(gp, "x", 3, "y", 4)

	res := Intersect(gp, own, peer)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	assert.Empty(t, Intersect(gp, nil, peer))
	assert.Empty(t, Intersect(gp, own, nil))
}

func TestIntersectFirstIndexedWins(t *testing.T) {
	gp := NewGroupParams()
	own := valueSet(gp, "first", 5, "second", 5, "other", 6)
	peer := valueSet(gp, "x", 5, "y", 5)

	assert.Equal(t, []string{"first"}, Intersect(gp, own, peer))
}

func TestIntersectFollowsIndexedOrder(t *testing.T) {
	gp := NewGroupParams()
	own := valueSet(gp, "Z", 30, "M", 20, "A", 10)
	peer := valueSet(gp, "x", 10, "y", 20, "z", 30, "w", 10)

	assert.Equal(t, []string{"Z", "M", "A"}, Intersect(gp, own, peer))
}

func TestIntersectProtocolSets(t *testing.T) {
	gp := NewGroupParams()
	a, b := NewSecret(gp), NewSecret(gp)
	idsA := []string{"P1", "P2", "P3", "P4"}
	idsB := []string{"P9", "P3", "P1", "P7", "P8"}

	ownFinal := ReExponentiate(gp, ComputeBlinded(gp, idsA, a, PoolOpts{}), b, PoolOpts{})
	peerFinal := ReExponentiate(gp, ComputeBlinded(gp, idsB, b, PoolOpts{}), a, PoolOpts{})

	assert.Equal(t, []string{"P1", "P3"}, Intersect(gp, ownFinal, peerFinal))
}

// #############################################################################

func TestMean(t *testing.T) {
	assert.Nil(t, Mean(nil))
	assert.Nil(t, Mean([]float64{}))

	m := Mean([]float64{40})
	if assert.NotNil(t, m) {
		assert.Equal(t, 40.0, *m)
	}

	m = Mean([]float64{30, 40, 50, 61})
	if assert.NotNil(t, m) {
		assert.InDelta(t, 45.25, *m, 1e-9)
	}
}
