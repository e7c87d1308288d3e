package main

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(gp *GroupParams, set BlindedSet) []string {
	ret := make([]string, len(set))
	for i, v := range set {
		ret[i] = gp.Key(v.Value)
	}
	return ret
}

func sampleIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("P%d", i+1)
	}
	return ids
}

// #############################################################################

func TestBlindKnownVector(t *testing.T) {
	gp := NewGroupParams()
	a, b := secretFromInt(5), secretFromInt(7)

	h := gp.HashToExponent("P1")
	e := new(big.Int).Mul(h, big.NewInt(35))
	e.Mod(e, gp.pSub1)
	want := gp.Key(gp.ExpG(e))

	blindA := ComputeBlinded(gp, []string{"P1"}, a, PoolOpts{})
	blindB := ComputeBlinded(gp, []string{"P1"}, b, PoolOpts{})
	require.Len(t, blindA, 1)
	assert.Equal(t, "P1", blindA[0].ID)

	ab := ReExponentiate(gp, blindA, b, PoolOpts{})
	ba := ReExponentiate(gp, blindB, a, PoolOpts{})
	assert.Equal(t, want, gp.Key(ab[0].Value))
	assert.Equal(t, want, gp.Key(ba[0].Value))

	eA := new(big.Int).Mul(h, big.NewInt(5))
	eA.Mod(eA, gp.pSub1)
	assert.Equal(t, gp.Key(gp.ExpG(eA)), gp.Key(blindA[0].Value))
}

func TestCommutativity(t *testing.T) {
	gp := NewGroupParams()
	a, b := NewSecret(gp), NewSecret(gp)
	ids := sampleIDs(50)

	ab := ReExponentiate(gp, ComputeBlinded(gp, ids, a, PoolOpts{}), b, PoolOpts{})
	ba := ReExponentiate(gp, ComputeBlinded(gp, ids, b, PoolOpts{}), a, PoolOpts{})
	assert.Equal(t, keys(gp, ab), keys(gp, ba))

	// distinct identifiers stay distinct
	seen := make(map[string]bool)
	for _, k := range keys(gp, ab) {
		seen[k] = true
	}
	assert.Len(t, seen, len(ids))
}

func TestThreeSecretCommutativity(t *testing.T) {
	gp := NewGroupParams()
	a, b, r := NewSecret(gp), NewSecret(gp), NewSecret(gp)
	ids := sampleIDs(20)

	abr := ReExponentiate(gp, ReExponentiate(gp, ComputeBlinded(gp, ids, a, PoolOpts{}), b, PoolOpts{}), r, PoolOpts{})
	bra := ReExponentiate(gp, ReExponentiate(gp, ComputeBlinded(gp, ids, b, PoolOpts{}), r, PoolOpts{}), a, PoolOpts{})
	rab := ReExponentiate(gp, ReExponentiate(gp, ComputeBlinded(gp, ids, r, PoolOpts{}), a, PoolOpts{}), b, PoolOpts{})

	assert.Equal(t, keys(gp, abr), keys(gp, bra))
	assert.Equal(t, keys(gp, abr), keys(gp, rab))
}

func TestBlindKeepsOrder(t *testing.T) {
	gp := NewGroupParams()
	s := NewSecret(gp)
	ids := sampleIDs(200)

	serial := ComputeBlinded(gp, ids, s, PoolOpts{Workers: 1})
	parallel := ComputeBlinded(gp, ids, s, PoolOpts{Workers: 8})
	for i := range ids {
		assert.Equal(t, ids[i], serial[i].ID)
		assert.Equal(t, ids[i], parallel[i].ID)
	}
	assert.Equal(t, keys(gp, serial), keys(gp, parallel))

	re := ReExponentiate(gp, parallel, s, PoolOpts{Workers: 3})
	for i := range ids {
		assert.Equal(t, ids[i], re[i].ID)
	}
}

func TestBlindEmpty(t *testing.T) {
	gp := NewGroupParams()
	s := NewSecret(gp)
	assert.Empty(t, ComputeBlinded(gp, nil, s, PoolOpts{Progress: true}))
	assert.Empty(t, ReExponentiate(gp, BlindedSet{}, s, PoolOpts{}))
}

// #############################################################################

func BenchmarkComputeBlinded(b *testing.B) {
	gp := NewGroupParams()
	s := NewSecret(gp)
	ids := sampleIDs(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeBlinded(gp, ids, s, PoolOpts{})
	}
}
