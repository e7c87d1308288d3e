package main

import (
	"github.com/schollz/progressbar/v3"
)

// #############################################################################

// ComputeBlinded returns G^(H(w)*secret) for every identifier, in input order.
func ComputeBlinded(gp *GroupParams, ids []string, secret *Secret, opts PoolOpts) BlindedSet {
	out := make(BlindedSet, len(ids))
	pool := NewWorkerPool(uint64(len(ids)), opts.bar(len(ids), "Blinding"))
	for i, w := range ids {
		pool.InChan <- WorkerInput{uint64(i), BlindInput(w)}
	}

	res := pool.Run(BlindWorker, ExpCtx{gp, secret}, opts.Workers)
	for i := 0; i < len(res); i++ {
		data, ok := res[i].data.(ExpOutput)
		Assert(ok)
		out[res[i].id] = BlindedValue{ids[res[i].id], data.V}
	}
	return out
}

// ReExponentiate raises every value of set to the secret, keeping each
// item's label and position.
func ReExponentiate(gp *GroupParams, set BlindedSet, secret *Secret, opts PoolOpts) BlindedSet {
	out := make(BlindedSet, len(set))
	pool := NewWorkerPool(uint64(len(set)), opts.bar(len(set), "Re-exponentiating"))
	for i, v := range set {
		pool.InChan <- WorkerInput{uint64(i), ReExpInput{v.Value}}
	}

	res := pool.Run(ReExpWorker, ExpCtx{gp, secret}, opts.Workers)
	for i := 0; i < len(res); i++ {
		data, ok := res[i].data.(ExpOutput)
		Assert(ok)
		out[res[i].id] = BlindedValue{set[res[i].id].ID, data.V}
	}
	return out
}

func (o PoolOpts) bar(sz int, name string) *progressbar.ProgressBar {
	if !o.Progress || sz == 0 {
		return nil
	}
	return NewProgressBar(sz, "cyan", name)
}

