package main

// #############################################################################

// BlindWorker computes G^(H(w)*secret) for one identifier.
func BlindWorker(a WorkerCtx, b interface{}) interface{} {
	ctx, ok := a.(ExpCtx)
	Assert(ok)
	w, ok := b.(BlindInput)
	Assert(ok)

	e := ctx.params.HashToExponent(string(w))
	e.Mul(e, ctx.secret.exponent())
	e.Mod(e, ctx.params.pSub1)
	return ExpOutput{ctx.params.ExpG(e)}
}

// ReExpWorker raises an already exponentiated value to the local secret.
func ReExpWorker(a WorkerCtx, b interface{}) interface{} {
	ctx, ok := a.(ExpCtx)
	Assert(ok)
	arg, ok := b.(ReExpInput)
	Assert(ok)

	return ExpOutput{ctx.params.Exp(arg.V, ctx.secret.exponent())}
}

// #############################################################################
