package main

// Mean is the arithmetic mean of xs. An empty input yields nil, which
// serializes as JSON null, rather than NaN.
func Mean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	m := sum / float64(len(xs))
	return &m
}
