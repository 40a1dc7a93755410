package dsm

func quantize(v float64) float64 {
	if v > 0 {
		return 1
	}

	return -1
}

// FirstOrder modulates x and returns the integrator state u and the
// quantized output y. u[0] and y[0] are zero.
func FirstOrder(x []float64, gain float64) (u, y []float64) {
	u = make([]float64, len(x))
	y = make([]float64, len(x))

	for n := 1; n < len(x); n++ {
		u[n] = gain*(x[n]-y[n-1]) + u[n-1]
		y[n] = quantize(u[n])
	}

	return u, y
}

// SecondOrder modulates x and returns both integrator states u and v and
// the quantized output y.
func SecondOrder(x []float64, gain float64) (u, v, y []float64) {
	u = make([]float64, len(x))
	v = make([]float64, len(x))
	y = make([]float64, len(x))

	for n := 1; n < len(x); n++ {
		u[n] = gain*(x[n]-y[n-1]) + u[n-1]
		v[n] = gain*(u[n]-y[n-1]) + v[n-1]
		y[n] = quantize(v[n])
	}

	return u, v, y
}

// Mash11 modulates x with a 1-1 multi-stage noise shaping cascade and
// returns the quantization error e fed to the second stage and the
// reconstructed output y.
func Mash11(x []float64, gain float64) (e, y []float64) {
	u1, y1 := FirstOrder(x, gain)
	e = quantizationError(u1, y1)
	_, y2 := FirstOrder(e, gain)

	y = make([]float64, len(x))
	d := difference(y2)

	for n := 1; n < len(x); n++ {
		y[n] = y1[n] - d[n]
	}

	return e, y
}

// Mash21 modulates x with a 2-1 multi-stage noise shaping cascade. The
// error tap is taken from the first integrator of the second-order stage.
func Mash21(x []float64, gain float64) (e, y []float64) {
	u1, _, y1 := SecondOrder(x, gain)
	e = quantizationError(u1, y1)
	_, y2 := FirstOrder(e, gain)

	y = make([]float64, len(x))
	dd := difference(difference(y2))

	for n := 1; n < len(x); n++ {
		y[n] = y1[n] - dd[n]
	}

	return e, y
}

// quantizationError returns e[n] = y[n-1] - u[n] with e[0] = 0.
func quantizationError(u, y []float64) []float64 {
	e := make([]float64, len(u))
	for n := 1; n < len(u); n++ {
		e[n] = y[n-1] - u[n]
	}

	return e
}

// difference returns d[n] = x[n] - x[n-1] with d[0] = 0.
func difference(x []float64) []float64 {
	d := make([]float64, len(x))
	for n := 1; n < len(x); n++ {
		d[n] = x[n] - x[n-1]
	}

	return d
}
