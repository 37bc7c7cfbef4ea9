package material

import "math"

// interpolate performs piecewise-linear interpolation of y against a
// monotonically increasing x. Values outside [x[0], x[len-1]] clamp to
// the nearest endpoint's y.
func interpolate(x, y []float64, xv float64) float64 {
	if len(x) == 0 {
		return 0
	}
	idx := upperBound(x, xv)
	if idx == 0 {
		return y[0]
	}
	if idx == len(x) {
		return y[len(y)-1]
	}
	delta := x[idx] - x[idx-1]
	alpha := (xv - x[idx-1]) / delta
	if alpha > 1 {
		alpha = 1
	}
	return (1-alpha)*y[idx-1] + alpha*y[idx]
}

// logLogInterp interpolates linearly in (log x, log y) space, given
// precomputed logs of x and y. Falls back to the nearest endpoint's raw
// y value outside the table's range, matching interpolate's clamping.
func logLogInterp(x, logX, y, logY []float64, xv float64) float64 {
	if len(x) == 0 {
		return 0
	}
	if xv <= 0 {
		return y[0]
	}
	lx := math.Log(xv)
	idx := upperBoundF(logX, lx)
	if idx == 0 {
		return y[0]
	}
	if idx == len(logX) {
		return y[len(y)-1]
	}
	delta := logX[idx] - logX[idx-1]
	alpha := (lx - logX[idx-1]) / delta
	if alpha > 1 {
		alpha = 1
	}
	logVal := (1-alpha)*logY[idx-1] + alpha*logY[idx]
	return math.Exp(logVal)
}

func upperBound(x []float64, v float64) int {
	lo, hi := 0, len(x)
	for lo < hi {
		mid := (lo + hi) / 2
		if x[mid] <= v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func upperBoundF(x []float64, v float64) int {
	return upperBound(x, v)
}
