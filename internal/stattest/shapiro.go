package stattest

import (
	"math"
	"sort"

	"edakit/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// ShapiroResult is the outcome of a Shapiro-Wilk test
type ShapiroResult struct {
	W      float64
	PValue float64
	N      int
}

// Polynomial coefficients of Royston's (1995) approximation, algorithm AS R94.
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

const (
	swSmall      = 1e-19
	swMinPValue  = 1e-99
	swMinSamples = 3
)

// ShapiroWilk tests the null hypothesis that x was drawn from a normal
// distribution. x must hold at least three values and no NaN. A sample with
// zero range yields W = 1 and p = 1.
func ShapiroWilk(x []float64) (ShapiroResult, error) {
	n := len(x)
	if n < swMinSamples {
		return ShapiroResult{}, core.NewDegenerateInputError("shapiro-wilk needs at least %d values, got %d", swMinSamples, n)
	}
	for _, v := range x {
		if math.IsNaN(v) {
			return ShapiroResult{}, core.NewInvalidOperationError("shapiro-wilk input contains missing values")
		}
	}

	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	rng := sorted[n-1] - sorted[0]
	if rng < swSmall {
		return ShapiroResult{W: 1, PValue: 1, N: n}, nil
	}

	a := swCoefficients(n)
	nn2 := n / 2
	weights := make([]float64, n)
	for i := 0; i < nn2; i++ {
		weights[i] = -a[i]
		weights[n-1-i] = a[i]
	}

	// Centered sums on range-scaled data keep the 1-W computation precise.
	scaled := make([]float64, n)
	var sx, sa float64
	for i, v := range sorted {
		scaled[i] = v / rng
		sx += scaled[i]
		sa += weights[i]
	}
	sx /= float64(n)
	sa /= float64(n)

	var ssa, ssx, sax float64
	for i := range scaled {
		asa := weights[i] - sa
		xsx := scaled[i] - sx
		ssa += asa * asa
		ssx += xsx * xsx
		sax += asa * xsx
	}

	ssassx := math.Sqrt(ssa * ssx)
	w1 := (ssassx - sax) * (ssassx + sax) / (ssa * ssx)
	if w1 < 0 {
		w1 = 0
	}
	w := 1 - w1

	return ShapiroResult{W: w, PValue: swPValue(n, w, w1), N: n}, nil
}

// swCoefficients returns the upper half of the antisymmetric weight vector,
// largest first.
func swCoefficients(n int) []float64 {
	nn2 := n / 2
	a := make([]float64, nn2)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an := float64(n)
	an25 := an + 0.25
	m := make([]float64, nn2)
	summ2 := 0.0
	for i := range m {
		m[i] = NormalQuantile((float64(i+1) - 0.375) / an25)
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(an)
	a1 := poly(swC1, rsn) - m[0]/ssumm2

	var i1 int
	var fac float64
	if n > 5 {
		i1 = 2
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		i1 = 1
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := i1; i < nn2; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func swPValue(n int, w, w1 float64) float64 {
	if n == 3 {
		// exact for n = 3
		p := 6 / math.Pi * (math.Asin(math.Sqrt(math.Min(w, 1))) - math.Pi/3)
		return math.Max(0, math.Min(1, p))
	}

	an := float64(n)
	y := math.Log(w1)
	var mean, sd float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return swMinPValue
		}
		y = -math.Log(gamma - y)
		mean = poly(swC3, an)
		sd = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		mean = poly(swC5, xx)
		sd = math.Exp(poly(swC6, xx))
	}

	return distuv.Normal{Mu: mean, Sigma: sd}.Survival(y)
}

// poly evaluates c[0] + c[1]x + c[2]x^2 + ...
func poly(c []float64, x float64) float64 {
	result := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		result = result*x + c[i]
	}
	return result
}
