package stattest

import (
	"math"
	"testing"

	"edakit/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileLinearInterpolation(t *testing.T) {
	sorted := []float64{9, 10, 11, 12, 13, 100}

	assert.InDelta(t, 10.25, Quantile(sorted, 0.25), 1e-12)
	assert.InDelta(t, 11.5, Quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 12.75, Quantile(sorted, 0.75), 1e-12)
	assert.Equal(t, 9.0, Quantile(sorted, 0))
	assert.Equal(t, 100.0, Quantile(sorted, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestQuartilesIgnoreMissing(t *testing.T) {
	q1, q3, err := Quartiles([]float64{10, 12, math.NaN(), 11, 13, 9, 100})
	require.NoError(t, err)
	assert.InDelta(t, 10.25, q1, 1e-12)
	assert.InDelta(t, 12.75, q3, 1e-12)

	_, _, err = Quartiles([]float64{math.NaN()})
	assert.True(t, core.IsDegenerateInput(err))
}

func TestRankAveragesTies(t *testing.T) {
	assert.Equal(t, []float64{1.5, 3, 1.5, 4}, Rank([]float64{10, 20, 10, 30}))
	assert.Equal(t, []float64{}, Rank(nil))
	assert.Equal(t, 30.0, TieSum([]float64{2, 1, 2, 1, 2}))
	assert.Equal(t, 0.0, TieSum([]float64{3, 1, 2}))
}

func TestCompletePairs(t *testing.T) {
	x, y := CompletePairs([]float64{1, math.NaN(), 3, 4}, []float64{5, 6, math.NaN(), 8})
	assert.Equal(t, []float64{1, 4}, x)
	assert.Equal(t, []float64{5, 8}, y)
	assert.Equal(t, []float64{1, 3}, DropNaN([]float64{1, math.NaN(), 3}))
}

// normalScores returns the expected order statistics of a normal sample.
func normalScores(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 50 + 10*NormalQuantile((float64(i)+0.5)/float64(n))
	}
	return out
}

func TestShapiroWilk(t *testing.T) {
	t.Run("normal scores look normal", func(t *testing.T) {
		for _, n := range []int{4, 8, 20, 200} {
			res, err := ShapiroWilk(normalScores(n))
			require.NoError(t, err)
			assert.Greater(t, res.W, 0.9, "n=%d", n)
			assert.Greater(t, res.PValue, 0.05, "n=%d", n)
			assert.LessOrEqual(t, res.PValue, 1.0, "n=%d", n)
		}
	})

	t.Run("heavy right skew is rejected", func(t *testing.T) {
		res, err := ShapiroWilk([]float64{148, 154, 158, 160, 161, 162, 166, 170, 182, 195, 236})
		require.NoError(t, err)
		assert.Less(t, res.W, 0.9)
		assert.Less(t, res.PValue, 0.05)

		skewed := make([]float64, 60)
		for i := range skewed {
			skewed[i] = math.Exp(float64(i) / 6)
		}
		res, err = ShapiroWilk(skewed)
		require.NoError(t, err)
		assert.Less(t, res.PValue, 0.001)
	})

	t.Run("reference values", func(t *testing.T) {
		res, err := ShapiroWilk([]float64{148, 154, 158, 160, 161, 162, 166, 170, 182, 195, 236})
		require.NoError(t, err)
		assert.InDelta(t, 0.78881, res.W, 1e-5)
		assert.InDelta(t, 0.006704, res.PValue, 1e-6)

		res, err = ShapiroWilk([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
		require.NoError(t, err)
		assert.InDelta(t, 0.97016, res.W, 1e-5)
		assert.InDelta(t, 0.8924, res.PValue, 1e-4)
	})

	t.Run("three points use the exact distribution", func(t *testing.T) {
		res, err := ShapiroWilk([]float64{3, 1, 2})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, res.W, 1e-12)
		assert.InDelta(t, 1.0, res.PValue, 1e-9)

		res, err = ShapiroWilk([]float64{1, 2, 10})
		require.NoError(t, err)
		assert.Greater(t, res.PValue, 0.0)
		assert.Less(t, res.PValue, 1.0)
	})

	t.Run("constant sample", func(t *testing.T) {
		res, err := ShapiroWilk([]float64{4, 4, 4, 4})
		require.NoError(t, err)
		assert.Equal(t, 1.0, res.PValue)
	})

	t.Run("degenerate input", func(t *testing.T) {
		_, err := ShapiroWilk([]float64{1, 2})
		assert.True(t, core.IsDegenerateInput(err))

		_, err = ShapiroWilk([]float64{1, 2, math.NaN()})
		assert.True(t, core.IsInvalidOperation(err))
	})
}

func TestPearsonAndSpearman(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}

	res, err := Pearson(x, []float64{2, 4, 6, 8, 10})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.R, 1e-12)
	assert.InDelta(t, 0.0, res.PValue, 1e-9)

	res, err = Pearson(x, []float64{2, 4, 5, 4, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.7746, res.R, 1e-4)
	assert.InDelta(t, 0.124, res.PValue, 0.005)

	res, err = Spearman(x, []float64{1, 4, 9, 16, 25})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.R, 1e-12)

	res, err = Spearman(x, []float64{50, 40, 30, 20, 10})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, res.R, 1e-12)

	_, err = Pearson(x, []float64{1, 1, 1, 1, 1})
	assert.True(t, core.IsDegenerateInput(err))

	_, err = Spearman(x, []float64{1, 2})
	assert.True(t, core.IsInvalidOperation(err))

	_, err = Pearson([]float64{1, 2}, []float64{1, 2})
	assert.True(t, core.IsDegenerateInput(err))
}

func TestMannWhitneyU(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{10, 11, 12}

	t.Run("separated groups two-sided", func(t *testing.T) {
		res, err := MannWhitneyU(a, b, TwoSided, MethodAsymptotic)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.U)
		assert.InDelta(t, -1.9640, res.Z, 1e-3)
		assert.Less(t, res.PValue, 0.05)
	})

	t.Run("one-sided alternatives", func(t *testing.T) {
		less, err := MannWhitneyU(a, b, Less, MethodAsymptotic)
		require.NoError(t, err)
		greater, err := MannWhitneyU(a, b, Greater, MethodAsymptotic)
		require.NoError(t, err)

		assert.Less(t, less.PValue, 0.05)
		assert.Greater(t, greater.PValue, 0.95)
		assert.InDelta(t, 1.0, less.PValue+greater.PValue, 1e-12)
	})

	t.Run("exact distribution", func(t *testing.T) {
		res, err := MannWhitneyU(a, b, TwoSided, MethodExact)
		require.NoError(t, err)
		assert.InDelta(t, 0.1, res.PValue, 1e-9)
	})

	t.Run("identical samples", func(t *testing.T) {
		res, err := MannWhitneyU([]float64{1, 2, 3, 4, 5}, []float64{1, 2, 3, 4, 5}, TwoSided, MethodAsymptotic)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, res.PValue, 1e-12)
	})

	t.Run("degenerate", func(t *testing.T) {
		_, err := MannWhitneyU(nil, b, TwoSided, MethodAsymptotic)
		assert.True(t, core.IsDegenerateInput(err))

		_, err = MannWhitneyU([]float64{2, 2}, []float64{2, 2}, TwoSided, MethodAsymptotic)
		assert.True(t, core.IsDegenerateInput(err))
	})
}

func TestParseOptions(t *testing.T) {
	alt, err := ParseAlternative("")
	require.NoError(t, err)
	assert.Equal(t, TwoSided, alt)

	_, err = ParseAlternative("sideways")
	assert.True(t, core.IsInvalidOperation(err))

	method, err := ParseUMethod("exact")
	require.NoError(t, err)
	assert.Equal(t, MethodExact, method)

	_, err = ParseUMethod("bootstrap")
	assert.True(t, core.IsInvalidOperation(err))
}

func TestKruskalWallis(t *testing.T) {
	t.Run("identical distributions", func(t *testing.T) {
		g := []float64{1, 2, 3, 4, 5}
		res, err := KruskalWallis(g, g, g)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, res.H, 1e-9)
		assert.InDelta(t, 1.0, res.PValue, 1e-9)
		assert.Equal(t, 2, res.DF)
		assert.Equal(t, 15, res.N)
	})

	t.Run("shifted groups", func(t *testing.T) {
		res, err := KruskalWallis(
			[]float64{1, 2, 3, 4, 5},
			[]float64{11, 12, 13, 14, 15},
			[]float64{21, 22, 23, 24, 25},
		)
		require.NoError(t, err)
		// no ties: H = 12/(15*16) * (15^2+40^2+65^2)/5 - 48 = 12.5
		assert.InDelta(t, 12.5, res.H, 1e-9)
		assert.Less(t, res.PValue, 0.01)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := KruskalWallis([]float64{1, 2})
		assert.True(t, core.IsInvalidOperation(err))

		_, err = KruskalWallis([]float64{1, 2}, nil)
		assert.True(t, core.IsDegenerateInput(err))

		_, err = KruskalWallis([]float64{3, 3}, []float64{3, 3})
		assert.True(t, core.IsDegenerateInput(err))
	})
}

func TestCorrelationPValueEdges(t *testing.T) {
	assert.Equal(t, 1.0, CorrelationPValue(0.9, 2))
	assert.Equal(t, 0.0, CorrelationPValue(-1, 10))
	assert.InDelta(t, 1.0, CorrelationPValue(0, 10), 1e-12)
	assert.Equal(t, 1.0, ChiSquarePValue(3, 0))
	assert.InDelta(t, 0.05, ChiSquarePValue(5.991464547107979, 2), 1e-9)
}
