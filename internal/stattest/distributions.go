package stattest

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalCDF computes the cumulative distribution function for the standard normal
func NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalSurvival computes the upper tail of the standard normal
func NormalSurvival(x float64) float64 {
	return distuv.UnitNormal.Survival(x)
}

// NormalQuantile computes the quantile function for the standard normal (inverse CDF)
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// TwoSidedTPValue computes the two-tailed p-value of a t statistic
func TwoSidedTPValue(tStatistic, degreesOfFreedom float64) float64 {
	if degreesOfFreedom <= 0 || math.IsNaN(tStatistic) {
		return 1.0
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: degreesOfFreedom}
	return math.Min(1, 2*tDist.Survival(math.Abs(tStatistic)))
}

// CorrelationPValue computes the two-tailed p-value of a correlation
// coefficient through its t transform with n-2 degrees of freedom.
func CorrelationPValue(correlation float64, sampleSize int) float64 {
	if sampleSize < 3 {
		return 1.0
	}
	if math.Abs(correlation) >= 1 {
		return 0
	}

	df := float64(sampleSize - 2)
	tStatistic := correlation * math.Sqrt(df/(1-correlation*correlation))
	return TwoSidedTPValue(tStatistic, df)
}

// ChiSquarePValue computes the upper-tail p-value of a chi-square statistic
func ChiSquarePValue(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}

	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return chiDist.Survival(chiSquare)
}
