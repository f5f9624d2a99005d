package verdict

// SignificanceLevel is the fixed threshold used for correlation conclusions
// and group comparison verdicts.
const SignificanceLevel = 0.05

// Distribution is the outcome of a normality check
type Distribution string

const (
	DistributionNormal     Distribution = "normal"
	DistributionAsymmetric Distribution = "asymmetric"
)

// Conclusion labels a correlation row
type Conclusion string

const (
	ConclusionSignificant    Conclusion = "statistically significant difference"
	ConclusionNotSignificant Conclusion = "no statistically significant difference"
)

// Significance labels a group comparison
type Significance string

const (
	Significant    Significance = "significant"
	NotSignificant Significance = "not significant"
)

// ClassifyDistribution treats a sample as normal when p >= alpha.
func ClassifyDistribution(pValue, alpha float64) Distribution {
	if pValue >= alpha {
		return DistributionNormal
	}
	return DistributionAsymmetric
}

// Conclude labels a correlation p-value; p <= 0.05 is significant.
func Conclude(pValue float64) Conclusion {
	if pValue <= SignificanceLevel {
		return ConclusionSignificant
	}
	return ConclusionNotSignificant
}

// Judge labels a group comparison p-value; p >= 0.05 is not significant.
func Judge(pValue float64) Significance {
	if pValue >= SignificanceLevel {
		return NotSignificant
	}
	return Significant
}
