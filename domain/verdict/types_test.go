package verdict

import "testing"

func TestThresholdBoundaries(t *testing.T) {
	tests := []struct {
		name         string
		p            float64
		distribution Distribution
		conclusion   Conclusion
		significance Significance
	}{
		{"well below", 0.001, DistributionAsymmetric, ConclusionSignificant, Significant},
		{"exactly at level", 0.05, DistributionNormal, ConclusionSignificant, NotSignificant},
		{"above", 0.2, DistributionNormal, ConclusionNotSignificant, NotSignificant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDistribution(tt.p, 0.05); got != tt.distribution {
				t.Errorf("ClassifyDistribution(%v) = %s, want %s", tt.p, got, tt.distribution)
			}
			if got := Conclude(tt.p); got != tt.conclusion {
				t.Errorf("Conclude(%v) = %s, want %s", tt.p, got, tt.conclusion)
			}
			if got := Judge(tt.p); got != tt.significance {
				t.Errorf("Judge(%v) = %s, want %s", tt.p, got, tt.significance)
			}
		})
	}
}
