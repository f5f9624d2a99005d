package app

import (
	"math"
	"sort"

	"edakit/domain/report"
	"edakit/domain/table"
	"edakit/internal"

	"github.com/montanaflynn/stats"
)

// AssociationService scores how strongly a grouping explains a numeric variable
type AssociationService struct {
	logger *internal.Logger
}

// NewAssociationService creates an eta scorer
func NewAssociationService(logger *internal.Logger) *AssociationService {
	return &AssociationService{logger: logger.OrDefault()}
}

// EtaCorrelation returns the correlation ratio sqrt(SSb / (SSb + SSw)) of
// values grouped by groups. Both slices must have the same length; entries
// past the end of the shorter one are ignored. Pairs with an empty group
// label or a NaN value are ignored. The result is 0 when there is no
// variance at all.
func EtaCorrelation(groups []string, values []float64) float64 {
	byGroup := make(map[string][]float64)
	var all []float64
	for i := 0; i < len(groups) && i < len(values); i++ {
		if groups[i] == "" || math.IsNaN(values[i]) {
			continue
		}
		byGroup[groups[i]] = append(byGroup[groups[i]], values[i])
		all = append(all, values[i])
	}
	if len(all) == 0 {
		return 0
	}

	grandMean, _ := stats.Mean(all)

	keys := make([]string, 0, len(byGroup))
	for k := range byGroup {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var ssBetween, ssWithin float64
	for _, k := range keys {
		vals := byGroup[k]
		mean, _ := stats.Mean(vals)
		ssBetween += float64(len(vals)) * (mean - grandMean) * (mean - grandMean)
		for _, v := range vals {
			ssWithin += (v - mean) * (v - mean)
		}
	}

	total := ssBetween + ssWithin
	if total <= 0 {
		return 0
	}
	return math.Sqrt(ssBetween / total)
}

// Eta is EtaCorrelation over two table columns. The group column may be of
// either kind; the value column must be numeric.
func (s *AssociationService) Eta(t *table.Table, groupColumn, valueColumn string) (float64, error) {
	groups, err := t.Labels(groupColumn)
	if err != nil {
		return 0, err
	}
	values, err := t.Numeric(valueColumn)
	if err != nil {
		return 0, err
	}
	eta := EtaCorrelation(groups, values)
	s.logger.Debug("eta: %s by %s = %.4f", valueColumn, groupColumn, eta)
	return eta, nil
}

// EtaTable scores every factor as a grouping of target
func (s *AssociationService) EtaTable(t *table.Table, target string, factors []string) ([]report.EtaResult, error) {
	results := make([]report.EtaResult, 0, len(factors))
	for _, factor := range factors {
		eta, err := s.Eta(t, factor, target)
		if err != nil {
			return nil, err
		}
		results = append(results, report.EtaResult{Column: factor, Eta: report.Round4(eta)})
	}
	return results, nil
}
