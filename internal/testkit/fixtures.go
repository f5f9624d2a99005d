package testkit

import (
	"math"
	"math/rand"

	"edakit/domain/table"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalScores returns n expected normal order statistics (Blom positions)
// scaled to mu and sigma, in ascending order. They pass any normality test.
func NormalScores(n int, mu, sigma float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		p := (float64(i+1) - 0.375) / (float64(n) + 0.25)
		out[i] = mu + sigma*distuv.UnitNormal.Quantile(p)
	}
	return out
}

// LogNormalScores returns exp of the standard normal scores, a strongly right-skewed sample
func LogNormalScores(n int) []float64 {
	out := NormalScores(n, 0, 1)
	for i, v := range out {
		out[i] = math.Exp(2 * v)
	}
	return out
}

// Shuffled returns a seeded permutation of values
func Shuffled(values []float64, seed int64) []float64 {
	out := append([]float64(nil), values...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Repeat returns labels where each label appears n times in order
func Repeat(n int, labels ...string) []string {
	out := make([]string, 0, n*len(labels))
	for _, l := range labels {
		for i := 0; i < n; i++ {
			out = append(out, l)
		}
	}
	return out
}

// MustTable builds a table from columns and panics on invalid input
func MustTable(columns ...*table.Column) *table.Table {
	t, err := table.FromColumns(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Num and Cat are column shorthands for MustTable
func Num(name string, values ...float64) *table.Column {
	return &table.Column{Name: name, Kind: table.Numeric, Floats: values}
}

func Cat(name string, labels ...string) *table.Column {
	return &table.Column{Name: name, Kind: table.Categorical, Labels: labels}
}

// ScoresTable holds a single obvious outlier in score
func ScoresTable() *table.Table {
	return MustTable(
		Num("score", 10, 12, 11, 13, 9, 100),
		Cat("class", "a", "a", "a", "a", "a", "a"),
	)
}

// TwoGroupTable holds a target fully separated between groups A and B
func TwoGroupTable() *table.Table {
	return MustTable(
		Num("y", 1, 2, 3, 10, 11, 12),
		Cat("g", "A", "A", "A", "B", "B", "B"),
	)
}

// SurveyTable is a mixed dataset of n rows per segment (three segments).
// income is normal and shared by every segment, spend tracks income, bonus is
// skewed, tenure is a noisy copy of spend and member alternates yes/no.
func SurveyTable(n int, seed int64) *table.Table {
	rng := rand.New(rand.NewSource(seed))
	rows := 3 * n

	income := Shuffled(NormalScores(rows, 50, 10), seed)
	spend := make([]float64, rows)
	tenure := make([]float64, rows)
	for i, v := range income {
		spend[i] = 0.4*v + rng.NormFloat64()
		tenure[i] = spend[i] + 5*rng.NormFloat64()
	}
	bonus := Shuffled(LogNormalScores(rows), seed+1)
	member := make([]string, rows)
	for i := range member {
		member[i] = "no"
		if i%2 == 0 {
			member[i] = "yes"
		}
	}

	return MustTable(
		Num("income", income...),
		Num("spend", spend...),
		Num("tenure", tenure...),
		Num("bonus", bonus...),
		Cat("segment", Repeat(n, "north", "south", "west")...),
		Cat("member", member...),
	)
}
