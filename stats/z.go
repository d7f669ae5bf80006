package stats

import "gonum.org/v1/gonum/stat/distuv"

// ZVal returns the two-tailed Z-value associated with a specific confidence interval.
// The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// Common two-tailed Z-values, precomputed for the confidence intervals
// the engines report: Z95 for per-move values, Z99 for batch summaries.
var (
	Z95 = ZVal(95)
	Z99 = ZVal(99)
)
