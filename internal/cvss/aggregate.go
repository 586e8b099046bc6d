package cvss

import "fmt"

// Finding is one detected threat type and how often it occurred in a batch.
type Finding struct {
	Type  ThreatType
	Count int
}

const aggregateVector = "CVSS:3.1/AGGREGATE"

// Aggregate combines all findings of a batch into a single saturating
// score: the count-weighted average of the per-type base scores, scaled by
// a volume multiplier and capped at 10.0. Many simultaneous threats are
// riskier than the same threats in isolation; the cap keeps the result in
// the standard 0-10 range.
func Aggregate(findings []Finding) Score {
	var weightedSum float64
	var totalCount int
	for _, f := range findings {
		weightedSum += ForType(f.Type).BaseScore * float64(f.Count)
		totalCount += f.Count
	}

	if totalCount == 0 {
		return newScore(0.0, aggregateVector, "No threats detected")
	}

	rawAverage := weightedSum / float64(totalCount)

	multiplier := 1.0
	switch {
	case totalCount > 50:
		multiplier = 1.25
	case totalCount > 20:
		multiplier = 1.15
	case totalCount > 10:
		multiplier = 1.10
	}

	aggregate := rawAverage * multiplier
	if aggregate > 10.0 {
		aggregate = 10.0
	}

	explanation := fmt.Sprintf(
		"Aggregate score based on %d threat type(s) with %d total instance(s). "+
			"Weighted average: %.2f. Volume multiplier: %.2fx",
		len(findings), totalCount, rawAverage, multiplier)

	return newScore(aggregate, aggregateVector, explanation)
}
