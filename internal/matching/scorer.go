// Package matching implements the deterministic compatibility formula.
// Everything here is a pure function over in-memory vectors and sets; the
// recommendation engine is responsible for fetching the operands.
package matching

import "math"

const (
	// A complete cognitive profile has 8 functions scored 0-100, so the
	// largest possible total deviation between two users is 800.
	functionCount    = 8
	maxScorePerAxis  = 100
	maxTotalDistance = functionCount * maxScorePerAxis

	// Overlap counts are normalized against a fixed denominator rather than
	// either side's set size, then capped at 1.
	overlapDenominator = 10

	cognitiveWeight = 0.6
	overlapWeight   = 0.4
)

// CognitiveResult carries a similarity in [0,1] and whether it was computed
// over fewer than 8 common dimensions. Partial scores are lower-confidence
// and callers should treat them as such.
type CognitiveResult struct {
	Score   float64
	Partial bool
	Shared  int
}

// CognitiveSimilarity compares two normalized-score vectors keyed by
// function code. Only dimensions present in both vectors contribute; the
// accumulated absolute deviation is normalized by the maximum possible total
// (800) and inverted. Two empty or disjoint vectors score 0.
func CognitiveSimilarity(a, b map[string]float64) CognitiveResult {
	var total float64
	shared := 0

	for code, scoreA := range a {
		scoreB, ok := b[code]

		if !ok {
			continue
		}

		total += math.Abs(scoreA - scoreB)
		shared++
	}

	if shared == 0 {
		return CognitiveResult{Score: 0, Partial: true, Shared: 0}
	}

	return CognitiveResult{
		Score:   1 - total/maxTotalDistance,
		Partial: shared < functionCount,
		Shared:  shared,
	}
}

// OverlapRatio reports shared identifiers over the fixed denominator of 10,
// capped at 1. Works for attribute ids and for skill tags alike.
func OverlapRatio[T comparable](a, b []T) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[T]struct{}, len(a))

	for _, item := range a {
		set[item] = struct{}{}
	}

	shared := 0
	seen := make(map[T]struct{}, len(b))

	for _, item := range b {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}

		if _, ok := set[item]; ok {
			shared++
		}
	}

	ratio := float64(shared) / overlapDenominator

	return math.Min(ratio, 1)
}

// CompositeResult is the blended score the recommendation engine persists.
type CompositeResult struct {
	Score     float64
	Cognitive CognitiveResult
	Overlap   float64
}

// Composite blends cognitive similarity and overlap 0.6/0.4. A missing
// operand (empty vector, empty set) contributes 0 rather than failing:
// sparse data degrades the score, it never raises.
func Composite(vectorA, vectorB map[string]float64, itemsA, itemsB []uint) CompositeResult {
	cognitive := CognitiveSimilarity(vectorA, vectorB)
	overlap := OverlapRatio(itemsA, itemsB)

	return CompositeResult{
		Score:     cognitiveWeight*cognitive.Score + overlapWeight*overlap,
		Cognitive: cognitive,
		Overlap:   overlap,
	}
}

// MeanVector averages a set of vectors dimension-wise, producing a team's
// aggregate cognitive profile. Dimensions missing from a member's vector are
// simply absent from that member's contribution.
func MeanVector(vectors []map[string]float64) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}

	for _, vector := range vectors {
		for code, score := range vector {
			sums[code] += score
			counts[code]++
		}
	}

	mean := make(map[string]float64, len(sums))

	for code, sum := range sums {
		mean[code] = sum / float64(counts[code])
	}

	return mean
}
