package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullVector(base float64) map[string]float64 {
	vector := map[string]float64{}

	for i, code := range []string{"Ti", "Te", "Fi", "Fe", "Si", "Se", "Ni", "Ne"} {
		vector[code] = base + float64(i)
	}

	return vector
}

func TestCognitiveSimilarityIdenticalVectors(t *testing.T) {
	vector := fullVector(50)

	result := CognitiveSimilarity(vector, vector)

	assert.InDelta(t, 1.0, result.Score, 1e-9)
	assert.False(t, result.Partial)
	assert.Equal(t, 8, result.Shared)
}

func TestCognitiveSimilaritySymmetric(t *testing.T) {
	a := fullVector(30)
	b := fullVector(70)

	forward := CognitiveSimilarity(a, b)
	backward := CognitiveSimilarity(b, a)

	assert.Equal(t, forward, backward)
}

func TestCognitiveSimilarityKnownDeviation(t *testing.T) {
	a := map[string]float64{"Ti": 100, "Te": 100, "Fi": 100, "Fe": 100, "Si": 100, "Se": 100, "Ni": 100, "Ne": 100}
	b := map[string]float64{"Ti": 0, "Te": 0, "Fi": 0, "Fe": 0, "Si": 0, "Se": 0, "Ni": 0, "Ne": 0}

	result := CognitiveSimilarity(a, b)

	assert.InDelta(t, 0.0, result.Score, 1e-9)
	assert.False(t, result.Partial)
}

func TestCognitiveSimilarityPartialOverlap(t *testing.T) {
	a := map[string]float64{"Ti": 80, "Ne": 60}
	b := map[string]float64{"Ti": 80, "Fe": 40}

	result := CognitiveSimilarity(a, b)

	assert.True(t, result.Partial)
	assert.Equal(t, 1, result.Shared)
	assert.InDelta(t, 1.0, result.Score, 1e-9)
}

func TestCognitiveSimilarityDisjointVectors(t *testing.T) {
	a := map[string]float64{"Ti": 80}
	b := map[string]float64{"Fe": 40}

	result := CognitiveSimilarity(a, b)

	assert.Zero(t, result.Score)
	assert.True(t, result.Partial)
	assert.Zero(t, result.Shared)
}

func TestCognitiveSimilarityEmptyVector(t *testing.T) {
	result := CognitiveSimilarity(map[string]float64{}, fullVector(50))

	assert.Zero(t, result.Score)
	assert.True(t, result.Partial)
}

func TestOverlapRatio(t *testing.T) {
	assert.InDelta(t, 0.3, OverlapRatio([]uint{1, 2, 3}, []uint{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.2, OverlapRatio([]uint{1, 2, 3}, []uint{2, 3, 4}), 1e-9)
	assert.Zero(t, OverlapRatio([]uint{1, 2}, []uint{3, 4}))
}

func TestOverlapRatioEmptyOperand(t *testing.T) {
	assert.Zero(t, OverlapRatio(nil, []uint{1, 2}))
	assert.Zero(t, OverlapRatio([]uint{1, 2}, nil))
}

func TestOverlapRatioCappedAtOne(t *testing.T) {
	a := make([]uint, 0, 15)

	for i := uint(1); i <= 15; i++ {
		a = append(a, i)
	}

	assert.InDelta(t, 1.0, OverlapRatio(a, a), 1e-9)
}

func TestOverlapRatioIgnoresDuplicates(t *testing.T) {
	assert.InDelta(t, 0.1, OverlapRatio([]uint{1}, []uint{1, 1, 1}), 1e-9)
}

func TestCompositeBlend(t *testing.T) {
	vector := fullVector(50)
	items := []uint{1, 2, 3, 4, 5}

	result := Composite(vector, vector, items, items)

	// 0.6*1.0 + 0.4*0.5
	assert.InDelta(t, 0.8, result.Score, 1e-9)
	assert.InDelta(t, 1.0, result.Cognitive.Score, 1e-9)
	assert.InDelta(t, 0.5, result.Overlap, 1e-9)
}

func TestCompositeMissingOperandDegrades(t *testing.T) {
	vector := fullVector(50)

	result := Composite(vector, vector, nil, []uint{1, 2})

	assert.InDelta(t, 0.6, result.Score, 1e-9)
	assert.Zero(t, result.Overlap)
}

func TestMeanVector(t *testing.T) {
	mean := MeanVector([]map[string]float64{
		{"Ti": 100, "Ne": 40},
		{"Ti": 50},
	})

	assert.InDelta(t, 75, mean["Ti"], 1e-9)
	assert.InDelta(t, 40, mean["Ne"], 1e-9)
}

func TestMeanVectorEmpty(t *testing.T) {
	assert.Empty(t, MeanVector(nil))
}
