package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "guess", "guess", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "guess", "", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		{"one char dropped", "guess", "gues", 8.0 / 9.0},
		{"transposed region", "fossil", "fosil", 10.0 / 11.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, similarityRatio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarityRatio_Symmetric(t *testing.T) {
	a, b := "samsonite", "samsonight"
	assert.InDelta(t, similarityRatio(a, b), similarityRatio(b, a), 1e-9)
}
