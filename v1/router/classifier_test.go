package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Classification
	}{
		{"coordinates", "floats near 45 degrees", Numeric},
		{"variable", "temperature profiles", Numeric},
		{"comparison", "salinity greater than 35", Numeric},
		{"units", "measurements at 1500 m", Numeric},
		{"region", "floats in the north atlantic", Numeric},
		{"recency", "latest profiles", Numeric},
		{"case insensitive", "TEMPERATURE ABOVE THE THERMOCLINE", Numeric},
		{"descriptive", "describe the float mission", Semantic},
		{"similarity", "floats similar to 2902746", Semantic},
		{"research", "floats studying deep water formation as part of a research program", Semantic},
		{"both", "describe floats with temperature above 20 degrees", Mixed},
		{"neither", "hello there", Semantic},
		{"empty", "", Semantic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query))
		})
	}
}

func TestCustomPatterns(t *testing.T) {
	c, err := NewClassifier([]string{`\bdepth\b`}, []string{`\bstory\b`})
	require.NoError(t, err)

	assert.Equal(t, Numeric, c.Classify("max DEPTH"))
	assert.Equal(t, Semantic, c.Classify("temperature"))
	assert.Equal(t, Mixed, c.Classify("the depth story"))
}

func TestNewClassifierRejectsBadPattern(t *testing.T) {
	_, err := NewClassifier([]string{`(unclosed`}, nil)
	assert.Error(t, err)
}
