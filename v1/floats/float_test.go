package floats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

func ptr[T any](v T) *T { return &v }

func TestFormatForEmbedding(t *testing.T) {
	f := Float{
		FloatID:        "2902746",
		PlatformNumber: "2902746",
		Region:         "Indian Ocean",
		Latitude:       ptr(-12.3456),
		Longitude:      ptr(75.5),
		DeployDate:     ptr(time.Date(2019, 3, 14, 8, 0, 0, 0, time.UTC)),
		Properties:     map[string]any{"description": "BGC float", "notes": "oxygen sensor"},
	}

	assert.Equal(t,
		"Float ID: 2902746 | Platform: 2902746 | Region: Indian Ocean | Description: BGC float | Notes: oxygen sensor | Location: -12.35°N, 75.50°E | Deployed: 2019-03-14",
		f.FormatForEmbedding())
}

func TestFormatForEmbeddingMinimal(t *testing.T) {
	assert.Equal(t, "Float ID: 1", Float{FloatID: "1"}.FormatForEmbedding())
}

func TestPayload(t *testing.T) {
	f := Float{FloatID: "42", Region: "Arctic", Latitude: ptr(80.0)}
	p := f.Payload()

	assert.Equal(t, "42", p[vectordb.FloatIDKey])
	assert.Equal(t, 80.0, p["latitude"])
	assert.NotContains(t, p, "longitude")
	assert.Equal(t, f.FormatForEmbedding(), p[vectordb.DocumentKey])
}

func TestPointIDIsStable(t *testing.T) {
	a := Float{FloatID: "5904321"}.PointID()
	b := Float{FloatID: "5904321", Region: "changed"}.PointID()
	c := Float{FloatID: "5904322"}.PointID()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
}

func TestValidate(t *testing.T) {
	assert.Error(t, Float{}.Validate())
	assert.Error(t, Float{FloatID: "1", Latitude: ptr(91.0)}.Validate())
	assert.Error(t, Float{FloatID: "1", Longitude: ptr(-181.0)}.Validate())
	assert.NoError(t, Float{FloatID: "1", Latitude: ptr(0.0), Longitude: ptr(0.0)}.Validate())
}
