package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Aleph-Alpha/floatrouter/v1/floats"
)

func TestFloatModelRoundTrip(t *testing.T) {
	lat, lon := 12.5, 65.25
	deployed := time.Date(2019, 3, 4, 0, 0, 0, 0, time.UTC)
	f := floats.Float{
		FloatID:        "2902746",
		PlatformNumber: "2902746",
		DeployDate:     &deployed,
		Region:         "Arabian Sea",
		Latitude:       &lat,
		Longitude:      &lon,
		Description:    "BGC float",
		Properties:     map[string]any{"sensor": "CTD"},
	}

	m := newFloatModel(f)
	assert.Equal(t, "floats", m.TableName())
	assert.Equal(t, f, m.toFloat())
}

func TestProfileModel(t *testing.T) {
	depth := 10.0
	p := floats.Profile{
		ProfileID:     "2902746_001",
		FloatID:       "2902746",
		ProfileTime:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		VariableName:  "TEMP",
		VariableValue: 28.1,
		Depth:         &depth,
	}

	m := newProfileModel(p)
	assert.Equal(t, "profiles", m.TableName())
	assert.Equal(t, p.FloatID, m.FloatID)
	assert.Equal(t, p.VariableName, m.VariableName)
	assert.Equal(t, &depth, m.Depth)
}
