package floats

import (
	"fmt"
	"time"
)

// Profile is one measurement taken by a float during a profile cycle.
type Profile struct {
	ProfileID     string    `json:"profile_id"`
	FloatID       string    `json:"float_id"`
	ProfileTime   time.Time `json:"profile_time"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	VariableName  string    `json:"variable_name"`
	VariableValue float64   `json:"variable_value"`
	Depth         *float64  `json:"depth,omitempty"`
}

func (p Profile) Validate() error {
	if p.ProfileID == "" || p.FloatID == "" {
		return fmt.Errorf("profile: profile_id and float_id are required")
	}
	if p.VariableName == "" {
		return fmt.Errorf("profile %s: missing variable_name", p.ProfileID)
	}
	return nil
}

// Record is one ingestion message: a float with the profiles measured by it.
type Record struct {
	Float
	Profiles []Profile `json:"profiles,omitempty"`
}

// Split separates records into floats and profiles. A float id that appears
// more than once keeps its first position and its last value, so one upsert
// never touches the same row twice. Every profile is kept; profiles without
// a float_id inherit their record's.
func Split(records []Record) ([]Float, []Profile) {
	fs := make([]Float, 0, len(records))
	pos := make(map[string]int, len(records))
	var ps []Profile
	for _, r := range records {
		if i, ok := pos[r.FloatID]; ok {
			fs[i] = r.Float
		} else {
			pos[r.FloatID] = len(fs)
			fs = append(fs, r.Float)
		}
		for _, p := range r.Profiles {
			if p.FloatID == "" {
				p.FloatID = r.FloatID
			}
			ps = append(ps, p)
		}
	}
	return fs, ps
}

// Validate checks the float and every profile. Profiles must belong to the
// record's float.
func (r Record) Validate() error {
	if err := r.Float.Validate(); err != nil {
		return err
	}
	for _, p := range r.Profiles {
		if p.FloatID == "" {
			p.FloatID = r.FloatID
		}
		if p.FloatID != r.FloatID {
			return fmt.Errorf("float %s: profile %s belongs to float %s", r.FloatID, p.ProfileID, p.FloatID)
		}
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
