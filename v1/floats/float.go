package floats

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

// pointNamespace scopes the UUIDs derived from float ids.
var pointNamespace = uuid.MustParse("6f1c1f3e-8d8e-4f57-9a38-3c1c5e6a2b10")

// Float is the metadata of one Argo float, the unit both stores hold.
type Float struct {
	FloatID        string         `json:"float_id"`
	PlatformNumber string         `json:"platform_number,omitempty"`
	DeployDate     *time.Time     `json:"deploy_date,omitempty"`
	Region         string         `json:"region,omitempty"`
	Latitude       *float64       `json:"latitude,omitempty"`
	Longitude      *float64       `json:"longitude,omitempty"`
	Description    string         `json:"description,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	Properties     map[string]any `json:"properties,omitempty"`
}

// Validate checks the fields every store requires.
func (f Float) Validate() error {
	if strings.TrimSpace(f.FloatID) == "" {
		return fmt.Errorf("float: missing float_id")
	}
	if f.Latitude != nil && (*f.Latitude < -90 || *f.Latitude > 90) {
		return fmt.Errorf("float %s: latitude %.4f out of range", f.FloatID, *f.Latitude)
	}
	if f.Longitude != nil && (*f.Longitude < -180 || *f.Longitude > 180) {
		return fmt.Errorf("float %s: longitude %.4f out of range", f.FloatID, *f.Longitude)
	}
	return nil
}

// FormatForEmbedding renders the text the float's vector is computed from.
// Missing parts are skipped.
func (f Float) FormatForEmbedding() string {
	parts := []string{"Float ID: " + f.FloatID}

	if f.PlatformNumber != "" {
		parts = append(parts, "Platform: "+f.PlatformNumber)
	}
	if f.Region != "" {
		parts = append(parts, "Region: "+f.Region)
	}
	if desc := f.description(); desc != "" {
		parts = append(parts, "Description: "+desc)
	}
	if notes := f.notes(); notes != "" {
		parts = append(parts, "Notes: "+notes)
	}
	if f.Latitude != nil && f.Longitude != nil {
		parts = append(parts, fmt.Sprintf("Location: %.2f°N, %.2f°E", *f.Latitude, *f.Longitude))
	}
	if f.DeployDate != nil {
		parts = append(parts, "Deployed: "+f.DeployDate.Format(time.DateOnly))
	}

	return strings.Join(parts, " | ")
}

// Payload is the metadata stored next to the float's vector.
func (f Float) Payload() map[string]any {
	p := map[string]any{
		vectordb.FloatIDKey:  f.FloatID,
		vectordb.DocumentKey: f.FormatForEmbedding(),
		"platform_number":    f.PlatformNumber,
		"region":             f.Region,
	}
	if desc := f.description(); desc != "" {
		p["description"] = desc
	}
	if f.Latitude != nil {
		p["latitude"] = *f.Latitude
	}
	if f.Longitude != nil {
		p["longitude"] = *f.Longitude
	}
	if f.DeployDate != nil {
		p["deploy_date"] = f.DeployDate.UTC().Format(time.RFC3339)
	}
	return p
}

// PointID is the stable vector point id of the float. Re-ingesting a float
// overwrites its point instead of adding a second one.
func (f Float) PointID() string {
	return uuid.NewSHA1(pointNamespace, []byte(f.FloatID)).String()
}

// EmbeddingInput pairs the float's payload with its vector.
func (f Float) EmbeddingInput(vector []float32) vectordb.EmbeddingInput {
	return vectordb.EmbeddingInput{
		ID:      f.PointID(),
		Vector:  vector,
		Payload: f.Payload(),
	}
}

// description prefers the explicit field, then properties["description"].
func (f Float) description() string {
	if f.Description != "" {
		return f.Description
	}
	return f.property("description")
}

func (f Float) notes() string {
	if f.Notes != "" {
		return f.Notes
	}
	return f.property("notes")
}

func (f Float) property(key string) string {
	if v, ok := f.Properties[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Texts returns FormatForEmbedding for each float, in order.
func Texts(fs []Float) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.FormatForEmbedding()
	}
	return out
}
