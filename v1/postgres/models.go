package postgres

import (
	"time"

	"github.com/Aleph-Alpha/floatrouter/v1/floats"
)

// FloatModel is a row of the floats table.
type FloatModel struct {
	FloatID        string         `gorm:"column:float_id;primaryKey"`
	PlatformNumber string         `gorm:"column:platform_number;index"`
	DeployDate     *time.Time     `gorm:"column:deploy_date"`
	Region         string         `gorm:"column:region;index"`
	Latitude       *float64       `gorm:"column:latitude"`
	Longitude      *float64       `gorm:"column:longitude"`
	Description    string         `gorm:"column:description"`
	Notes          string         `gorm:"column:notes"`
	Properties     map[string]any `gorm:"column:properties;type:jsonb;serializer:json"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (FloatModel) TableName() string { return "floats" }

// ProfileModel is a row of the profiles table.
type ProfileModel struct {
	ID            uint      `gorm:"primaryKey"`
	ProfileID     string    `gorm:"column:profile_id;index;uniqueIndex:idx_profile_variable"`
	FloatID       string    `gorm:"column:float_id;index;not null"`
	ProfileTime   time.Time `gorm:"column:profile_time;index"`
	Latitude      *float64  `gorm:"column:latitude"`
	Longitude     *float64  `gorm:"column:longitude"`
	VariableName  string    `gorm:"column:variable_name;uniqueIndex:idx_profile_variable"`
	VariableValue float64   `gorm:"column:variable_value"`
	Depth         *float64  `gorm:"column:depth;uniqueIndex:idx_profile_variable"`

	Float FloatModel `gorm:"foreignKey:FloatID;references:FloatID;constraint:OnDelete:CASCADE"`
}

func (ProfileModel) TableName() string { return "profiles" }

func newFloatModel(f floats.Float) FloatModel {
	return FloatModel{
		FloatID:        f.FloatID,
		PlatformNumber: f.PlatformNumber,
		DeployDate:     f.DeployDate,
		Region:         f.Region,
		Latitude:       f.Latitude,
		Longitude:      f.Longitude,
		Description:    f.Description,
		Notes:          f.Notes,
		Properties:     f.Properties,
	}
}

func (m FloatModel) toFloat() floats.Float {
	return floats.Float{
		FloatID:        m.FloatID,
		PlatformNumber: m.PlatformNumber,
		DeployDate:     m.DeployDate,
		Region:         m.Region,
		Latitude:       m.Latitude,
		Longitude:      m.Longitude,
		Description:    m.Description,
		Notes:          m.Notes,
		Properties:     m.Properties,
	}
}

func newProfileModel(p floats.Profile) ProfileModel {
	return ProfileModel{
		ProfileID:     p.ProfileID,
		FloatID:       p.FloatID,
		ProfileTime:   p.ProfileTime,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		VariableName:  p.VariableName,
		VariableValue: p.VariableValue,
		Depth:         p.Depth,
	}
}
