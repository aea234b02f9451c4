package models

import "time"

// Report is a rider-submitted incident sighting, kept separate from
// Alert: reports feed incident detection, alerts are its output.
type Report struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Line         string    `gorm:"size:64" json:"line"`
	Station      string    `gorm:"size:64" json:"station"`
	IncidentType string    `gorm:"size:64" json:"incident_type"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}
