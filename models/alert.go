package models

import (
	"time"

	"gorm.io/datatypes"
)

// Involvement maps a device token to the ordered, de-duplicated list
// of affected stations that matched that user's routes.
type Involvement map[string][]string

// Alert is one persisted incident record. Alerts are immutable except
// through the lifecycle operations; an extension is a brand-new Alert
// pointing back at its source via SourceAlertID.
type Alert struct {
	ID               string                          `gorm:"primaryKey;size:36" json:"alert_id"`
	AffectedStations datatypes.JSONSlice[string]     `json:"affected_stations"`
	Line             string                          `gorm:"size:64" json:"line"`
	IncidentType     string                          `gorm:"size:64" json:"incident_type"`
	Description      string                          `gorm:"type:text" json:"description"`
	PredictedTime    string                          `gorm:"size:16" json:"predicted_time"`
	UserInvolved     datatypes.JSONType[Involvement] `json:"user_involved"`
	SourceAlertID    *string                         `gorm:"size:36" json:"source_alert_id,omitempty"`
	CreatedAt        time.Time                       `json:"created_at"`
	UpdatedAt        time.Time                       `json:"updated_at"`
}
