package models

import "time"

// Route is one commute leg between two stations on the same line.
// The station pair is ordered but direction-agnostic: KJ1->KJ14 and
// KJ14->KJ1 cover the same range. The unique index over the logical
// key makes save-or-update race-free under concurrent calls.
type Route struct {
	ID                  string     `gorm:"primaryKey;size:36" json:"id"`
	UserID              string     `gorm:"not null;size:36;uniqueIndex:idx_route_key,priority:1" json:"user_id"`
	DepartingLocation   string     `gorm:"size:255;uniqueIndex:idx_route_key,priority:4" json:"departing_location"`
	DestinationLocation string     `gorm:"size:255;uniqueIndex:idx_route_key,priority:5" json:"destination_location"`
	DepartingStation    string     `gorm:"size:8;uniqueIndex:idx_route_key,priority:2" json:"departing_station"`
	DestinationStation  string     `gorm:"size:8;uniqueIndex:idx_route_key,priority:3" json:"destination_station"`
	Description         string     `gorm:"type:text" json:"description"`
	Schedules           []Schedule `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
