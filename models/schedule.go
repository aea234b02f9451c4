package models

import "time"

// Schedule is a recurring weekly time window on a route. The unique
// index makes re-adding the same (route, day, time_from) a no-op at
// the database level instead of a check-then-write.
type Schedule struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	RouteID   string    `gorm:"size:36;not null;uniqueIndex:idx_schedule_slot,priority:1" json:"route_id"`
	DayOfWeek string    `gorm:"size:9;not null;uniqueIndex:idx_schedule_slot,priority:2" json:"day_of_week"`
	TimeFrom  string    `gorm:"size:5;not null;uniqueIndex:idx_schedule_slot,priority:3" json:"time_from"`
	TimeTo    string    `gorm:"size:5;not null" json:"time_to"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
