package services

import "github.com/SoarAway/donki-wonki/models"

// ScheduleStore is the read/write model for users, routes and
// schedules. The matching and resolving logic only ever sees these
// methods, so a station-indexed implementation can replace the
// full-scan one without touching the dedup semantics.
type ScheduleStore interface {
	GetUser(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) error
	SaveUser(user *models.User) error
	// ListUsersWithDeviceToken returns only users that can actually
	// receive a push.
	ListUsersWithDeviceToken() ([]models.User, error)

	GetRoutes(userID string) ([]models.Route, error)
	GetRoute(userID, routeID string) (*models.Route, error)
	// UpsertRoute keys a route by (user, station pair, location pair)
	// and must be atomic under concurrent calls.
	UpsertRoute(route *models.Route) (string, error)
	DeleteRoute(userID, routeID string) error

	GetSchedules(routeID string) ([]models.Schedule, error)
	// UpsertSchedule is a no-op returning the existing id when the
	// (route, day, time_from) triple is already present.
	UpsertSchedule(schedule *models.Schedule) (string, error)
}

// AlertStore persists incident records.
type AlertStore interface {
	CreateAlert(alert *models.Alert) (string, error)
	GetAlert(id string) (*models.Alert, error)
	UpdateAlert(alert *models.Alert) error
	// DeleteAlert returns the pre-deletion record.
	DeleteAlert(id string) (*models.Alert, error)
	ListAlertsByToken(deviceToken string) ([]models.Alert, error)
}

// NotificationGateway delivers one push message. A failed send is
// non-fatal to callers: they log, count and move on.
type NotificationGateway interface {
	Send(deviceToken, title, body string, data map[string]string) (string, error)
}
