package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SoarAway/donki-wonki/models"
)

// GormStore backs both ScheduleStore and AlertStore with Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) CreateUser(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return s.db.Create(user).Error
}

func (s *GormStore) SaveUser(user *models.User) error {
	return s.db.Save(user).Error
}

func (s *GormStore) ListUsersWithDeviceToken() ([]models.User, error) {
	var users []models.User
	err := s.db.Where("device_token <> ''").Order("id").Find(&users).Error
	return users, err
}

func (s *GormStore) GetRoutes(userID string) ([]models.Route, error) {
	var routes []models.Route
	err := s.db.Where("user_id = ?", userID).Order("id").Find(&routes).Error
	return routes, err
}

func (s *GormStore) GetRoute(userID, routeID string) (*models.Route, error) {
	var route models.Route
	err := s.db.First(&route, "id = ? AND user_id = ?", routeID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &route, nil
}

// UpsertRoute inserts the route or, when the (user, stations,
// locations) key already exists, refreshes its description. The
// conflict target is the idx_route_key unique index, so two
// concurrent calls cannot create duplicate rows.
func (s *GormStore) UpsertRoute(route *models.Route) (string, error) {
	if route.ID == "" {
		route.ID = uuid.NewString()
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "departing_station"},
			{Name: "destination_station"},
			{Name: "departing_location"},
			{Name: "destination_location"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
	}).Create(route).Error
	if err != nil {
		return "", err
	}

	// The insert may have resolved to an existing row; read the id back.
	var existing models.Route
	err = s.db.First(&existing,
		"user_id = ? AND departing_station = ? AND destination_station = ? AND departing_location = ? AND destination_location = ?",
		route.UserID, route.DepartingStation, route.DestinationStation,
		route.DepartingLocation, route.DestinationLocation).Error
	if err != nil {
		return "", err
	}
	route.ID = existing.ID
	return existing.ID, nil
}

func (s *GormStore) DeleteRoute(userID, routeID string) error {
	result := s.db.Where("id = ? AND user_id = ?", routeID, userID).Delete(&models.Route{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return s.db.Where("route_id = ?", routeID).Delete(&models.Schedule{}).Error
}

func (s *GormStore) GetSchedules(routeID string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := s.db.Where("route_id = ?", routeID).Order("id").Find(&schedules).Error
	return schedules, err
}

// UpsertSchedule relies on the idx_schedule_slot unique index:
// re-adding an existing (route, day, time_from) slot does nothing and
// returns the existing schedule id.
func (s *GormStore) UpsertSchedule(schedule *models.Schedule) (string, error) {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "route_id"},
			{Name: "day_of_week"},
			{Name: "time_from"},
		},
		DoNothing: true,
	}).Create(schedule).Error
	if err != nil {
		return "", err
	}

	var existing models.Schedule
	err = s.db.First(&existing,
		"route_id = ? AND day_of_week = ? AND time_from = ?",
		schedule.RouteID, schedule.DayOfWeek, schedule.TimeFrom).Error
	if err != nil {
		return "", err
	}
	schedule.ID = existing.ID
	return existing.ID, nil
}

func (s *GormStore) CreateAlert(alert *models.Alert) (string, error) {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	if err := s.db.Create(alert).Error; err != nil {
		return "", err
	}
	return alert.ID, nil
}

func (s *GormStore) GetAlert(id string) (*models.Alert, error) {
	var alert models.Alert
	if err := s.db.First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

func (s *GormStore) UpdateAlert(alert *models.Alert) error {
	alert.UpdatedAt = time.Now()
	return s.db.Save(alert).Error
}

func (s *GormStore) DeleteAlert(id string) (*models.Alert, error) {
	alert, err := s.GetAlert(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Delete(&models.Alert{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

// ListAlertsByToken finds alerts whose involvement map contains the
// device token as a key, the relational version of the Firestore
// user_involved.{token} query.
func (s *GormStore) ListAlertsByToken(deviceToken string) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.Where(datatypes.JSONQuery("user_involved").HasKey(deviceToken)).
		Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}
