package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/SoarAway/donki-wonki/models"
)

// fakeStore is an in-memory ScheduleStore + AlertStore for tests.
type fakeStore struct {
	users     []models.User
	routes    map[string][]models.Route    // userID -> routes
	schedules map[string][]models.Schedule // routeID -> schedules
	alerts    map[string]models.Alert
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		routes:    make(map[string][]models.Route),
		schedules: make(map[string][]models.Schedule),
		alerts:    make(map[string]models.Alert),
	}
}

func (f *fakeStore) addUser(id, email, token string) models.User {
	user := models.User{ID: id, Email: email, DeviceToken: token, PasswordEnc: "x"}
	f.users = append(f.users, user)
	return user
}

func (f *fakeStore) addRoute(userID, routeID, depStation, destStation string) models.Route {
	route := models.Route{
		ID:                 routeID,
		UserID:             userID,
		DepartingStation:   depStation,
		DestinationStation: destStation,
	}
	f.routes[userID] = append(f.routes[userID], route)
	return route
}

func (f *fakeStore) addSchedule(routeID, scheduleID, day, from, to string) {
	f.schedules[routeID] = append(f.schedules[routeID], models.Schedule{
		ID: scheduleID, RouteID: routeID, DayOfWeek: day, TimeFrom: from, TimeTo: to,
	})
}

func (f *fakeStore) GetUser(id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateUser(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeStore) SaveUser(user *models.User) error {
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users[i] = *user
			return nil
		}
	}
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeStore) ListUsersWithDeviceToken() ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.DeviceToken != "" {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) GetRoutes(userID string) ([]models.Route, error) {
	out := make([]models.Route, len(f.routes[userID]))
	copy(out, f.routes[userID])
	return out, nil
}

func (f *fakeStore) GetRoute(userID, routeID string) (*models.Route, error) {
	for _, r := range f.routes[userID] {
		if r.ID == routeID {
			route := r
			return &route, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UpsertRoute(route *models.Route) (string, error) {
	for _, r := range f.routes[route.UserID] {
		if r.DepartingStation == route.DepartingStation &&
			r.DestinationStation == route.DestinationStation &&
			r.DepartingLocation == route.DepartingLocation &&
			r.DestinationLocation == route.DestinationLocation {
			route.ID = r.ID
			return r.ID, nil
		}
	}
	if route.ID == "" {
		route.ID = uuid.NewString()
	}
	f.routes[route.UserID] = append(f.routes[route.UserID], *route)
	return route.ID, nil
}

func (f *fakeStore) DeleteRoute(userID, routeID string) error {
	rs := f.routes[userID]
	for i, r := range rs {
		if r.ID == routeID {
			f.routes[userID] = append(rs[:i], rs[i+1:]...)
			delete(f.schedules, routeID)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) GetSchedules(routeID string) ([]models.Schedule, error) {
	out := make([]models.Schedule, len(f.schedules[routeID]))
	copy(out, f.schedules[routeID])
	return out, nil
}

func (f *fakeStore) UpsertSchedule(schedule *models.Schedule) (string, error) {
	for _, s := range f.schedules[schedule.RouteID] {
		if s.DayOfWeek == schedule.DayOfWeek && s.TimeFrom == schedule.TimeFrom {
			schedule.ID = s.ID
			return s.ID, nil
		}
	}
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	f.schedules[schedule.RouteID] = append(f.schedules[schedule.RouteID], *schedule)
	return schedule.ID, nil
}

func (f *fakeStore) CreateAlert(alert *models.Alert) (string, error) {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	f.alerts[alert.ID] = *alert
	return alert.ID, nil
}

func (f *fakeStore) GetAlert(id string) (*models.Alert, error) {
	alert, ok := f.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &alert, nil
}

func (f *fakeStore) UpdateAlert(alert *models.Alert) error {
	if _, ok := f.alerts[alert.ID]; !ok {
		return ErrNotFound
	}
	f.alerts[alert.ID] = *alert
	return nil
}

func (f *fakeStore) DeleteAlert(id string) (*models.Alert, error) {
	alert, ok := f.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(f.alerts, id)
	return &alert, nil
}

func (f *fakeStore) ListAlertsByToken(deviceToken string) ([]models.Alert, error) {
	var out []models.Alert
	for _, alert := range f.alerts {
		if _, ok := alert.UserInvolved.Data()[deviceToken]; ok {
			out = append(out, alert)
		}
	}
	return out, nil
}

// fakeGateway records sends and can fail selected tokens.
type fakeGateway struct {
	sent       []fakeSend
	failTokens map[string]bool
}

type fakeSend struct {
	token string
	title string
	body  string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{failTokens: make(map[string]bool)}
}

func (g *fakeGateway) Send(deviceToken, title, body string, data map[string]string) (string, error) {
	if g.failTokens[deviceToken] {
		return "", fmt.Errorf("endpoint disabled for %s", deviceToken)
	}
	g.sent = append(g.sent, fakeSend{token: deviceToken, title: title, body: body})
	return fmt.Sprintf("msg-%d", len(g.sent)), nil
}

func (g *fakeGateway) sendsTo(token string) int {
	n := 0
	for _, s := range g.sent {
		if s.token == token {
			n++
		}
	}
	return n
}
