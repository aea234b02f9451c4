package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/SoarAway/donki-wonki/logger"
	"github.com/SoarAway/donki-wonki/models"
	"github.com/SoarAway/donki-wonki/utils"
)

// travel time estimate: two minutes per station plus a boarding buffer
const (
	minutesPerStation = 2
	arrivalBufferMins = 10
)

type RouteService struct {
	store ScheduleStore
	loc   *time.Location
}

func NewRouteService(store ScheduleStore, loc *time.Location) *RouteService {
	return &RouteService{store: store, loc: loc}
}

// FlatRoute is the listing shape the app consumes: route fields plus
// the ordered unique day list and the first schedule's time window.
type FlatRoute struct {
	ID                  string   `json:"id"`
	DepartingLocation   string   `json:"departing_location"`
	DestinationLocation string   `json:"destination_location"`
	DepartingStation    string   `json:"departing_station"`
	DestinationStation  string   `json:"destination_station"`
	Description         string   `json:"description"`
	DaysOfWeek          []string `json:"day_of_week"`
	TimeFrom            string   `json:"time_from,omitempty"`
	TimeTo              string   `json:"time_to,omitempty"`
}

// UpcomingRoute is the flattened route+schedule pair returned by the
// next-occurrence query.
type UpcomingRoute struct {
	RouteID             string `json:"route_id"`
	ScheduleID          string `json:"schedule_id"`
	DepartingLocation   string `json:"departing_location"`
	DestinationLocation string `json:"destination_location"`
	DepartingStation    string `json:"departing_station"`
	DestinationStation  string `json:"destination_station"`
	Description         string `json:"description"`
	DayOfWeek           string `json:"day_of_week"`
	TimeFrom            string `json:"time_from"`
	TimeTo              string `json:"time_to"`
	WaitMinutes         int    `json:"wait_minutes"`
}

// SaveOrUpdateRoute upserts a route by its logical key and attaches
// one schedule per requested day. dayOfWeek accepts a comma-separated
// list ("Monday, Wednesday"); time_to is derived from the station
// distance.
func (s *RouteService) SaveOrUpdateRoute(email, departingLocation, destinationLocation, dayOfWeek, timeFrom, departingStation, destinationStation, description string) (string, error) {
	dep, err := utils.ParseStationCode(departingStation)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	dest, err := utils.ParseStationCode(destinationStation)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := utils.ParseClock(timeFrom); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	days := splitDays(dayOfWeek)
	if len(days) == 0 {
		return "", fmt.Errorf("%w: at least one day of week is required", ErrInvalidInput)
	}
	for _, day := range days {
		if _, err := utils.DayIndex(day); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	user, err := s.store.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}

	route := &models.Route{
		UserID:              user.ID,
		DepartingLocation:   departingLocation,
		DestinationLocation: destinationLocation,
		DepartingStation:    dep.String(),
		DestinationStation:  dest.String(),
		Description:         description,
	}
	routeID, err := s.store.UpsertRoute(route)
	if err != nil {
		return "", err
	}

	timeTo := estimateTimeTo(timeFrom, dep, dest)
	for _, day := range days {
		_, err := s.store.UpsertSchedule(&models.Schedule{
			RouteID:   routeID,
			DayOfWeek: day,
			TimeFrom:  timeFrom,
			TimeTo:    timeTo,
		})
		if err != nil {
			return "", err
		}
	}
	return routeID, nil
}

// AddSchedule attaches a window to an existing route; adding an
// existing (day, time_from) slot is a no-op.
func (s *RouteService) AddSchedule(userID, routeID, dayOfWeek, timeFrom, timeTo string) (string, error) {
	if _, err := utils.DayIndex(dayOfWeek); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	from, err := utils.ParseClock(timeFrom)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	to, err := utils.ParseClock(timeTo)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if from > to {
		return "", fmt.Errorf("%w: time_from must not be after time_to", ErrInvalidInput)
	}

	if _, err := s.store.GetRoute(userID, routeID); err != nil {
		return "", err
	}
	return s.store.UpsertSchedule(&models.Schedule{
		RouteID:   routeID,
		DayOfWeek: dayOfWeek,
		TimeFrom:  timeFrom,
		TimeTo:    timeTo,
	})
}

// RoutesWithSchedules returns the raw nested shape for a user id.
func (s *RouteService) RoutesWithSchedules(userID string) ([]models.Route, error) {
	routes, err := s.store.GetRoutes(userID)
	if err != nil {
		return nil, err
	}
	for i := range routes {
		schedules, err := s.store.GetSchedules(routes[i].ID)
		if err != nil {
			return nil, err
		}
		routes[i].Schedules = schedules
	}
	return routes, nil
}

// RoutesByEmail returns the flattened listing shape.
func (s *RouteService) RoutesByEmail(email string) ([]FlatRoute, error) {
	user, err := s.store.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	routes, err := s.RoutesWithSchedules(user.ID)
	if err != nil {
		return nil, err
	}

	flat := make([]FlatRoute, 0, len(routes))
	for _, route := range routes {
		flat = append(flat, flattenRoute(route))
	}
	return flat, nil
}

func (s *RouteService) DeleteRoute(email, routeID string) error {
	user, err := s.store.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	return s.store.DeleteRoute(user.ID, routeID)
}

// NextUpcomingRoute resolves the nearest future (or due-now)
// occurrence across all of the user's weekly schedules. A nil result
// with nil error means nothing is scheduled.
func (s *RouteService) NextUpcomingRoute(email string, timestamp int64) (*UpcomingRoute, error) {
	user, err := s.store.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	routes, err := s.RoutesWithSchedules(user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Unix(timestamp, 0)
	return resolveNextOccurrence(now, s.loc, routes), nil
}

// resolveNextOccurrence is the pure mod-week resolver. Every schedule
// is placed on the Monday-00:00 ring; the candidate with the minimum
// circular wait wins, zero wait meaning due exactly now. Ties break
// lexicographically by (route id, schedule id). Unparsable schedules
// are skipped one by one.
func resolveNextOccurrence(now time.Time, loc *time.Location, routes []models.Route) *UpcomingRoute {
	currentOffset := utils.InstantWeekOffset(now, loc)

	var best *UpcomingRoute
	bestWait := utils.MinutesInWeek
	for _, route := range routes {
		for _, schedule := range route.Schedules {
			scheduleOffset, err := utils.WeekOffset(schedule.DayOfWeek, schedule.TimeFrom)
			if err != nil {
				logger.Warn().Err(err).
					Str("schedule_id", schedule.ID).
					Msg("skipping unparsable schedule")
				continue
			}
			wait := utils.CircularWait(scheduleOffset, currentOffset)
			if best != nil && wait > bestWait {
				continue
			}
			if best != nil && wait == bestWait && !beatsTie(route.ID, schedule.ID, best) {
				continue
			}
			best = &UpcomingRoute{
				RouteID:             route.ID,
				ScheduleID:          schedule.ID,
				DepartingLocation:   route.DepartingLocation,
				DestinationLocation: route.DestinationLocation,
				DepartingStation:    route.DepartingStation,
				DestinationStation:  route.DestinationStation,
				Description:         route.Description,
				DayOfWeek:           schedule.DayOfWeek,
				TimeFrom:            schedule.TimeFrom,
				TimeTo:              schedule.TimeTo,
				WaitMinutes:         wait,
			}
			bestWait = wait
		}
	}
	return best
}

func beatsTie(routeID, scheduleID string, current *UpcomingRoute) bool {
	if routeID != current.RouteID {
		return routeID < current.RouteID
	}
	return scheduleID < current.ScheduleID
}

// estimateTimeTo derives an arrival estimate from the ordinal
// distance between the two stations.
func estimateTimeTo(timeFrom string, departing, destination utils.StationCode) string {
	start, err := utils.ParseClock(timeFrom)
	if err != nil {
		return timeFrom
	}
	distance := departing.Ordinal - destination.Ordinal
	if distance < 0 {
		distance = -distance
	}
	return utils.FormatClock(start + distance*minutesPerStation + arrivalBufferMins)
}

func flattenRoute(route models.Route) FlatRoute {
	flat := FlatRoute{
		ID:                  route.ID,
		DepartingLocation:   route.DepartingLocation,
		DestinationLocation: route.DestinationLocation,
		DepartingStation:    route.DepartingStation,
		DestinationStation:  route.DestinationStation,
		Description:         route.Description,
		DaysOfWeek:          []string{},
	}
	if len(route.Schedules) == 0 {
		return flat
	}

	seen := make(map[string]bool)
	for _, schedule := range route.Schedules {
		seen[schedule.DayOfWeek] = true
	}
	for _, day := range utils.DaysOrder {
		if seen[day] {
			flat.DaysOfWeek = append(flat.DaysOfWeek, day)
		}
	}
	flat.TimeFrom = route.Schedules[0].TimeFrom
	flat.TimeTo = route.Schedules[0].TimeTo
	return flat
}

func splitDays(dayOfWeek string) []string {
	var days []string
	for _, day := range strings.Split(dayOfWeek, ",") {
		if day = strings.TrimSpace(day); day != "" {
			days = append(days, day)
		}
	}
	return days
}
