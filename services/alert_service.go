package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/SoarAway/donki-wonki/logger"
	"github.com/SoarAway/donki-wonki/models"
	"github.com/SoarAway/donki-wonki/utils"
)

// AlertService owns the affected-user scan and the alert lifecycle.
// Send failures are never fatal: they are counted, logged and the
// alert is persisted regardless.
type AlertService struct {
	schedules ScheduleStore
	alerts    AlertStore
	gateway   NotificationGateway
	hub       *RealtimeHub
	loc       *time.Location
}

func NewAlertService(schedules ScheduleStore, alerts AlertStore, gateway NotificationGateway, hub *RealtimeHub, loc *time.Location) *AlertService {
	return &AlertService{
		schedules: schedules,
		alerts:    alerts,
		gateway:   gateway,
		hub:       hub,
		loc:       loc,
	}
}

// Candidate is one user's routes-with-schedules as seen by the pure
// matcher. The default loader is a full scan over the store; an
// indexed read model can produce the same shape.
type Candidate struct {
	Token  string
	Routes []models.Route
}

// userMatch carries the two station lists the contract distinguishes:
// the full accumulated union recorded on the alert, and the first
// matching route's stations quoted in the single notification body.
type userMatch struct {
	token           string
	stations        []string
	triggerStations []string
}

// NotifyAffectedUsers scans every user with a device token, sends at
// most one notification per user whose route covers an affected
// station during an active schedule window, and persists the Alert
// recording who was involved.
func (s *AlertService) NotifyAffectedUsers(affectedStations []string, line, incidentType, description, predictedTime string, now time.Time) (*models.Alert, error) {
	if len(affectedStations) == 0 {
		return nil, fmt.Errorf("%w: affected stations are required", ErrInvalidInput)
	}
	if predictedTime == "" {
		predictedTime = "TBD"
	}

	candidates, err := s.loadCandidates()
	if err != nil {
		return nil, err
	}

	day := utils.WeekdayName(now, s.loc)
	clock := utils.ClockMinutes(now, s.loc)
	matches := matchAffectedUsers(candidates, affectedStations, day, clock)

	attempted, failed := 0, 0
	for _, m := range matches {
		attempted++
		title := fmt.Sprintf("Alert: %s on %s", incidentType, line)
		body := fmt.Sprintf("Incident reported at %s: %s. This may affect your route.",
			strings.Join(m.triggerStations, ", "), description)
		if _, err := s.gateway.Send(m.token, title, body, map[string]string{
			"incident_type": incidentType,
			"line":          line,
		}); err != nil {
			failed++
			logger.Error().Err(err).Str("device_token", m.token).Msg("push send failed")
		}
	}
	if failed > 0 {
		logger.Warn().Int("attempted", attempted).Int("failed", failed).
			Msg("partial delivery failure while notifying affected users")
	}

	involved := models.Involvement{}
	for _, m := range matches {
		involved[m.token] = m.stations
	}

	alert := &models.Alert{
		AffectedStations: datatypes.NewJSONSlice(affectedStations),
		Line:             line,
		IncidentType:     incidentType,
		Description:      description,
		PredictedTime:    predictedTime,
		UserInvolved:     datatypes.NewJSONType(involved),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.alerts.CreateAlert(alert); err != nil {
		return nil, err
	}

	logger.Info().Str("alert_id", alert.ID).Int("users_notified", attempted-failed).
		Strs("affected_stations", affectedStations).Msg("alert created")
	s.broadcast(alert, "alert.created")
	return alert, nil
}

// loadCandidates is the full-population read path: every user with a
// device token, with routes and schedules attached.
func (s *AlertService) loadCandidates() ([]Candidate, error) {
	users, err := s.schedules.ListUsersWithDeviceToken()
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(users))
	for _, user := range users {
		routes, err := s.schedules.GetRoutes(user.ID)
		if err != nil {
			return nil, err
		}
		for i := range routes {
			schedules, err := s.schedules.GetSchedules(routes[i].ID)
			if err != nil {
				return nil, err
			}
			routes[i].Schedules = schedules
		}
		candidates = append(candidates, Candidate{Token: user.DeviceToken, Routes: routes})
	}
	return candidates, nil
}

// matchAffectedUsers is the pure scan-and-dedup core. Per user: a
// route only counts when it covers at least one affected station AND
// one of its schedules is active at (day, clock). The first matching
// route fixes the notification body; later matches only extend the
// accumulated station list. Malformed station codes or schedule
// fields skip that single item, never the whole pass.
func matchAffectedUsers(candidates []Candidate, affectedStations []string, day string, clockMinutes int) []userMatch {
	var matches []userMatch
	for _, candidate := range candidates {
		if candidate.Token == "" {
			continue
		}

		var accumulated []string
		seen := make(map[string]bool)
		var triggerStations []string

		for _, route := range candidate.Routes {
			matched := stationsInRange(route, affectedStations)
			if len(matched) == 0 {
				continue
			}
			for _, schedule := range route.Schedules {
				if !scheduleActive(schedule, day, clockMinutes) {
					continue
				}
				for _, station := range matched {
					if !seen[station] {
						seen[station] = true
						accumulated = append(accumulated, station)
					}
				}
				if triggerStations == nil {
					triggerStations = matched
				}
				break
			}
		}

		if len(accumulated) > 0 {
			matches = append(matches, userMatch{
				token:           candidate.Token,
				stations:        accumulated,
				triggerStations: triggerStations,
			})
		}
	}
	return matches
}

// stationsInRange filters the affected stations down to those inside
// the route's ordinal range, preserving input order.
func stationsInRange(route models.Route, affectedStations []string) []string {
	dep, err := utils.ParseStationCode(route.DepartingStation)
	if err != nil {
		logger.Warn().Err(err).Str("route_id", route.ID).Msg("skipping route with bad departing station")
		return nil
	}
	dest, err := utils.ParseStationCode(route.DestinationStation)
	if err != nil {
		logger.Warn().Err(err).Str("route_id", route.ID).Msg("skipping route with bad destination station")
		return nil
	}

	var matched []string
	for _, station := range affectedStations {
		target, err := utils.ParseStationCode(station)
		if err != nil {
			logger.Warn().Err(err).Str("station", station).Msg("skipping unparsable affected station")
			continue
		}
		if utils.StationInRange(dep, dest, target) {
			matched = append(matched, station)
		}
	}
	return matched
}

// scheduleActive tests day equality and clock containment, both
// day-scoped. Parse failures disable just this schedule.
func scheduleActive(schedule models.Schedule, day string, clockMinutes int) bool {
	if schedule.DayOfWeek != day {
		return false
	}
	from, err := utils.ParseClock(schedule.TimeFrom)
	if err != nil {
		logger.Warn().Err(err).Str("schedule_id", schedule.ID).Msg("skipping schedule with bad time_from")
		return false
	}
	to, err := utils.ParseClock(schedule.TimeTo)
	if err != nil {
		logger.Warn().Err(err).Str("schedule_id", schedule.ID).Msg("skipping schedule with bad time_to")
		return false
	}
	return from <= clockMinutes && clockMinutes <= to
}

// Trigger re-sends (title, body) to every device token recorded on
// the alert and returns the current snapshot.
func (s *AlertService) Trigger(alertID, title, body string) (*models.Alert, error) {
	alert, err := s.alerts.GetAlert(alertID)
	if err != nil {
		return nil, err
	}
	s.sendToInvolved(alert, title, body)
	return alert, nil
}

// PredictEndTime updates the free-form end-time label in place.
func (s *AlertService) PredictEndTime(alertID, newTime string) (*models.Alert, error) {
	alert, err := s.alerts.GetAlert(alertID)
	if err != nil {
		return nil, err
	}
	alert.PredictedTime = newTime
	if err := s.alerts.UpdateAlert(alert); err != nil {
		return nil, err
	}
	s.broadcast(alert, "alert.updated")
	return alert, nil
}

// ExtendAndTrigger re-notifies everyone on the source alert and
// records the extension as a brand-new Alert referencing it. The
// source record is never touched.
func (s *AlertService) ExtendAndTrigger(alertID, newTime, title, body string) (*models.Alert, error) {
	source, err := s.alerts.GetAlert(alertID)
	if err != nil {
		return nil, err
	}
	s.sendToInvolved(source, title, body)

	now := time.Now().In(s.loc)
	extended := &models.Alert{
		AffectedStations: source.AffectedStations,
		Line:             source.Line,
		IncidentType:     source.IncidentType,
		Description:      source.Description,
		PredictedTime:    newTime,
		UserInvolved:     source.UserInvolved,
		SourceAlertID:    &source.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.alerts.CreateAlert(extended); err != nil {
		return nil, err
	}

	logger.Info().Str("alert_id", extended.ID).Str("source_alert_id", source.ID).
		Str("predicted_time", newTime).Msg("alert extended")
	s.broadcast(extended, "alert.extended")
	return extended, nil
}

// End deletes the alert and returns the final snapshot so callers can
// show a closing state.
func (s *AlertService) End(alertID string) (*models.Alert, error) {
	alert, err := s.alerts.DeleteAlert(alertID)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("alert_id", alertID).Msg("alert ended")
	s.broadcast(alert, "alert.ended")
	return alert, nil
}

// RelatedAlerts lists alerts that involve the given device token.
func (s *AlertService) RelatedAlerts(deviceToken string) ([]models.Alert, error) {
	return s.alerts.ListAlertsByToken(deviceToken)
}

func (s *AlertService) sendToInvolved(alert *models.Alert, title, body string) {
	tokens := involvedTokens(alert)
	failed := 0
	for _, token := range tokens {
		if _, err := s.gateway.Send(token, title, body, map[string]string{"alert_id": alert.ID}); err != nil {
			failed++
			logger.Error().Err(err).Str("device_token", token).Str("alert_id", alert.ID).
				Msg("push send failed")
		}
	}
	if failed > 0 {
		logger.Warn().Int("attempted", len(tokens)).Int("failed", failed).
			Str("alert_id", alert.ID).Msg("partial delivery failure on alert trigger")
	}
}

func (s *AlertService) broadcast(alert *models.Alert, kind string) {
	if s.hub == nil {
		return
	}
	for _, token := range involvedTokens(alert) {
		s.hub.BroadcastAlert(token, map[string]any{"kind": kind, "alert": alert})
	}
}

func involvedTokens(alert *models.Alert) []string {
	involved := alert.UserInvolved.Data()
	tokens := make([]string, 0, len(involved))
	for token := range involved {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
