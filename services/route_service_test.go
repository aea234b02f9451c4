package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoarAway/donki-wonki/models"
	"github.com/SoarAway/donki-wonki/utils"
)

// 2025-01-06 is a Monday; 2025-01-09 a Thursday.
var (
	monday0800   = time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	thursday2300 = time.Date(2025, 1, 9, 23, 0, 0, 0, time.UTC)
)

func newRouteService(store *fakeStore) *RouteService {
	return NewRouteService(store, time.UTC)
}

func TestNextUpcomingRouteDueNow(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1", "rider@example.com", "token-1")
	store.addRoute("u1", "r1", "KJ1", "KJ14")
	store.addSchedule("r1", "s1", "Monday", "08:00", "09:30")

	svc := newRouteService(store)
	route, err := svc.NextUpcomingRoute("rider@example.com", monday0800.Unix())
	require.NoError(t, err)
	require.NotNil(t, route)

	assert.Equal(t, "r1", route.RouteID)
	assert.Equal(t, "s1", route.ScheduleID)
	assert.Equal(t, "Monday", route.DayOfWeek)
	assert.Equal(t, "08:00", route.TimeFrom)
	assert.Equal(t, 0, route.WaitMinutes, "a schedule due exactly now is never pushed a week out")
}

func TestNextUpcomingRouteWrapsAroundWeek(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1", "rider@example.com", "token-1")
	store.addRoute("u1", "r1", "KJ1", "KJ14")
	store.addSchedule("r1", "s1", "Monday", "08:00", "09:30")

	svc := newRouteService(store)
	route, err := svc.NextUpcomingRoute("rider@example.com", thursday2300.Unix())
	require.NoError(t, err)
	require.NotNil(t, route)

	assert.Equal(t, "Monday", route.DayOfWeek)
	assert.Equal(t, "08:00", route.TimeFrom)

	// Thursday 23:00 -> next Monday 08:00
	expected := utils.MinutesInWeek - (3*utils.MinutesInDay + 23*60 - 8*60)
	assert.Equal(t, expected, route.WaitMinutes)
}

func TestNextUpcomingRoutePicksMinimumWait(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1", "rider@example.com", "token-1")
	store.addRoute("u1", "r1", "KJ1", "KJ14")
	store.addSchedule("r1", "s1", "Monday", "07:00", "08:00") // just missed
	store.addSchedule("r1", "s2", "Monday", "18:00", "19:00") // tonight
	store.addRoute("u1", "r2", "KJ5", "KJ9")
	store.addSchedule("r2", "s3", "Wednesday", "08:00", "09:00")

	svc := newRouteService(store)
	route, err := svc.NextUpcomingRoute("rider@example.com", monday0800.Add(30*time.Minute).Unix())
	require.NoError(t, err)
	require.NotNil(t, route)

	assert.Equal(t, "s2", route.ScheduleID)
	assert.Equal(t, 9*60+30, route.WaitMinutes)
}

func TestResolveNextOccurrenceWaitAlwaysInRange(t *testing.T) {
	routes := []models.Route{
		{ID: "r1", Schedules: []models.Schedule{
			{ID: "s1", DayOfWeek: "Monday", TimeFrom: "08:00"},
			{ID: "s2", DayOfWeek: "Sunday", TimeFrom: "23:59"},
			{ID: "s3", DayOfWeek: "Thursday", TimeFrom: "00:00"},
		}},
	}

	instants := []time.Time{
		monday0800,
		thursday2300,
		time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),    // Sunday midnight
		time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC), // Sunday 23:59
	}
	for _, now := range instants {
		got := resolveNextOccurrence(now, time.UTC, routes)
		require.NotNil(t, got)
		assert.GreaterOrEqual(t, got.WaitMinutes, 0)
		assert.Less(t, got.WaitMinutes, utils.MinutesInWeek)
	}
}

func TestResolveNextOccurrenceTieBreak(t *testing.T) {
	// both schedules fire Monday 09:00: tie resolves lexicographically
	// by route id, then schedule id
	routes := []models.Route{
		{ID: "r2", Schedules: []models.Schedule{
			{ID: "s1", DayOfWeek: "Monday", TimeFrom: "09:00"},
		}},
		{ID: "r1", Schedules: []models.Schedule{
			{ID: "s9", DayOfWeek: "Monday", TimeFrom: "09:00"},
			{ID: "s2", DayOfWeek: "Monday", TimeFrom: "09:00"},
		}},
	}

	got := resolveNextOccurrence(monday0800, time.UTC, routes)
	require.NotNil(t, got)
	assert.Equal(t, "r1", got.RouteID)
	assert.Equal(t, "s2", got.ScheduleID)
}

func TestResolveNextOccurrenceSkipsMalformedSchedules(t *testing.T) {
	routes := []models.Route{
		{ID: "r1", Schedules: []models.Schedule{
			{ID: "s1", DayOfWeek: "Noday", TimeFrom: "08:00"},
			{ID: "s2", DayOfWeek: "Monday", TimeFrom: "bad"},
			{ID: "s3", DayOfWeek: "Tuesday", TimeFrom: "10:00"},
		}},
	}

	got := resolveNextOccurrence(monday0800, time.UTC, routes)
	require.NotNil(t, got)
	assert.Equal(t, "s3", got.ScheduleID)

	// nothing parses -> no match, not an error
	routes[0].Schedules = routes[0].Schedules[:2]
	assert.Nil(t, resolveNextOccurrence(monday0800, time.UTC, routes))
}

func TestNextUpcomingRouteEmptyAndUnknown(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1", "rider@example.com", "token-1")

	svc := newRouteService(store)
	route, err := svc.NextUpcomingRoute("rider@example.com", monday0800.Unix())
	require.NoError(t, err)
	assert.Nil(t, route)

	_, err = svc.NextUpcomingRoute("ghost@example.com", monday0800.Unix())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveOrUpdateRoute(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1", "rider@example.com", "token-1")
	svc := newRouteService(store)

	routeID, err := svc.SaveOrUpdateRoute("rider@example.com",
		"Home", "Office", "Monday, Wednesday", "08:00", "KJ1", "KJ14", "commute")
	require.NoError(t, err)
	require.NotEmpty(t, routeID)

	schedules, err := store.GetSchedules(routeID)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	// KJ1 -> KJ14: 13 stations x 2 min + 10 min buffer
	assert.Equal(t, "08:36", schedules[0].TimeTo)

	// re-saving the same logical route is a no-op on the schedule set
	again, err := svc.SaveOrUpdateRoute("rider@example.com",
		"Home", "Office", "Monday, Wednesday", "08:00", "KJ1", "KJ14", "commute")
	require.NoError(t, err)
	assert.Equal(t, routeID, again)

	schedules, err = store.GetSchedules(routeID)
	require.NoError(t, err)
	assert.Len(t, schedules, 2)
}

func TestSaveOrUpdateRouteValidation(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1", "rider@example.com", "token-1")
	svc := newRouteService(store)

	_, err := svc.SaveOrUpdateRoute("rider@example.com", "a", "b", "Monday", "08:00", "bad", "KJ14", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SaveOrUpdateRoute("rider@example.com", "a", "b", "Noday", "08:00", "KJ1", "KJ14", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SaveOrUpdateRoute("rider@example.com", "a", "b", " , ", "08:00", "KJ1", "KJ14", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SaveOrUpdateRoute("rider@example.com", "a", "b", "Monday", "8am", "KJ1", "KJ14", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SaveOrUpdateRoute("ghost@example.com", "a", "b", "Monday", "08:00", "KJ1", "KJ14", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddSchedule(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1", "rider@example.com", "token-1")
	store.addRoute("u1", "r1", "KJ1", "KJ14")
	svc := newRouteService(store)

	id, err := svc.AddSchedule("u1", "r1", "Friday", "18:00", "19:00")
	require.NoError(t, err)

	// same slot again is a no-op returning the existing id
	dup, err := svc.AddSchedule("u1", "r1", "Friday", "18:00", "19:30")
	require.NoError(t, err)
	assert.Equal(t, id, dup)

	schedules, _ := store.GetSchedules("r1")
	assert.Len(t, schedules, 1)
	assert.Equal(t, "19:00", schedules[0].TimeTo)

	_, err = svc.AddSchedule("u1", "r1", "Friday", "19:00", "18:00")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddSchedule("u1", "missing", "Friday", "18:00", "19:00")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoutesByEmailFlattens(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1", "rider@example.com", "token-1")
	store.addRoute("u1", "r1", "KJ1", "KJ14")
	store.addSchedule("r1", "s1", "Wednesday", "08:00", "09:00")
	store.addSchedule("r1", "s2", "Monday", "08:00", "09:00")
	store.addSchedule("r1", "s3", "Monday", "18:00", "19:00")
	store.addRoute("u1", "r2", "KJ5", "KJ9")

	svc := newRouteService(store)
	flat, err := svc.RoutesByEmail("rider@example.com")
	require.NoError(t, err)
	require.Len(t, flat, 2)

	// unique days in week order, first schedule's window
	assert.Equal(t, []string{"Monday", "Wednesday"}, flat[0].DaysOfWeek)
	assert.Equal(t, "08:00", flat[0].TimeFrom)
	assert.Equal(t, "09:00", flat[0].TimeTo)

	// schedule-less route keeps an empty day list
	assert.Empty(t, flat[1].DaysOfWeek)
	assert.Empty(t, flat[1].TimeFrom)
}

func TestDeleteRoute(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1", "rider@example.com", "token-1")
	store.addRoute("u1", "r1", "KJ1", "KJ14")
	store.addSchedule("r1", "s1", "Monday", "08:00", "09:00")

	svc := newRouteService(store)
	require.NoError(t, svc.DeleteRoute("rider@example.com", "r1"))

	routes, _ := store.GetRoutes("u1")
	assert.Empty(t, routes)

	assert.ErrorIs(t, svc.DeleteRoute("rider@example.com", "r1"), ErrNotFound)
}
