package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesInDay  = 24 * 60
	MinutesInWeek = 7 * MinutesInDay
)

// DaysOrder fixes Monday as minute zero of the weekly ring.
var DaysOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// DayIndex returns the 0-based position of a canonical weekday name,
// Monday = 0.
func DayIndex(day string) (int, error) {
	for i, d := range DaysOrder {
		if d == day {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown day of week %q", day)
}

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	minutes %= MinutesInDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// WeekOffset places a (day, "HH:MM") pair on the weekly ring as
// minutes since Monday 00:00.
func WeekOffset(day, clock string) (int, error) {
	idx, err := DayIndex(day)
	if err != nil {
		return 0, err
	}
	mins, err := ParseClock(clock)
	if err != nil {
		return 0, err
	}
	return idx*MinutesInDay + mins, nil
}

// InstantWeekOffset places an instant on the weekly ring using the
// given location for weekday and clock derivation.
func InstantWeekOffset(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	// time.Weekday counts Sunday as 0; the ring starts on Monday.
	dayIdx := (int(local.Weekday()) + 6) % 7
	return dayIdx*MinutesInDay + local.Hour()*60 + local.Minute()
}

// WeekdayName returns the canonical day name of an instant in loc.
func WeekdayName(t time.Time, loc *time.Location) string {
	return DaysOrder[(int(t.In(loc).Weekday())+6)%7]
}

// ClockMinutes returns minutes since midnight of an instant in loc.
func ClockMinutes(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// CircularWait is the non-negative minute distance from a current
// ring offset forward to a schedule's offset, modulo one week. Zero
// means due exactly now.
func CircularWait(scheduleOffset, currentOffset int) int {
	wait := (scheduleOffset - currentOffset) % MinutesInWeek
	if wait < 0 {
		wait += MinutesInWeek
	}
	return wait
}
