package handlers

import (
	"fmt"
	"time"
)

// truncateToDay обнуляет время, оставляя только календарный день.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseTimeOfDay разбирает строку вида "HH:MM" в часы и минуты.
func parseTimeOfDay(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// combineDateTime собирает полную метку времени из календарного дня и строки "HH:MM".
// Секунды и доли секунды всегда обнуляются.
func combineDateTime(day time.Time, clock string) (time.Time, error) {
	hour, minute, err := parseTimeOfDay(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

// daysInRange возвращает количество календарных дней в диапазоне [start, end]
// включительно. Время суток на границах игнорируется.
func daysInRange(start, end time.Time) int {
	s := truncateToDay(start)
	e := truncateToDay(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
