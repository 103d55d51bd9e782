package scheduling

import (
	"fmt"
	"time"
)

// Calendar derives the valid slot grid for a working day. It is pure
// computation: no I/O, deterministic for a given wall clock input.
type Calendar struct {
	startMinutes int
	endMinutes   int
	slot         time.Duration
	workingDays  map[time.Weekday]bool
	holidays     map[string]struct{}
	location     *time.Location
}

// NewCalendar builds a calendar from HH:MM working hours, a slot granularity
// in minutes, working weekday abbreviations (Mon..Sun) and YYYY-MM-DD
// facility holidays.
func NewCalendar(start, end string, slotMinutes int, workingDays []string, holidays []string, tz string) (*Calendar, error) {
	loc := time.UTC
	if tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("scheduling: load facility tz: %w", err)
		}
	}
	startMin, err := parseClock(start)
	if err != nil {
		return nil, fmt.Errorf("scheduling: parse working hours start: %w", err)
	}
	endMin, err := parseClock(end)
	if err != nil {
		return nil, fmt.Errorf("scheduling: parse working hours end: %w", err)
	}
	if endMin <= startMin {
		return nil, fmt.Errorf("scheduling: working hours end %s not after start %s", end, start)
	}
	if slotMinutes <= 0 || (endMin-startMin)%slotMinutes != 0 {
		return nil, fmt.Errorf("scheduling: slot granularity %dm does not divide working window", slotMinutes)
	}

	days := map[time.Weekday]bool{}
	for _, d := range workingDays {
		wd, err := parseWeekday(d)
		if err != nil {
			return nil, err
		}
		days[wd] = true
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("scheduling: at least one working day required")
	}

	hol := map[string]struct{}{}
	for _, h := range holidays {
		if _, err := time.ParseInLocation("2006-01-02", h, loc); err != nil {
			return nil, fmt.Errorf("scheduling: parse holiday %q: %w", h, err)
		}
		hol[h] = struct{}{}
	}

	return &Calendar{
		startMinutes: startMin,
		endMinutes:   endMin,
		slot:         time.Duration(slotMinutes) * time.Minute,
		workingDays:  days,
		holidays:     hol,
		location:     loc,
	}, nil
}

func parseClock(v string) (int, error) {
	if v == "" {
		return 0, fmt.Errorf("empty clock")
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func parseWeekday(v string) (time.Weekday, error) {
	switch v {
	case "Sun", "Sunday":
		return time.Sunday, nil
	case "Mon", "Monday":
		return time.Monday, nil
	case "Tue", "Tuesday":
		return time.Tuesday, nil
	case "Wed", "Wednesday":
		return time.Wednesday, nil
	case "Thu", "Thursday":
		return time.Thursday, nil
	case "Fri", "Friday":
		return time.Friday, nil
	case "Sat", "Saturday":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("scheduling: unknown weekday %q", v)
}

// Location returns the facility time zone.
func (c *Calendar) Location() *time.Location {
	return c.location
}

// SlotDuration returns the grid granularity.
func (c *Calendar) SlotDuration() time.Duration {
	return c.slot
}

// WorkingDay reports whether the date (in facility time) accepts bookings.
func (c *Calendar) WorkingDay(t time.Time) bool {
	local := t.In(c.location)
	if !c.workingDays[local.Weekday()] {
		return false
	}
	_, holiday := c.holidays[local.Format("2006-01-02")]
	return !holiday
}

// SlotsForDay enumerates the ordered slot start times for the given date.
// Returns nil for non-working days.
func (c *Calendar) SlotsForDay(date time.Time) []time.Time {
	if !c.WorkingDay(date) {
		return nil
	}
	local := date.In(c.location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.location)

	var slots []time.Time
	for m := c.startMinutes; m+int(c.slot.Minutes()) <= c.endMinutes; m += int(c.slot.Minutes()) {
		slots = append(slots, midnight.Add(time.Duration(m)*time.Minute))
	}
	return slots
}

// ValidSlot reports whether t is an admissible appointment start: aligned to
// the grid, inside working hours, on a working non-holiday day.
func (c *Calendar) ValidSlot(t time.Time) bool {
	local := t.In(c.location)
	if local.Second() != 0 || local.Nanosecond() != 0 {
		return false
	}
	if !c.WorkingDay(local) {
		return false
	}
	minutes := local.Hour()*60 + local.Minute()
	if minutes < c.startMinutes || minutes+int(c.slot.Minutes()) > c.endMinutes {
		return false
	}
	return (minutes-c.startMinutes)%int(c.slot.Minutes()) == 0
}

// SlotsBetween enumerates all slots in [from, to), skipping any strictly
// before from. Used by the gap search over the horizon.
func (c *Calendar) SlotsBetween(from, to time.Time) []time.Time {
	var slots []time.Time
	day := from.In(c.location)
	for day.Before(to) {
		for _, s := range c.SlotsForDay(day) {
			if !s.Before(from) && s.Before(to) {
				slots = append(slots, s)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return slots
}
