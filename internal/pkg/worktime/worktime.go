// Package worktime holds the attendance arithmetic shared by reports and exports.
package worktime

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultWorkingHours   = 8
	DefaultWorkingMinutes = DefaultWorkingHours * 60
	DefaultWorkStartTime  = "09:00"
	DefaultWorkEndTime    = "17:00"

	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

// Status labels used by the staff log.
const (
	StatusOnTime       = "On Time"
	StatusLateArrival  = "Late Arrival"
	StatusUnderHours   = "Under Hours"
	StatusLateAndUnder = "Late & Under Hours"
	LabelNoEntry       = "No Entry"
	LabelComplete      = "Complete"
)

const (
	minutesPerHour      = 60
	minorLeakMinutes    = 1 * minutesPerHour
	moderateLeakMinutes = 2 * minutesPerHour
)

type Band string

const (
	BandNoEntry  Band = "no_entry"
	BandComplete Band = "complete"
	BandMinor    Band = "minor"
	BandModerate Band = "moderate"
	BandSevere   Band = "severe"
)

// Color returns the highlight used for the band in exports.
func (b Band) Color() string {
	switch b {
	case BandComplete:
		return "green"
	case BandMinor:
		return "yellow"
	case BandModerate:
		return "orange"
	case BandSevere:
		return "red"
	default:
		return "gray"
	}
}

// AttendanceMinutes returns whole minutes between entry and exit.
// Missing timestamps and exits before the entry yield 0.
func AttendanceMinutes(entry, exit *time.Time) int {
	if entry == nil || exit == nil {
		return 0
	}
	d := exit.Sub(*entry)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

func LeakMinutes(workingMinutes, attendanceMinutes int) int {
	if leak := workingMinutes - attendanceMinutes; leak > 0 {
		return leak
	}
	return 0
}

// FormatMinutes renders minutes as H:MM.
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", minutes/minutesPerHour, minutes%minutesPerHour)
}

// ParseClock parses an HH:MM wall clock value and returns seconds since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(ClockLayout, NormalizeClock(value))
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	return t.Hour()*3600 + t.Minute()*60, nil
}

// NormalizeClock strips surrounding whitespace and JSON quotes from stored clock values.
func NormalizeClock(value string) string {
	return strings.Trim(strings.TrimSpace(value), `"`)
}

// IsLateArrival reports whether the entry's HH:MM is strictly after workStart.
// Seconds are dropped, so 09:00:59 is still on time for a 09:00 start.
// An unparsable workStart never marks an entry as late.
func IsLateArrival(entry time.Time, workStart string) bool {
	start, err := ParseClock(workStart)
	if err != nil {
		return false
	}
	return entry.Hour()*3600+entry.Minute()*60 > start
}

func Status(late bool, leakMinutes int) string {
	under := leakMinutes > 0
	switch {
	case late && under:
		return StatusLateAndUnder
	case late:
		return StatusLateArrival
	case under:
		return StatusUnderHours
	default:
		return StatusOnTime
	}
}

// LeakBand classifies a day for the monthly view and returns its label.
func LeakBand(attendanceMinutes, workingMinutes int) (Band, string) {
	if attendanceMinutes == 0 {
		return BandNoEntry, LabelNoEntry
	}
	leak := LeakMinutes(workingMinutes, attendanceMinutes)
	switch {
	case leak == 0:
		return BandComplete, LabelComplete
	case leak <= minorLeakMinutes:
		return BandMinor, FormatMinutes(leak)
	case leak <= moderateLeakMinutes:
		return BandModerate, FormatMinutes(leak)
	default:
		return BandSevere, FormatMinutes(leak)
	}
}

// DayBounds returns [start, end) of the calendar day containing t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ParseDate parses YYYY-MM-DD in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// MonthBounds returns [first day, first day of next month) for YYYY-MM in loc.
func MonthBounds(month string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return t, t.AddDate(0, 1, 0), nil
}

// DaysIn returns the number of days in the month of t.
func DaysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
