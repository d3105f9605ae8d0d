package report

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/worktime"
)

const timeLayout = "15:04:05"

// dayActivity collects one employee's records for one calendar day.
type dayActivity struct {
	date       string
	firstEntry *attendance.Record
	lastExit   *attendance.Record
	records    []attendance.Record
}

// add keeps the earliest entry and the latest exit. Records must already be in the report zone.
func (d *dayActivity) add(r attendance.Record) {
	d.records = append(d.records, r)
	switch r.EntryType {
	case attendance.EntryTypeEntry:
		if d.firstEntry == nil || r.Timestamp.Before(d.firstEntry.Timestamp) {
			rec := r
			d.firstEntry = &rec
		}
	case attendance.EntryTypeExit:
		if d.lastExit == nil || r.Timestamp.After(d.lastExit.Timestamp) {
			rec := r
			d.lastExit = &rec
		}
	}
}

func (d *dayActivity) entryTime() *time.Time {
	if d == nil || d.firstEntry == nil {
		return nil
	}
	t := d.firstEntry.Timestamp
	return &t
}

func (d *dayActivity) exitTime() *time.Time {
	if d == nil || d.lastExit == nil {
		return nil
	}
	t := d.lastExit.Timestamp
	return &t
}

func (d *dayActivity) entrySnapshot() *string {
	if d == nil || d.firstEntry == nil {
		return nil
	}
	return d.firstEntry.SnapshotURL
}

func (d *dayActivity) exitSnapshot() *string {
	if d == nil || d.lastExit == nil {
		return nil
	}
	return d.lastExit.SnapshotURL
}

func (d *dayActivity) attendanceMinutes() int {
	return worktime.AttendanceMinutes(d.entryTime(), d.exitTime())
}

func (d *dayActivity) isLate(workStart string) bool {
	entry := d.entryTime()
	if entry == nil {
		return false
	}
	return worktime.IsLateArrival(*entry, workStart)
}

// groupByEmployee assumes every record falls on the same day.
func groupByEmployee(records []attendance.Record, loc *time.Location) map[string]*dayActivity {
	days := make(map[string]*dayActivity)
	for _, r := range records {
		r.Timestamp = r.Timestamp.In(loc)
		day, ok := days[r.EmployeeID]
		if !ok {
			day = &dayActivity{date: r.Timestamp.Format(worktime.DateLayout)}
			days[r.EmployeeID] = day
		}
		day.add(r)
	}
	return days
}

func groupByDate(records []attendance.Record, loc *time.Location) map[string]*dayActivity {
	days := make(map[string]*dayActivity)
	for _, r := range records {
		r.Timestamp = r.Timestamp.In(loc)
		date := r.Timestamp.Format(worktime.DateLayout)
		day, ok := days[date]
		if !ok {
			day = &dayActivity{date: date}
			days[date] = day
		}
		day.add(r)
	}
	return days
}

// sortedDates returns the keys newest first.
func sortedDates(days map[string]*dayActivity) []string {
	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
