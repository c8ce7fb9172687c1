package payperiod

import (
	"fmt"
	"strings"
	"time"
)

// Period is the date range covered by one timecard export, usually two
// weeks. Start and End are inclusive calendar dates at midnight UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// Holiday is a recognized public holiday falling inside a period.
type Holiday struct {
	Date time.Time
	Name string
}

// Parse resolves a pay-period label of the form "STARTDATE-ENDDATE". Each
// side is either YYYYMMDD or a bare MMDD that borrows the year from the
// other side. Labels where neither side carries a year cannot be resolved.
func Parse(label string) (Period, error) {
	parts := strings.Split(strings.TrimSpace(label), "-")
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("period label %q: want STARTDATE-ENDDATE", label)
	}

	startRaw, endRaw := parts[0], parts[1]
	if len(startRaw) != 8 && len(endRaw) != 8 {
		return Period{}, fmt.Errorf("period label %q: neither side carries a year", label)
	}

	var startYear, endYear string
	switch {
	case len(startRaw) == 8 && len(endRaw) == 8:
		startYear, endYear = startRaw[:4], endRaw[:4]
	case len(startRaw) == 8:
		startYear = startRaw[:4]
		endYear = startYear
	default:
		endYear = endRaw[:4]
		startYear = endYear
	}

	start, err := time.Parse("20060102", startYear+lastFour(startRaw))
	if err != nil {
		return Period{}, fmt.Errorf("period label %q: invalid start date: %w", label, err)
	}
	end, err := time.Parse("20060102", endYear+lastFour(endRaw))
	if err != nil {
		return Period{}, fmt.Errorf("period label %q: invalid end date: %w", label, err)
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("period label %q: end before start", label)
	}
	return Period{Start: start, End: end}, nil
}

// Days returns the number of calendar days the period covers, inclusive.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// recognized is the fixed set of company-observed US holidays.
var recognized = []struct {
	name string
	date func(year int) time.Time
}{
	{"New Year's Day", func(y int) time.Time { return date(y, time.January, 1) }},
	{"Independence Day", func(y int) time.Time { return date(y, time.July, 4) }},
	{"Labor Day", func(y int) time.Time { return nthWeekday(y, time.September, time.Monday, 1) }},
	{"Thanksgiving", func(y int) time.Time { return nthWeekday(y, time.November, time.Thursday, 4) }},
	{"Christmas Day", func(y int) time.Time { return date(y, time.December, 25) }},
}

// HolidaysWithin returns the recognized holidays strictly inside the period,
// in calendar order. Endpoints are excluded, matching the review rule the
// payroll team has always applied to boundary days.
func HolidaysWithin(p Period) []Holiday {
	var out []Holiday
	for year := p.Start.Year(); year <= p.End.Year(); year++ {
		for _, r := range recognized {
			d := r.date(year)
			if d.After(p.Start) && d.Before(p.End) {
				out = append(out, Holiday{Date: d, Name: r.name})
			}
		}
	}
	return out
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// nthWeekday returns the n-th occurrence of a weekday in a month.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	d := date(year, month, 1)
	offset := (int(weekday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset+(n-1)*7)
}

func lastFour(s string) string {
	return s[len(s)-4:]
}
