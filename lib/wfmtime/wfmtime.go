package wfmtime

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"wfm-shifts-connector/models"
)

// Layouts used on the WFM wire: dates as "1/02/2006", wall-clock times as
// "3:04 PM".
const (
	DateLayout  = "1/02/2006"
	ClockLayout = "3:04 PM"
	stampLayout = "1/02/2006 15:04:05"
)

// Normalizer converts between WFM-local wall-clock values and UTC instants
// for the time zone the WFM tenant is configured in.
type Normalizer struct {
	loc *time.Location
}

func New(timeZone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown WFM time zone %q", timeZone)
	}
	return &Normalizer{loc: loc}, nil
}

// ToUTC parses a WFM-local date (and, for hour-based durations, a clock
// value) into a UTC instant. Half-day periods anchor at noon, full-day
// periods at midnight.
func (n *Normalizer) ToUTC(date, clock string, kind models.DurationKind) (time.Time, error) {
	var (
		local time.Time
		err   error
	)
	switch kind {
	case models.DurationHours:
		local, err = time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, n.loc)
	case models.DurationHalfDay:
		local, err = time.ParseInLocation(DateLayout+" "+ClockLayout, date+" 12:00 PM", n.loc)
	case models.DurationFullDay:
		local, err = time.ParseInLocation(DateLayout, date, n.loc)
	default:
		return time.Time{}, errors.Errorf("unknown duration kind %d", kind)
	}
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid WFM date/time %q %q", date, clock)
	}
	return local.UTC(), nil
}

// ToLocal renders a UTC instant in the WFM zone.
func (n *Normalizer) ToLocal(t time.Time) time.Time {
	return t.In(n.loc)
}

// ToLocalParts splits a UTC instant back into the wire date and clock
// values. ToLocalParts(ToUTC(d, c, DurationHours)) == (d, c) for every
// wall-clock value outside a DST transition gap.
func (n *Normalizer) ToLocalParts(t time.Time) (date, clock string) {
	local := t.In(n.loc)
	return local.Format(DateLayout), local.Format(ClockLayout)
}

// Stamp renders a UTC instant as the canonical local timestamp used in
// identity hashes.
func (n *Normalizer) Stamp(t time.Time) string {
	return t.In(n.loc).Format(stampLayout)
}

// MonthPartition is the calendar bucket a mapping row is filed under.
func MonthPartition(t time.Time) string {
	return fmt.Sprintf("%d_%d", int(t.Month()), t.Year())
}

// MonthPartitions lists the "{month}_{year}" buckets covered by the given
// local date span, inclusive.
func MonthPartitions(startDate, endDate string) ([]string, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid start date %q", startDate)
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid end date %q", endDate)
	}
	if end.Before(start) {
		return nil, errors.Errorf("end date %q before start date %q", endDate, startDate)
	}

	var result []string
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		result = append(result, MonthPartition(cursor))
		cursor = cursor.AddDate(0, 1, 0)
	}
	return result, nil
}

// FirstDayInMonth returns the wire-format date of the partition's first day.
func FirstDayInMonth(partition string) (string, error) {
	t, err := parsePartition(partition)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// LastDayInMonth returns the wire-format date of the partition's last day.
func LastDayInMonth(partition string) (string, error) {
	t, err := parsePartition(partition)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 1, -1).Format(DateLayout), nil
}

func parsePartition(partition string) (time.Time, error) {
	var month, year int
	if _, err := fmt.Sscanf(partition, "%d_%d", &month, &year); err != nil || month < 1 || month > 12 {
		return time.Time{}, errors.Errorf("invalid month partition %q", partition)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}
