package weather

import "time"

// DayOption is one entry of the start-date picker.
type DayOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Today is the UTC calendar day containing now. Every default start date
// uses it; the provider resolves each location's own time zone.
func Today(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// DayOptions lists the seven selectable start dates beginning at Today(now).
func DayOptions(now time.Time) []DayOption {
	base := Today(now)

	out := make([]DayOption, 0, WindowDays)
	for i := 0; i < WindowDays; i++ {
		d := base.AddDate(0, 0, i)
		var label string
		switch i {
		case 0:
			label = "Today, " + d.Format("Jan 2")
		case 1:
			label = "Tomorrow, " + d.Format("Jan 2")
		default:
			label = d.Format("Monday, Jan 2")
		}
		out = append(out, DayOption{Value: d.Format(DateLayout), Label: label})
	}
	return out
}

// ParseStartDate parses a YYYY-MM-DD start date as a UTC day. An empty
// string means Today(now).
func ParseStartDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return Today(now), nil
	}
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
