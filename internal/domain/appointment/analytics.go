package appointment

import "sort"

type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

type DailySummary struct {
	Day      string        `json:"day"` // "YYYY-MM-DD"
	Statuses []StatusCount `json:"statuses"`
}

// statusOrder fixes the emission order of per-day counts so summaries are
// stable across runs.
var statusOrder = []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// Summarize groups appointments by calendar day and status. Days are sorted
// ascending; an empty input yields an empty (non-nil) slice. Pure function:
// the input is never mutated.
func Summarize(appts []*Appointment) []DailySummary {
	byDay := make(map[string]map[Status]int)
	for _, a := range appts {
		day := a.DayKey()
		if byDay[day] == nil {
			byDay[day] = make(map[Status]int)
		}
		byDay[day][a.Status]++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]DailySummary, 0, len(days))
	for _, day := range days {
		counts := byDay[day]
		summary := DailySummary{Day: day}
		for _, status := range statusOrder {
			if n := counts[status]; n > 0 {
				summary.Statuses = append(summary.Statuses, StatusCount{Status: status, Count: n})
			}
		}
		out = append(out, summary)
	}
	return out
}
