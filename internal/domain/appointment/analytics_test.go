package appointment

import (
	"reflect"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got == nil {
		t.Fatal("Summarize(nil) returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("Summarize(nil) = %v, want empty", got)
	}
}

func TestSummarize(t *testing.T) {
	appts := []*Appointment{
		{Date: day(2026, 3, 2), Status: StatusConfirmed},
		{Date: day(2026, 3, 1), Status: StatusPending},
		{Date: day(2026, 3, 1), Status: StatusPending},
		{Date: day(2026, 3, 1), Status: StatusCancelled},
		{Date: day(2026, 3, 2), Status: StatusCompleted},
		{Date: day(2026, 3, 2), Status: StatusConfirmed},
	}

	got := Summarize(appts)
	want := []DailySummary{
		{
			Day: "2026-03-01",
			Statuses: []StatusCount{
				{Status: StatusPending, Count: 2},
				{Status: StatusCancelled, Count: 1},
			},
		},
		{
			Day: "2026-03-02",
			Statuses: []StatusCount{
				{Status: StatusConfirmed, Count: 2},
				{Status: StatusCompleted, Count: 1},
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestSummarizeCountsAddUp(t *testing.T) {
	appts := []*Appointment{
		{Date: day(2026, 5, 10), Status: StatusPending},
		{Date: day(2026, 5, 11), Status: StatusConfirmed},
		{Date: day(2026, 5, 12), Status: StatusCompleted},
		{Date: day(2026, 5, 10), Status: StatusCancelled},
		{Date: day(2026, 5, 11), Status: StatusConfirmed},
	}

	total := 0
	for _, s := range Summarize(appts) {
		for _, sc := range s.Statuses {
			total += sc.Count
		}
	}
	if total != len(appts) {
		t.Errorf("summary counts sum to %d, want %d", total, len(appts))
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	a := &Appointment{Date: day(2026, 1, 1), Status: StatusPending}
	Summarize([]*Appointment{a})
	if a.Status != StatusPending || !a.Date.Equal(day(2026, 1, 1)) {
		t.Error("input mutated")
	}
}
