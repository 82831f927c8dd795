package engine

import "time"

// dayOf truncates a timestamp to its calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// daysBetween returns the whole calendar days from one date to another.
func daysBetween(from, to time.Time) int {
	return int(dayOf(to).Sub(dayOf(from)).Hours() / 24)
}

func sameMonth(a, b time.Time) bool {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return ay == by && am == bm
}

func daysInMonth(t time.Time) int {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// monthKey yields a sortable calendar-month identifier ("2026-03").
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// priorMonths returns the keys of the n calendar months preceding t, most
// recent first.
func priorMonths(t time.Time, n int) []string {
	keys := make([]string, 0, n)
	y, m, _ := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	for i := 1; i <= n; i++ {
		keys = append(keys, monthKey(first.AddDate(0, -i, 0)))
	}
	return keys
}
