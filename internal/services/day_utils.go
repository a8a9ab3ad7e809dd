package services

import "time"

// Calendar days are midnight values in the location the day belongs to.

// DateAtLocation returns the calendar day of value as seen in location, UTC when nil.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return dateOnly(value.In(location))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// daysBetween counts whole calendar days from one date to another, ignoring
// clock time and DST shifts.
func daysBetween(from time.Time, to time.Time) int {
	fromY, fromM, fromD := from.Date()
	toY, toM, toD := to.Date()
	a := time.Date(fromY, fromM, fromD, 0, 0, 0, 0, time.UTC)
	b := time.Date(toY, toM, toD, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
