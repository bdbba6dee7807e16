package calendar

import "time"

// Stats are the counters shown on the home screen.
type Stats struct {
	Since   string `json:"since"`
	Days    int    `json:"days"`
	Sunsets int    `json:"sunsets"`
	Months  int    `json:"months"`
	Hours   int    `json:"hours"`
}

// StatsSince computes the counters between start and now.
//
// Days and hours are whole elapsed units. Months counts calendar month
// boundaries crossed, ignoring the day of month, so Oct 16 → Nov 1 is one
// month. A now before start yields all zeros.
func StatsSince(start, now time.Time) Stats {
	s := Stats{Since: start.Format("2006-01-02")}
	now = now.In(start.Location())
	if now.Before(start) {
		return s
	}

	diff := now.Sub(start)
	s.Days = int(diff / (24 * time.Hour))
	s.Sunsets = s.Days
	s.Hours = int(diff / time.Hour)
	s.Months = (now.Year()-start.Year())*12 + int(now.Month()-start.Month())
	return s
}
