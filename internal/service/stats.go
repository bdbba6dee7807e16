package service

import (
	"time"

	"github.com/sakif/memories/internal/calendar"
)

// StatsService computes the home-screen counters from a fixed start date.
type StatsService struct {
	start time.Time
	now   func() time.Time
}

func NewStatsService(start time.Time) *StatsService {
	return &StatsService{start: start, now: time.Now}
}

// Stats returns the counters as of now.
func (s *StatsService) Stats() calendar.Stats {
	return calendar.StatsSince(s.start, s.now())
}
