package model

// CalendarMonth is one month of the shared calendar with recurring events
// already expanded. Days only holds days that have at least one event;
// JSON encodes the int keys as strings ("31": [...]).
type CalendarMonth struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	DaysInMonth int             `json:"daysInMonth"`
	Days        map[int][]Event `json:"days"`
}
