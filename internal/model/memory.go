package model

// Memory is a pinned moment on the map/timeline.
//
// Every Memory owns exactly one image blob. ImageURL is the public address of
// that blob; the service layer keeps the blob and the row in step (see
// service.MemoryService).
type Memory struct {
	ID          string  `json:"id"          db:"id"`
	Title       string  `json:"title"       db:"title"`
	Description string  `json:"description" db:"description"`
	Date        string  `json:"date"        db:"date"`
	Latitude    float64 `json:"latitude"    db:"latitude"`
	Longitude   float64 `json:"longitude"   db:"longitude"`
	ImageURL    string  `json:"imageUrl"    db:"image_url"`
}
