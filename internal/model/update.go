package model

// UPDATE STRUCTS:
// Each mutable entity has an explicit "what may change" struct. Every field is
// a pointer so the service can tell "not sent" (nil) from "sent as zero value"
// (e.g. completed: false). Anything not listed here cannot be changed through
// an update: ids, createdAt and a poem's author are fixed at creation.
//
// The handlers decode request bodies straight into these with
// DisallowUnknownFields, so a typo like {"complted": true} is a 400 instead
// of a silent no-op.

// BucketItemUpdate lists the editable fields of a BucketItem.
type BucketItemUpdate struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// EventUpdate lists the editable fields of an Event.
type EventUpdate struct {
	Title      *string     `json:"title"`
	Date       *string     `json:"date"`
	Recurrence *Recurrence `json:"recurrence"`
}

// MemoryUpdate lists the editable fields of a Memory. ImageURL is how a JSON
// client repoints a memory at an already-uploaded image; multipart clients
// send the file itself instead.
type MemoryUpdate struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ImageURL    *string  `json:"imageUrl"`
}

// PoemUpdate lists the editable fields of a Poem. There is no Author.
type PoemUpdate struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Language *Language `json:"language"`
}
