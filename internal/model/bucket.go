package model

import "time"

// BucketItem is one entry of the shared bucket list.
type BucketItem struct {
	ID        string    `json:"id"        db:"id"`
	Text      string    `json:"text"      db:"text"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// BucketSummary is the progress line shown above the list.
type BucketSummary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}
