package model

import "time"

// Author is who wrote a poem. The set is fixed.
type Author string

const (
	AuthorNikita  Author = "nikita"
	AuthorShubham Author = "shubham"
)

func (a Author) Valid() bool {
	return a == AuthorNikita || a == AuthorShubham
}

// Language of a poem.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageHindi   Language = "hindi"
)

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageHindi
}

// Poem is an entry in the poetry catalog.
//
// Author is set once at creation and never edited. UpdatedAt equals CreatedAt
// right after creation and moves forward on every edit.
type Poem struct {
	ID        string    `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	Content   string    `json:"content"   db:"content"`
	Author    Author    `json:"author"    db:"author"`
	Language  Language  `json:"language"  db:"language"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
