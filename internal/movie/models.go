package movie

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength = 200
	MinRating      = 1
	MaxRating      = 5
)

// Movie is the persistent movie record. The same shape is used on the wire
// and in every backend; bson/firestore tags cover the collection stores.
type Movie struct {
	ID        string    `json:"id" bson:"_id,omitempty" firestore:"-"`
	Title     string    `json:"title" bson:"title" firestore:"title"`
	Rating    int       `json:"rating" bson:"rating" firestore:"rating"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt" firestore:"updatedAt"`
}

// Input carries the client-supplied fields of a create or full replace.
type Input struct {
	Title  string
	Rating int
}

// Valid reports whether in satisfies the persisted-record invariants.
func (in Input) Valid() bool {
	t := strings.TrimSpace(in.Title)
	n := utf8.RuneCountInString(t)
	return n >= 1 && n <= MaxTitleLength && in.Rating >= MinRating && in.Rating <= MaxRating
}
