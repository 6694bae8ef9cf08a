package models

import "time"

// Note is a single note document. AuthorID is immutable after creation and
// FavoriteCount always equals len(FavoritedBy); both are maintained by the
// store in one atomic statement.
type Note struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	AuthorID      string    `json:"author"`
	FavoritedBy   []string  `json:"favoritedBy"`
	FavoriteCount int       `json:"favoriteCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
