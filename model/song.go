package model

import "time"

// Defaults substituted for blank fields when a song is created or decoded.
const (
	DefaultSongName = "Unknown Song"
	DefaultSongDesc = "No description"
	DefaultSongAlbum = "Single"
	DefaultDuration = "0:00"
)

// Song represents an audio track in the catalog.
// Duration is a display label ("m:ss"); the server estimates it from file
// size when it cannot be determined from the upload.
type Song struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Desc      string    `json:"desc" gorm:"size:1024"`
	Artist    string    `json:"artist" gorm:"size:255"`
	Album     string    `json:"album" gorm:"size:255"`
	Image     string    `json:"image" gorm:"size:767"`
	File      string    `json:"file" gorm:"size:767"`
	Duration  string    `json:"duration" gorm:"size:16"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecentlyPlayed is a song snapshot with the time it was last played.
// The embedded song keeps the wire shape flat.
type RecentlyPlayed struct {
	Song
	PlayedAt time.Time `json:"playedAt"`
}

// UserLike records that a user liked a song.
type UserLike struct {
	UserID    string    `json:"userId" gorm:"primaryKey;size:36"`
	SongID    string    `json:"songId" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`
}
