package model

import "time"

// Playlist represents a user-owned ordered collection of songs.
// Songs is resolved to full snapshots by the repository; membership is
// persisted through PlaylistSong rows.
type Playlist struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	UserID      string    `json:"userId" gorm:"size:36;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"size:1024"`
	Songs       []Song    `json:"songs" gorm:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PlaylistSong is a membership row linking a song into a playlist at a position.
type PlaylistSong struct {
	PlaylistID string    `json:"playlistId" gorm:"primaryKey;size:36"`
	SongID     string    `json:"songId" gorm:"primaryKey;size:36"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SongIDs returns the playlist's song ids in order.
func (p *Playlist) SongIDs() []string {
	ids := make([]string, len(p.Songs))
	for i, s := range p.Songs {
		ids[i] = s.ID
	}
	return ids
}

// HasSong reports whether the playlist already contains the song.
func (p *Playlist) HasSong(songID string) bool {
	for _, s := range p.Songs {
		if s.ID == songID {
			return true
		}
	}
	return false
}
