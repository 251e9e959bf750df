package library

import "github.com/123ibadullah/MusicWebApplication/model"

// Sample catalog shown when the gateway is unreachable, so the UI is never
// empty. Sample playlists carry short p-prefixed ids and are protected from
// mutation. No media files ship with the binary: sample songs carry an empty
// File, which the engine reports as unavailable instead of attempting a load
// against the unreachable server.

// IsSamplePlaylistID reports whether id belongs to the built-in sample
// playlists, which cannot be deleted or modified.
func IsSamplePlaylistID(id string) bool {
	return len(id) > 0 && len(id) <= 3 && id[0] == 'p'
}

func sampleSongs() []model.Song {
	return []model.Song{
		{ID: "s1", Name: "Neon Skyline", Artist: "The Overtones", Album: "City Lights", Duration: "3:24"},
		{ID: "s2", Name: "Paper Boats", Artist: "Mira Solen", Album: "Driftwood", Duration: "4:01"},
		{ID: "s3", Name: "Afterglow", Artist: "The Overtones", Album: "City Lights", Duration: "2:58"},
		{ID: "s4", Name: "Cold Harbour", Artist: "North Channel", Album: model.DefaultSongAlbum, Duration: "3:45"},
		{ID: "s5", Name: "Last Train Home", Artist: "Mira Solen", Album: "Driftwood", Duration: "5:12"},
		{ID: "s6", Name: "Glass Gardens", Artist: "North Channel", Album: model.DefaultSongAlbum, Duration: "3:07"},
	}
}

func sampleAlbums() []model.Album {
	return []model.Album{
		{ID: "a1", Name: "City Lights", Artist: "The Overtones", BgColor: "#2a4365", Desc: "Synth-driven night drives"},
		{ID: "a2", Name: "Driftwood", Artist: "Mira Solen", BgColor: "#744210", Desc: "Quiet songs for slow mornings"},
	}
}

func samplePlaylists() []model.Playlist {
	songs := sampleSongs()
	return []model.Playlist{
		{ID: "p1", Name: "Daily Mix", Description: "A bit of everything", Songs: []model.Song{songs[0], songs[1], songs[3]}},
		{ID: "p2", Name: "Focus", Description: "Instrumental and ambient", Songs: []model.Song{songs[2], songs[5]}},
	}
}
