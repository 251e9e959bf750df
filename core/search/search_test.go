package search

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/123ibadullah/MusicWebApplication/model"
)

var (
	testSongs = []model.Song{
		{ID: "s1", Name: "Café del Mar", Artist: "Energy 52"},
		{ID: "s2", Name: "Midnight City", Artist: "M83", Album: "Hurry Up"},
		{ID: "s3", Name: "Quiet", Desc: "an acoustic cafe session"},
	}
	testAlbums = []model.Album{
		{ID: "a1", Name: "Übermorgen", Artist: "Someone"},
		{ID: "a2", Name: "Plain Album"},
	}
	testPlaylists = []model.Playlist{
		{ID: "p100", Name: "Café Mix"},
		{ID: "p101", Name: "Workout", Description: "gym energy"},
	}
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cafe", Normalize("Café"))
	assert.Equal(t, "cafe", Normalize("CAFE"))
	assert.Equal(t, "ubermorgen", Normalize("Übermorgen"))
	assert.Equal(t, "", Normalize(""))
}

func TestQueryAccentInsensitive(t *testing.T) {
	// Accented query matches unaccented fields and vice versa.
	res := Query("cafe", testSongs, testAlbums, testPlaylists)
	require.Len(t, res.Songs, 2)
	assert.Equal(t, "s1", res.Songs[0].ID)
	assert.Equal(t, "s3", res.Songs[1].ID)
	require.Len(t, res.Playlists, 1)
	assert.Equal(t, "p100", res.Playlists[0].ID)

	res = Query("CAFÉ", testSongs, testAlbums, testPlaylists)
	assert.Len(t, res.Songs, 2)
	assert.Len(t, res.Playlists, 1)
}

func TestQueryMatchesAllFields(t *testing.T) {
	res := Query("hurry", testSongs, nil, nil)
	require.Len(t, res.Songs, 1)
	assert.Equal(t, "s2", res.Songs[0].ID)

	res = Query("energy", testSongs, testAlbums, testPlaylists)
	assert.Len(t, res.Songs, 1)    // artist match
	assert.Len(t, res.Playlists, 1) // description match
}

func TestQueryEmpty(t *testing.T) {
	assert.True(t, Query("", testSongs, testAlbums, testPlaylists).Empty())
	assert.True(t, Query("   ", testSongs, testAlbums, testPlaylists).Empty())
	assert.True(t, Query("zzzz-no-match", testSongs, testAlbums, testPlaylists).Empty())
}

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var runs int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { atomic.AddInt32(&runs, 1) })
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var runs int32
	d.Trigger(func() { atomic.AddInt32(&runs, 1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}
