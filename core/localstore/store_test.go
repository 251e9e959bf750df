package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/123ibadullah/MusicWebApplication/model"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := NewAt(path)
	require.NoError(t, err)

	require.NoError(t, s.SaveVolume(42))
	require.NoError(t, s.SaveLikedSongs([]model.Song{{ID: "s1", Name: "First"}}))
	require.NoError(t, s.SaveRecentlyPlayed([]model.RecentlyPlayed{{Song: model.Song{ID: "s2"}}}))

	// Reopen from disk and confirm everything survived.
	s2, err := NewAt(path)
	require.NoError(t, err)

	v, ok := s2.Volume()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	liked := s2.LikedSongs()
	require.Len(t, liked, 1)
	assert.Equal(t, "First", liked[0].Name)

	recent := s2.RecentlyPlayed()
	require.Len(t, recent, 1)
	assert.Equal(t, "s2", recent[0].ID)
}

func TestStoreEmpty(t *testing.T) {
	s, err := NewAt(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	_, ok := s.Volume()
	assert.False(t, ok)
	assert.Empty(t, s.LikedSongs())
	assert.Empty(t, s.RecentlyPlayed())
}

func TestStoreCorruptFileIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	s, err := NewAt(path)
	require.NoError(t, err)
	assert.Empty(t, s.LikedSongs())

	require.NoError(t, s.SaveVolume(10))
	v, ok := s.Volume()
	assert.True(t, ok)
	assert.Equal(t, 10, v)
}
