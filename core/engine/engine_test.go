package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/123ibadullah/MusicWebApplication/core/player"
	"github.com/123ibadullah/MusicWebApplication/core/status"
	"github.com/123ibadullah/MusicWebApplication/model"
)

// fakeLibrary satisfies Library with an in-memory catalog and records the
// recently-played calls the engine issues.
type fakeLibrary struct {
	mu       sync.Mutex
	songs    []model.Song
	recorded []string
	volume   int
}

func newFakeLibrary(songs ...model.Song) *fakeLibrary {
	return &fakeLibrary{songs: songs, volume: 80}
}

func (l *fakeLibrary) SongByID(id string) (model.Song, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.songs {
		if s.ID == id {
			return s, true
		}
	}
	return model.Song{}, false
}

func (l *fakeLibrary) Songs() []model.Song {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Song(nil), l.songs...)
}

func (l *fakeLibrary) RecordRecentlyPlayed(song model.Song) status.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recorded = append(l.recorded, song.ID)
	return status.Ok("")
}

func (l *fakeLibrary) Volume() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.volume
}

func (l *fakeLibrary) SaveVolume(percent int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.volume = percent
}

func (l *fakeLibrary) recordedIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.recorded...)
}

func testSongs() []model.Song {
	return []model.Song{
		{ID: "s1", Name: "Neon Skyline", File: "http://x/s1.mp3", Duration: "3:24"},
		{ID: "s2", Name: "Paper Boats", File: "http://x/s2.mp3", Duration: "4:01"},
		{ID: "s3", Name: "Afterglow", File: "http://x/s3.mp3", Duration: "2:58"},
	}
}

func newTestEngine(t *testing.T) (*Engine, *player.Mock, *fakeLibrary) {
	t.Helper()
	mock := player.NewMock()
	lib := newFakeLibrary(testSongs()...)
	e := New(mock, lib)
	return e, mock, lib
}

// pollUntil waits for cond to become true, failing the test after a second.
func pollUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestNewAppliesPersistedVolume(t *testing.T) {
	mock := player.NewMock()
	lib := newFakeLibrary(testSongs()...)
	lib.volume = 35

	e := New(mock, lib)
	assert.Equal(t, 35, e.Volume())
	assert.Equal(t, 35, mock.Volume())
}

func TestPlayTrackByID(t *testing.T) {
	e, mock, lib := newTestEngine(t)

	res := e.PlayTrackByID("s2", nil)
	require.True(t, res.OK)
	assert.Equal(t, "Now playing: Paper Boats", res.Message)

	// Queue and position are set synchronously, before the media load.
	require.Len(t, e.Queue(), 3)
	assert.Equal(t, 1, e.Position())
	require.NotNil(t, e.CurrentTrack())
	assert.Equal(t, "s2", e.CurrentTrack().ID)

	e.WaitForLoads()
	assert.True(t, e.IsPlaying())
	assert.Equal(t, []string{"http://x/s2.mp3"}, mock.PlayCalls())
	assert.Equal(t, []string{"s2"}, lib.recordedIDs())
}

func TestPlayTrackByIDWithSource(t *testing.T) {
	e, _, _ := newTestEngine(t)

	source := []model.Song{
		{ID: "s3", Name: "Afterglow", File: "http://x/s3.mp3"},
		{ID: "s1", Name: "Neon Skyline", File: "http://x/s1.mp3"},
	}
	res := e.PlayTrackByID("s1", source)
	require.True(t, res.OK)

	queue := e.Queue()
	require.Len(t, queue, 2)
	assert.Equal(t, "s3", queue[0].ID)
	assert.Equal(t, 1, e.Position())
	e.WaitForLoads()
}

func TestPlayTrackByIDMissingFromSourceFallsBackToHead(t *testing.T) {
	e, _, _ := newTestEngine(t)

	source := []model.Song{
		{ID: "s3", Name: "Afterglow", File: "http://x/s3.mp3"},
	}
	res := e.PlayTrackByID("s1", source)
	require.True(t, res.OK)
	assert.Equal(t, 0, e.Position())
	require.NotNil(t, e.CurrentTrack())
	assert.Equal(t, "s1", e.CurrentTrack().ID)
	e.WaitForLoads()
}

func TestPlayTrackByIDErrors(t *testing.T) {
	e, _, _ := newTestEngine(t)

	res := e.PlayTrackByID("", nil)
	assert.True(t, res.Is(status.ErrNotFound))

	res = e.PlayTrackByID("missing", nil)
	assert.True(t, res.Is(status.ErrNotFound))

	mock := player.NewMock()
	lib := newFakeLibrary(model.Song{ID: "nofile", Name: "Broken"})
	e2 := New(mock, lib)
	res = e2.PlayTrackByID("nofile", nil)
	assert.True(t, res.Is(status.ErrUnavailable))
	assert.Empty(t, mock.PlayCalls())
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	var notices []status.Result
	var noticeMu sync.Mutex
	e.SetNotifyFunc(func(r status.Result) {
		noticeMu.Lock()
		notices = append(notices, r)
		noticeMu.Unlock()
	})

	mock.GateLoads()
	mock.SetPlayError(errors.New("decode failure"))
	require.True(t, e.PlayTrackByID("s1", nil).OK)
	pollUntil(t, func() bool { return len(mock.PlayCalls()) == 1 })

	// Switch tracks while the first load is still inside Play. Loads are
	// serialized, so the second waits its turn; the first load's failure
	// must not surface against the second track.
	mock.SetPlayError(nil)
	require.True(t, e.PlayTrackByID("s2", nil).OK)

	mock.ReleaseLoad()
	pollUntil(t, func() bool { return len(mock.PlayCalls()) == 2 })
	mock.ReleaseLoad()
	e.WaitForLoads()

	require.NotNil(t, e.CurrentTrack())
	assert.Equal(t, "s2", e.CurrentTrack().ID)
	assert.True(t, e.IsPlaying())
	assert.Equal(t, "http://x/s2.mp3", mock.LoadedSrc())
	noticeMu.Lock()
	assert.Empty(t, notices, "the superseded load's failure is silent")
	noticeMu.Unlock()
}

func TestSupersededLoadNeverDrivesPrimitive(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	mock.GateLoads()
	require.True(t, e.PlayTrackByID("s1", nil).OK)
	pollUntil(t, func() bool { return len(mock.PlayCalls()) == 1 })
	require.True(t, e.PlayTrackByID("s2", nil).OK)

	// Release the first load, then the second. Whatever the first load did
	// inside Play, the second track must be the one left on the primitive.
	mock.ReleaseLoad()
	pollUntil(t, func() bool { return len(mock.PlayCalls()) == 2 })
	mock.ReleaseLoad()
	e.WaitForLoads()

	require.NotNil(t, e.CurrentTrack())
	assert.Equal(t, "s2", e.CurrentTrack().ID)
	assert.Equal(t, "http://x/s2.mp3", mock.LoadedSrc())
	assert.Equal(t, []string{"http://x/s1.mp3", "http://x/s2.mp3"}, mock.PlayCalls())
}

func TestLoadFailureStopsPlayback(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	var notices []status.Result
	var noticeMu sync.Mutex
	e.SetNotifyFunc(func(r status.Result) {
		noticeMu.Lock()
		notices = append(notices, r)
		noticeMu.Unlock()
	})

	mock.SetPlayError(errors.New("404"))
	require.True(t, e.PlayTrackByID("s1", nil).OK)
	e.WaitForLoads()

	assert.False(t, e.IsPlaying())
	noticeMu.Lock()
	require.Len(t, notices, 1)
	assert.True(t, notices[0].Is(status.ErrUnavailable))
	noticeMu.Unlock()
}

func TestTogglePlayPause(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	res := e.TogglePlayPause()
	assert.True(t, res.Is(status.ErrNotFound))

	require.True(t, e.PlayTrackByID("s1", nil).OK)
	e.WaitForLoads()
	require.True(t, e.IsPlaying())

	res = e.TogglePlayPause()
	require.True(t, res.OK)
	assert.Equal(t, "Paused", res.Message)
	assert.False(t, e.IsPlaying())
	assert.Equal(t, player.Paused, mock.State())

	res = e.TogglePlayPause()
	require.True(t, res.OK)
	assert.True(t, e.IsPlaying())
	assert.Equal(t, player.Playing, mock.State())
}

func TestTogglePlayPauseRestartsDeadStream(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	require.True(t, e.PlayTrackByID("s1", nil).OK)
	e.WaitForLoads()
	require.True(t, e.TogglePlayPause().OK) // pause

	// The underlying stream died while paused.
	mock.Stop()

	require.True(t, e.TogglePlayPause().OK)
	e.WaitForLoads()
	assert.True(t, e.IsPlaying())
	assert.Equal(t, 2, len(mock.PlayCalls()), "a dead stream is reloaded, not resumed")
}

func TestNextSequentialWrapsAround(t *testing.T) {
	e, _, _ := newTestEngine(t)

	require.True(t, e.PlayTrackByID("s3", nil).OK)
	e.WaitForLoads()
	require.Equal(t, 2, e.Position())

	res := e.Next()
	require.True(t, res.OK)
	e.WaitForLoads()
	assert.Equal(t, 0, e.Position())
	assert.Equal(t, "s1", e.CurrentTrack().ID)
}

func TestPreviousWrapsAround(t *testing.T) {
	e, _, _ := newTestEngine(t)

	require.True(t, e.PlayTrackByID("s1", nil).OK)
	e.WaitForLoads()

	res := e.Previous()
	require.True(t, res.OK)
	e.WaitForLoads()
	assert.Equal(t, 2, e.Position())
	assert.Equal(t, "s3", e.CurrentTrack().ID)
}

func TestNextPreviousEmptyQueue(t *testing.T) {
	e, _, _ := newTestEngine(t)
	assert.True(t, e.Next().Is(status.ErrNotFound))
	assert.True(t, e.Previous().Is(status.ErrNotFound))
}

func TestShuffledNextStaysInRange(t *testing.T) {
	e, _, _ := newTestEngine(t)

	require.True(t, e.PlayTrackByID("s1", nil).OK)
	e.WaitForLoads()
	require.True(t, e.ToggleShuffle().OK)

	seen := make(map[int]bool)
	for i := 0; i < 60; i++ {
		require.True(t, e.Next().OK)
		pos := e.Position()
		require.GreaterOrEqual(t, pos, 0)
		require.Less(t, pos, 3)
		seen[pos] = true
	}
	e.WaitForLoads()
	// 60 uniform draws over 3 indices hit more than one index.
	assert.Greater(t, len(seen), 1)
}

func TestToggleShuffleAndRepeatMessages(t *testing.T) {
	e, _, _ := newTestEngine(t)

	assert.Equal(t, "Shuffle enabled", e.ToggleShuffle().Message)
	assert.True(t, e.IsShuffled())
	assert.Equal(t, "Shuffle disabled", e.ToggleShuffle().Message)

	assert.Equal(t, "Repeat enabled", e.ToggleRepeat().Message)
	assert.True(t, e.IsRepeating())
	assert.Equal(t, "Repeat disabled", e.ToggleRepeat().Message)
}

func TestRepeatReplaysOnNaturalEnd(t *testing.T) {
	e, mock, lib := newTestEngine(t)

	require.True(t, e.PlayTrackByID("s1", nil).OK)
	e.WaitForLoads()
	require.True(t, e.ToggleRepeat().OK)

	mock.SimulateFinished()
	e.WaitForLoads()

	assert.Equal(t, "s1", e.CurrentTrack().ID)
	assert.Equal(t, []string{"http://x/s1.mp3", "http://x/s1.mp3"}, mock.PlayCalls())
	assert.Contains(t, mock.SeekCalls(), time.Duration(0))
	assert.Equal(t, []string{"s1"}, lib.recordedIDs(), "a repeat does not re-record the track")
}

func TestNaturalEndAdvancesQueue(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	var notices []status.Result
	var noticeMu sync.Mutex
	e.SetNotifyFunc(func(r status.Result) {
		noticeMu.Lock()
		notices = append(notices, r)
		noticeMu.Unlock()
	})

	require.True(t, e.PlayTrackByID("s1", nil).OK)
	e.WaitForLoads()

	mock.SimulateFinished()
	e.WaitForLoads()

	assert.Equal(t, "s2", e.CurrentTrack().ID)
	assert.True(t, e.IsPlaying())
	noticeMu.Lock()
	require.Len(t, notices, 1)
	assert.Equal(t, "Now playing: Paper Boats", notices[0].Message)
	noticeMu.Unlock()
}

func TestNaturalEndWithoutQueueStops(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	mock.SimulateFinished()
	e.WaitForLoads()
	assert.False(t, e.IsPlaying())
	assert.Equal(t, player.Stopped, mock.State())
}

func TestSeekTo(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	res := e.SeekTo(0.5)
	assert.True(t, res.Is(status.ErrUnavailable))

	require.True(t, e.PlayTrackByID("s1", nil).OK)
	e.WaitForLoads()

	// Unknown duration: still a no-op.
	res = e.SeekTo(0.5)
	assert.True(t, res.Is(status.ErrUnavailable))

	mock.SetDuration(200 * time.Second)
	require.True(t, e.SeekTo(0.5).OK)
	require.True(t, e.SeekTo(1.5).OK)
	require.True(t, e.SeekTo(-0.5).OK)

	calls := mock.SeekCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, 100*time.Second, calls[0])
	assert.Equal(t, 200*time.Second, calls[1])
	assert.Equal(t, time.Duration(0), calls[2])
}

func TestSetVolumeClampsAndPersists(t *testing.T) {
	e, mock, lib := newTestEngine(t)

	require.True(t, e.SetVolume(140).OK)
	assert.Equal(t, 100, e.Volume())
	assert.Equal(t, 100, mock.Volume())
	assert.Equal(t, 100, lib.Volume())

	require.True(t, e.SetVolume(-5).OK)
	assert.Equal(t, 0, e.Volume())
	assert.Equal(t, 0, lib.Volume())
}

func TestSnapshot(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	snap := e.Snapshot()
	assert.Nil(t, snap.CurrentTrack)
	assert.Equal(t, -1, snap.Position)
	assert.Equal(t, model.DefaultDuration, snap.TotalTime)

	require.True(t, e.PlayTrackByID("s1", nil).OK)
	e.WaitForLoads()

	snap = e.Snapshot()
	require.NotNil(t, snap.CurrentTrack)
	assert.Equal(t, "s1", snap.CurrentTrack.ID)
	assert.True(t, snap.IsPlaying)
	assert.Len(t, snap.Queue, 3)
	// Media duration unknown: the catalog label is shown.
	assert.Equal(t, "3:24", snap.TotalTime)

	mock.SetDuration(95 * time.Second)
	mock.SetPosition(61 * time.Second)
	snap = e.Snapshot()
	assert.Equal(t, "1:35", snap.TotalTime)
	assert.Equal(t, "1:01", snap.CurrentTime)
}

// Full listening session: play from a source listing, pause and resume,
// shuffle through the queue, then let a repeat-enabled track end naturally.
func TestListeningSession(t *testing.T) {
	e, mock, lib := newTestEngine(t)

	album := []model.Song{
		{ID: "s1", Name: "Neon Skyline", File: "http://x/s1.mp3"},
		{ID: "s3", Name: "Afterglow", File: "http://x/s3.mp3"},
	}
	require.True(t, e.PlayTrackByID("s3", album).OK)
	e.WaitForLoads()
	require.Equal(t, 1, e.Position())
	require.Len(t, e.Queue(), 2)

	require.True(t, e.TogglePlayPause().OK)
	require.False(t, e.IsPlaying())
	require.True(t, e.TogglePlayPause().OK)
	require.True(t, e.IsPlaying())

	require.True(t, e.ToggleShuffle().OK)
	require.True(t, e.Next().OK)
	e.WaitForLoads()
	require.NotNil(t, e.CurrentTrack())

	require.True(t, e.ToggleRepeat().OK)
	before := len(mock.PlayCalls())
	mock.SimulateFinished()
	e.WaitForLoads()
	assert.Equal(t, before+1, len(mock.PlayCalls()))

	assert.NotEmpty(t, lib.recordedIDs())
}
