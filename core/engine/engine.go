// Package engine implements the queue and playback engine: it owns the play
// queue, the current track, shuffle/repeat modes and volume, and it is the
// sole driver of the media primitive.
package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/123ibadullah/MusicWebApplication/core/player"
	"github.com/123ibadullah/MusicWebApplication/core/status"
	"github.com/123ibadullah/MusicWebApplication/logger"
	"github.com/123ibadullah/MusicWebApplication/model"
)

// Library is the slice of the library cache the engine needs: track lookup,
// the default queue source, recently-played recording and volume persistence.
type Library interface {
	SongByID(id string) (model.Song, bool)
	Songs() []model.Song
	RecordRecentlyPlayed(song model.Song) status.Result
	Volume() int
	SaveVolume(percent int)
}

// Engine mediates all transitions between tracks and keeps the media
// primitive synchronized with its state. Construct one per application with
// New and pass it by reference; it holds no package-level state.
type Engine struct {
	mu     sync.Mutex
	player player.Interface
	lib    Library
	rng    *rand.Rand

	queue    []model.Song
	position int
	current  *model.Song

	playing   bool
	volume    int
	shuffled  bool
	repeating bool

	// loadSeq guards against stale media-load continuations: every async
	// load captures the sequence it was issued under and re-checks it
	// before touching playback state.
	loadSeq uint64
	// loadMu serializes load goroutines against the primitive so a
	// superseded load can never drive it after its successor has.
	loadMu sync.Mutex

	loads  sync.WaitGroup
	notify func(status.Result)
}

// New creates an engine bound to a media primitive and a library. The
// persisted volume is applied immediately and the natural-end handler is
// registered on the primitive.
func New(p player.Interface, lib Library) *Engine {
	e := &Engine{
		player:   p,
		lib:      lib,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		position: -1,
		volume:   lib.Volume(),
	}
	p.SetVolume(e.volume)
	p.OnFinished(e.handleTrackEnded)
	return e
}

// SetNotifyFunc registers a callback for results that surface asynchronously
// (media-load failures, natural-end transitions). Optional.
func (e *Engine) SetNotifyFunc(fn func(status.Result)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notify = fn
}

// PlayTrackByID replaces the queue with source (or the full library listing
// when source is nil), positions it on the requested track and starts
// playback. Queue, position and current track are updated synchronously
// before the asynchronous media load begins.
func (e *Engine) PlayTrackByID(id string, source []model.Song) status.Result {
	if id == "" {
		return status.Fail(status.ErrNotFound, "No song selected")
	}

	e.mu.Lock()
	song, ok := e.lib.SongByID(id)
	if !ok {
		e.mu.Unlock()
		return status.Fail(status.ErrNotFound, "Song not found")
	}
	if song.File == "" {
		e.mu.Unlock()
		return status.Fail(status.ErrUnavailable, "Song file not available")
	}

	queue := source
	if len(queue) == 0 {
		queue = e.lib.Songs()
	}
	e.queue = append([]model.Song(nil), queue...)

	idx := indexOf(e.queue, id)
	if idx < 0 {
		// Requested track missing from the provided listing; fall back to
		// the head of the queue rather than failing.
		idx = 0
	}
	e.position = idx
	e.current = &song
	seq := e.nextLoadLocked()
	e.mu.Unlock()

	e.lib.RecordRecentlyPlayed(song)
	e.startPlayback(seq, song.File)
	return status.Ok(fmt.Sprintf("Now playing: %s", song.Name))
}

// TogglePlayPause pauses when playing, resumes when paused. Reported no-op
// when no track is selected.
func (e *Engine) TogglePlayPause() status.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return status.Fail(status.ErrNotFound, "No song selected")
	}

	if e.playing {
		e.player.Pause()
		e.playing = false
		return status.Ok("Paused")
	}

	if e.player.State() == player.Stopped {
		// The previous load failed or playback ran out; start over on the
		// current track instead of resuming a dead stream.
		seq := e.nextLoadLocked()
		e.startPlayback(seq, e.current.File)
	} else {
		e.player.Resume()
	}
	e.playing = true
	return status.Ok("Playing")
}

// Next advances the queue: a uniformly random index when shuffled (the
// current index is not excluded from the draw), the next index with
// wrap-around otherwise. No-op on an empty queue.
func (e *Engine) Next() status.Result {
	e.mu.Lock()
	if len(e.queue) == 0 {
		e.mu.Unlock()
		return status.Fail(status.ErrNotFound, "Play queue is empty")
	}

	var idx int
	if e.shuffled {
		idx = e.rng.Intn(len(e.queue))
	} else {
		idx = (e.position + 1) % len(e.queue)
	}
	song, seq := e.selectLocked(idx)
	e.mu.Unlock()

	e.lib.RecordRecentlyPlayed(song)
	e.startPlayback(seq, song.File)
	return status.Ok(fmt.Sprintf("Now playing: %s", song.Name))
}

// Previous steps back one position, wrapping to the end of the queue.
// Shuffle does not affect it.
func (e *Engine) Previous() status.Result {
	e.mu.Lock()
	if len(e.queue) == 0 {
		e.mu.Unlock()
		return status.Fail(status.ErrNotFound, "Play queue is empty")
	}

	idx := e.position - 1
	if idx < 0 {
		idx = len(e.queue) - 1
	}
	song, seq := e.selectLocked(idx)
	e.mu.Unlock()

	e.lib.RecordRecentlyPlayed(song)
	e.startPlayback(seq, song.File)
	return status.Ok(fmt.Sprintf("Now playing: %s", song.Name))
}

// SeekTo moves playback to a fraction of the total duration. No-op when no
// track is loaded or the duration is unknown.
func (e *Engine) SeekTo(fraction float64) status.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return status.Fail(status.ErrUnavailable, "No song selected")
	}
	total := e.player.Duration()
	if total <= 0 {
		return status.Fail(status.ErrUnavailable, "Duration unknown")
	}

	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	e.player.SeekTo(time.Duration(fraction * float64(total)))
	return status.Ok("")
}

// ToggleShuffle flips shuffle mode. Takes effect on the next Next call; the
// queue itself is not reordered.
func (e *Engine) ToggleShuffle() status.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shuffled = !e.shuffled
	if e.shuffled {
		return status.Ok("Shuffle enabled")
	}
	return status.Ok("Shuffle disabled")
}

// ToggleRepeat flips repeat mode. Takes effect on the natural-end event.
func (e *Engine) ToggleRepeat() status.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repeating = !e.repeating
	if e.repeating {
		return status.Ok("Repeat enabled")
	}
	return status.Ok("Repeat disabled")
}

// SetVolume clamps percent to [0,100], applies it to the primitive and
// persists it as the user's default.
func (e *Engine) SetVolume(percent int) status.Result {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	e.mu.Lock()
	e.volume = percent
	e.mu.Unlock()

	e.player.SetVolume(percent)
	e.lib.SaveVolume(percent)
	return status.Ok("")
}

// handleTrackEnded reacts to the primitive's natural-end event: replay when
// repeating, advance when a queue remains, stop otherwise.
func (e *Engine) handleTrackEnded() {
	e.mu.Lock()
	if e.repeating && e.current != nil {
		song := *e.current
		seq := e.nextLoadLocked()
		e.mu.Unlock()
		e.player.SeekTo(0)
		e.startPlayback(seq, song.File)
		return
	}
	if len(e.queue) > 0 {
		e.mu.Unlock()
		res := e.Next()
		e.sendNotice(res)
		return
	}
	e.playing = false
	e.mu.Unlock()
	e.player.Stop()
}

// selectLocked moves the queue position to idx and makes that track current.
// Caller holds the lock and must start playback with the returned sequence.
func (e *Engine) selectLocked(idx int) (model.Song, uint64) {
	song := e.queue[idx]
	e.position = idx
	e.current = &song
	return song, e.nextLoadLocked()
}

// nextLoadLocked invalidates any in-flight media load and returns the new
// sequence. Caller holds the lock.
func (e *Engine) nextLoadLocked() uint64 {
	e.loadSeq++
	return e.loadSeq
}

// startPlayback tears down the current media and loads src asynchronously.
// Loads run one at a time against the primitive; a load that was superseded
// while waiting its turn skips the primitive entirely, and one superseded
// during Play discards its outcome.
func (e *Engine) startPlayback(seq uint64, src string) {
	e.loads.Add(1)
	go func() {
		defer e.loads.Done()

		e.loadMu.Lock()
		defer e.loadMu.Unlock()

		e.mu.Lock()
		stale := seq != e.loadSeq
		e.mu.Unlock()
		if stale {
			return
		}

		e.player.Stop()
		err := e.player.Play(src)

		e.mu.Lock()
		if seq != e.loadSeq {
			// A newer track switch superseded this load; its outcome no
			// longer refers to the current track.
			e.mu.Unlock()
			return
		}
		if err != nil {
			e.playing = false
			e.mu.Unlock()
			logger.Error("failed to play media", logger.String("src", src), logger.ErrorField(err))
			e.sendNotice(status.Fail(status.ErrUnavailable, "Failed to play song"))
			return
		}
		e.playing = true
		e.mu.Unlock()
	}()
}

// WaitForLoads blocks until all in-flight media loads have settled.
func (e *Engine) WaitForLoads() {
	e.loads.Wait()
}

func (e *Engine) sendNotice(res status.Result) {
	e.mu.Lock()
	fn := e.notify
	e.mu.Unlock()
	if fn != nil {
		fn(res)
	}
}

func indexOf(songs []model.Song, id string) int {
	for i, s := range songs {
		if s.ID == id {
			return i
		}
	}
	return -1
}
