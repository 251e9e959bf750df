package engine

import (
	"fmt"
	"time"

	"github.com/123ibadullah/MusicWebApplication/model"
)

// Snapshot is a read-only view of the playback state for the presentation
// layer. Time readouts are display labels in "m:ss" form.
type Snapshot struct {
	CurrentTrack *model.Song  `json:"currentTrack"`
	IsPlaying    bool         `json:"isPlaying"`
	CurrentTime  string       `json:"currentTime"`
	TotalTime    string       `json:"totalTime"`
	Volume       int          `json:"volume"`
	IsShuffled   bool         `json:"isShuffled"`
	IsRepeating  bool         `json:"isRepeating"`
	Queue        []model.Song `json:"queue"`
	Position     int          `json:"position"`
}

// Snapshot returns a consistent copy of the full playback state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		IsPlaying:   e.playing,
		CurrentTime: formatClock(e.player.Position()),
		Volume:      e.volume,
		IsShuffled:  e.shuffled,
		IsRepeating: e.repeating,
		Queue:       append([]model.Song(nil), e.queue...),
		Position:    e.position,
	}
	if e.current != nil {
		track := *e.current
		snap.CurrentTrack = &track
	}
	if total := e.player.Duration(); total > 0 {
		snap.TotalTime = formatClock(total)
	} else if e.current != nil && e.current.Duration != "" {
		// Media not loaded yet; show the catalog's duration label.
		snap.TotalTime = e.current.Duration
	} else {
		snap.TotalTime = model.DefaultDuration
	}
	return snap
}

// CurrentTrack returns a copy of the current track, or nil if none.
func (e *Engine) CurrentTrack() *model.Song {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil
	}
	track := *e.current
	return &track
}

// IsPlaying reports whether playback is running.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Queue returns a copy of the play queue.
func (e *Engine) Queue() []model.Song {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.Song(nil), e.queue...)
}

// Position returns the current queue index (-1 if nothing selected).
func (e *Engine) Position() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

// IsShuffled reports whether shuffle mode is on.
func (e *Engine) IsShuffled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shuffled
}

// IsRepeating reports whether repeat mode is on.
func (e *Engine) IsRepeating() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repeating
}

// Volume returns the current volume percentage.
func (e *Engine) Volume() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Close releases the media primitive.
func (e *Engine) Close() error {
	e.loads.Wait()
	return e.player.Close()
}

// formatClock renders a duration as "m:ss".
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
