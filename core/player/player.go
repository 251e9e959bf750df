// Package player wraps the platform audio primitive behind a small interface.
// The playback engine is the only component allowed to drive it.
package player

import "time"

// State represents the primitive's transport state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// Interface defines the media primitive contract for dependency injection
// and testing. Play fully tears down any current media before loading the
// new source, so at most one item is ever loaded.
type Interface interface {
	Play(src string) error // may block while the source is fetched and decoded
	Pause()
	Resume()
	Stop()
	State() State
	SeekTo(pos time.Duration)
	SetVolume(percent int) // clamped to [0,100]
	Position() time.Duration
	Duration() time.Duration
	// OnFinished registers fn for the natural end of the current media.
	// fn is invoked outside any player-internal lock and may call back
	// into the player.
	OnFinished(fn func())
	Close() error
}
